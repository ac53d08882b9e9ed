package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fitsync/fitsync/internal/database"
	"github.com/fitsync/fitsync/internal/models"
	"github.com/fitsync/fitsync/internal/utils"
	"gorm.io/gorm"
)

// GormWorkoutRepository is a GORM implementation of WorkoutRepository
type GormWorkoutRepository struct {
	db *gorm.DB
}

// NewWorkoutRepository creates a new WorkoutRepository
func NewWorkoutRepository(db *gorm.DB) WorkoutRepository {
	return &GormWorkoutRepository{db: db}
}

// Create creates a workout with its exercises and partner tags
func (r *GormWorkoutRepository) Create(workout *models.Workout) error {
	return r.db.Create(workout).Error
}

// FindByID finds a workout by ID with optional preloading
func (r *GormWorkoutRepository) FindByID(id uint64, preload ...string) (*models.Workout, error) {
	var workout models.Workout
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&workout, id).Error; err != nil {
		return nil, err
	}

	return &workout, nil
}

// FindSessionKey finds the workout matching the owner's uniqueness key
func (r *GormWorkoutRepository) FindSessionKey(ownerID uint64, date time.Time, muscleGroup, workoutType string) (*models.Workout, error) {
	var workout models.Workout
	err := r.db.Where(
		"user_id = ? AND date = ? AND muscle_group = ? AND type = ?",
		ownerID, date, muscleGroup, workoutType,
	).First(&workout).Error
	if err != nil {
		return nil, err
	}
	return &workout, nil
}

// visibleScope restricts a workout query to the visible set: workouts owned
// by the user plus workouts tagging one of the connections that link back to
// the user.
func (r *GormWorkoutRepository) visibleScope(query *gorm.DB, userID uint64, connectionIDs []uint64) *gorm.DB {
	if len(connectionIDs) == 0 {
		return query.Where("workouts.user_id = ?", userID)
	}

	tagged := r.db.Model(&models.WorkoutPartner{}).
		Select("1").
		Where("workout_partners.workout_id = workouts.id").
		Where("workout_partners.connection_id IN ?", connectionIDs)

	return query.Where("workouts.user_id = ? OR EXISTS (?)", userID, tagged)
}

// List retrieves workouts visible under the filter, newest first
func (r *GormWorkoutRepository) List(filter WorkoutFilter) ([]models.Workout, error) {
	query := r.visibleScope(r.db.Model(&models.Workout{}), filter.UserID, filter.ConnectionIDs)

	if filter.MuscleGroup != "" {
		query = query.Where("workouts.muscle_group = ?", filter.MuscleGroup)
	}
	if filter.Type != "" {
		query = query.Where("workouts.type = ?", filter.Type)
	}
	if filter.DateFrom != nil {
		query = query.Where("workouts.date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("workouts.date <= ?", *filter.DateTo)
	}
	if filter.MaxDuration != nil {
		query = query.Where("workouts.duration_minutes <= ?", *filter.MaxDuration)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		exerciseMatch := r.db.Model(&models.Exercise{}).
			Select("1").
			Where("exercises.workout_id = workouts.id").
			Where("LOWER(exercises.name) LIKE ?", pattern)
		query = query.Where(
			"LOWER(workouts.muscle_group) LIKE ? OR LOWER(workouts.notes) LIKE ? OR EXISTS (?)",
			pattern, pattern, exerciseMatch,
		)
	}

	query = query.Order("workouts.date DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var workouts []models.Workout
	if err := query.
		Preload("Owner").
		Preload("Exercises").
		Preload("Partners").
		Preload("Partners.Connection").
		Find(&workouts).Error; err != nil {
		return nil, err
	}

	return workouts, nil
}

// ListAll retrieves all workouts, paginated
func (r *GormWorkoutRepository) ListAll(params utils.PaginationParams) ([]models.Workout, int64, error) {
	var total int64
	if err := r.db.Model(&models.Workout{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var workouts []models.Workout
	if err := r.db.Order("date DESC").Scopes(database.Paginate(params)).
		Find(&workouts).Error; err != nil {
		return nil, 0, err
	}
	return workouts, total, nil
}

// ListByConnection retrieves workouts tagging a connection, owned by either
// side of the pair, newest first
func (r *GormWorkoutRepository) ListByConnection(connectionID, ownerID, linkedUserID uint64) ([]models.Workout, error) {
	tagged := r.db.Model(&models.WorkoutPartner{}).
		Select("1").
		Where("workout_partners.workout_id = workouts.id").
		Where("workout_partners.connection_id = ?", connectionID)

	var workouts []models.Workout
	err := r.db.Model(&models.Workout{}).
		Where("workouts.user_id IN ?", []uint64{ownerID, linkedUserID}).
		Where("EXISTS (?)", tagged).
		Order("workouts.date DESC").
		Preload("Exercises").
		Find(&workouts).Error
	if err != nil {
		return nil, err
	}
	return workouts, nil
}

// Update persists workout fields
func (r *GormWorkoutRepository) Update(workout *models.Workout) error {
	return r.db.Omit("Exercises", "Partners", "Owner").Save(workout).Error
}

// ReplaceExercises swaps a workout's exercise list
func (r *GormWorkoutRepository) ReplaceExercises(workoutID uint64, exercises []models.Exercise) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workout_id = ?", workoutID).
			Delete(&models.Exercise{}).Error; err != nil {
			return err
		}
		if len(exercises) == 0 {
			return nil
		}
		for i := range exercises {
			exercises[i].WorkoutID = workoutID
		}
		return tx.Create(&exercises).Error
	})
}

// ReplacePartners swaps a workout's partner tag set
func (r *GormWorkoutRepository) ReplacePartners(workoutID uint64, partners []models.WorkoutPartner) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workout_id = ?", workoutID).
			Delete(&models.WorkoutPartner{}).Error; err != nil {
			return err
		}
		if len(partners) == 0 {
			return nil
		}
		for i := range partners {
			partners[i].WorkoutID = workoutID
		}
		return tx.Create(&partners).Error
	})
}

// Delete hard-deletes a workout with its exercises and partner tags
func (r *GormWorkoutRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workout_id = ?", id).
			Delete(&models.WorkoutPartner{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workout_id = ?", id).
			Delete(&models.Exercise{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Workout{}, id).Error
	})
}

// CountVisible counts workouts in the visible set
func (r *GormWorkoutRepository) CountVisible(userID uint64, connectionIDs []uint64) (int64, error) {
	var count int64
	err := r.visibleScope(r.db.Model(&models.Workout{}), userID, connectionIDs).
		Count(&count).Error
	return count, err
}

// workoutGroupColumns whitelists the columns GroupVisible may group on.
var workoutGroupColumns = map[string]bool{
	"muscle_group": true,
	"type":         true,
}

// GroupVisible returns grouped counts over the visible set
func (r *GormWorkoutRepository) GroupVisible(userID uint64, connectionIDs []uint64, column string) ([]GroupCount, error) {
	if !workoutGroupColumns[column] {
		return nil, fmt.Errorf("workout repository: cannot group by %q", column)
	}

	var groups []GroupCount
	err := r.visibleScope(r.db.Model(&models.Workout{}), userID, connectionIDs).
		Select(column+" AS value, COUNT(*) AS count").
		Group(column).
		Order("count DESC").
		Scan(&groups).Error
	return groups, err
}

// AverageDurationVisible averages duration over the visible set
func (r *GormWorkoutRepository) AverageDurationVisible(userID uint64, connectionIDs []uint64) (float64, error) {
	var avg sql.NullFloat64
	err := r.visibleScope(r.db.Model(&models.Workout{}), userID, connectionIDs).
		Select("AVG(duration_minutes)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}

// DatesVisible returns the dates of workouts in the visible set
func (r *GormWorkoutRepository) DatesVisible(userID uint64, connectionIDs []uint64) ([]time.Time, error) {
	var dates []time.Time
	err := r.visibleScope(r.db.Model(&models.Workout{}), userID, connectionIDs).
		Pluck("date", &dates).Error
	return dates, err
}
