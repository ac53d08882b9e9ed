package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fitsync/fitsync/internal/constants"
	"github.com/fitsync/fitsync/internal/models"
	"github.com/fitsync/fitsync/internal/repository"
	"github.com/fitsync/fitsync/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrMissingWorkoutFields = errors.New("date, muscle group, type and duration are required")
	ErrDuplicateWorkout     = errors.New("a workout with the same date, muscle group and type already exists")
	ErrWorkoutNotFound      = errors.New("workout not found")
	ErrWorkoutAccessDenied  = errors.New("you don't have access to this workout")
)

// workoutPreloads loads everything a workout response needs.
var workoutPreloads = []string{"Owner", "Exercises", "Partners", "Partners.Connection"}

// WorkoutService handles the workout log: session creation under the
// per-owner uniqueness key, and edits/deletes authorized through the
// visibility resolver.
type WorkoutService struct {
	workoutRepo repository.WorkoutRepository
	resolver    *VisibilityResolver
}

// NewWorkoutService creates a new WorkoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository, resolver *VisibilityResolver) *WorkoutService {
	return &WorkoutService{
		workoutRepo: workoutRepo,
		resolver:    resolver,
	}
}

// ExerciseInput is one entry of a workout's exercise list.
type ExerciseInput struct {
	Name   string  `json:"name" binding:"required"`
	Sets   int     `json:"sets"`
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// CreateWorkoutInput represents input for logging a workout.
type CreateWorkoutInput struct {
	OwnerID              uint64
	Date                 time.Time
	MuscleGroup          string
	Type                 string
	DurationMinutes      int
	Notes                string
	Exercises            []ExerciseInput
	PartnerConnectionIDs []uint64
}

// Create logs a new workout. Partner tags are stored as a deduplicated,
// ordered set of connection IDs, each referencing one of the owner's own
// connections.
func (s *WorkoutService) Create(input CreateWorkoutInput) (*models.Workout, error) {
	if input.Date.IsZero() || input.MuscleGroup == "" || input.Type == "" || input.DurationMinutes <= 0 {
		return nil, ErrMissingWorkoutFields
	}

	if _, err := s.workoutRepo.FindSessionKey(input.OwnerID, input.Date, input.MuscleGroup, input.Type); err == nil {
		return nil, ErrDuplicateWorkout
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for duplicate workout: %w", err)
	}

	if err := s.resolver.ValidateTags(input.OwnerID, input.PartnerConnectionIDs); err != nil {
		return nil, err
	}

	workout := &models.Workout{
		UserID:          input.OwnerID,
		Date:            input.Date,
		MuscleGroup:     input.MuscleGroup,
		Type:            input.Type,
		DurationMinutes: input.DurationMinutes,
		Notes:           input.Notes,
		Exercises:       buildExercises(input.Exercises),
		Partners:        buildPartnerTags(input.PartnerConnectionIDs),
	}

	if err := s.workoutRepo.Create(workout); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateWorkout
		}
		return nil, fmt.Errorf("failed to create workout: %w", err)
	}

	return s.workoutRepo.FindByID(workout.ID, workoutPreloads...)
}

// UpdateWorkoutInput carries updatable workout fields; nil leaves a field
// unchanged. PartnerConnectionIDs only takes effect for the owner.
type UpdateWorkoutInput struct {
	Date                 *time.Time
	MuscleGroup          *string
	Type                 *string
	DurationMinutes      *int
	Notes                *string
	Exercises            *[]ExerciseInput
	PartnerConnectionIDs *[]uint64
}

// Update edits a workout. Owners and tagged partners may edit; a partner's
// attempt to change the tag set is silently ignored so they cannot break
// anyone's visibility, including their own.
func (s *WorkoutService) Update(callerID, workoutID uint64, input UpdateWorkoutInput) (*models.Workout, error) {
	workout, err := s.workoutRepo.FindByID(workoutID, "Partners")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("failed to find workout: %w", err)
	}

	isOwner, isPartner, err := s.resolver.Access(callerID, workout)
	if err != nil {
		return nil, err
	}
	if !isOwner && !isPartner {
		return nil, ErrWorkoutAccessDenied
	}

	if isOwner && input.PartnerConnectionIDs != nil {
		if err := s.resolver.ValidateTags(workout.UserID, *input.PartnerConnectionIDs); err != nil {
			return nil, err
		}
	}

	if input.Date != nil {
		workout.Date = *input.Date
	}
	if input.MuscleGroup != nil {
		workout.MuscleGroup = *input.MuscleGroup
	}
	if input.Type != nil {
		workout.Type = *input.Type
	}
	if input.DurationMinutes != nil {
		workout.DurationMinutes = *input.DurationMinutes
	}
	if input.Notes != nil {
		workout.Notes = *input.Notes
	}

	if input.Date != nil || input.MuscleGroup != nil || input.Type != nil {
		existing, err := s.workoutRepo.FindSessionKey(workout.UserID, workout.Date, workout.MuscleGroup, workout.Type)
		if err == nil && existing.ID != workout.ID {
			return nil, ErrDuplicateWorkout
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check for duplicate workout: %w", err)
		}
	}

	if err := s.workoutRepo.Update(workout); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateWorkout
		}
		return nil, fmt.Errorf("failed to update workout: %w", err)
	}

	if input.Exercises != nil {
		if err := s.workoutRepo.ReplaceExercises(workout.ID, buildExercises(*input.Exercises)); err != nil {
			return nil, fmt.Errorf("failed to update exercises: %w", err)
		}
	}

	if isOwner && input.PartnerConnectionIDs != nil {
		if err := s.workoutRepo.ReplacePartners(workout.ID, buildPartnerTags(*input.PartnerConnectionIDs)); err != nil {
			return nil, fmt.Errorf("failed to update partner tags: %w", err)
		}
	}

	return s.workoutRepo.FindByID(workout.ID, workoutPreloads...)
}

// Delete removes a workout for everyone. Owners and tagged partners may
// delete.
func (s *WorkoutService) Delete(callerID, workoutID uint64) error {
	workout, err := s.workoutRepo.FindByID(workoutID, "Partners")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkoutNotFound
		}
		return fmt.Errorf("failed to find workout: %w", err)
	}

	isOwner, isPartner, err := s.resolver.Access(callerID, workout)
	if err != nil {
		return err
	}
	if !isOwner && !isPartner {
		return ErrWorkoutAccessDenied
	}

	if err := s.workoutRepo.Delete(workout.ID); err != nil {
		return fmt.Errorf("failed to delete workout: %w", err)
	}

	return nil
}

// ListWorkoutsInput represents filters for listing visible workouts.
type ListWorkoutsInput struct {
	UserID      uint64
	MuscleGroup string
	Type        string
	DateFrom    *time.Time
	DateTo      *time.Time
	MaxDuration *int
	Search      string
}

// List returns the user's visible workouts, newest first.
func (s *WorkoutService) List(input ListWorkoutsInput) ([]models.Workout, error) {
	connIDs, err := s.resolver.MyConnectionIDs(input.UserID)
	if err != nil {
		return nil, err
	}

	workouts, err := s.workoutRepo.List(repository.WorkoutFilter{
		UserID:        input.UserID,
		ConnectionIDs: connIDs,
		MuscleGroup:   input.MuscleGroup,
		Type:          input.Type,
		DateFrom:      input.DateFrom,
		DateTo:        input.DateTo,
		MaxDuration:   input.MaxDuration,
		Search:        input.Search,
		Limit:         constants.MaxWorkoutListSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	return workouts, nil
}

// Get returns a single workout if it is visible to the user. Invisible
// workouts are reported as not found rather than forbidden, so nothing leaks
// about other users' logs.
func (s *WorkoutService) Get(userID, workoutID uint64) (*models.Workout, error) {
	workout, err := s.workoutRepo.FindByID(workoutID, workoutPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("failed to find workout: %w", err)
	}

	isOwner, isPartner, err := s.resolver.Access(userID, workout)
	if err != nil {
		return nil, err
	}
	if !isOwner && !isPartner {
		return nil, ErrWorkoutNotFound
	}

	return workout, nil
}

// WorkoutStats aggregates the visible set.
type WorkoutStats struct {
	Total       int64                   `json:"total"`
	ByMuscle    []repository.GroupCount `json:"by_muscle"`
	AvgDuration int                     `json:"avg_duration"`
	ByWeek      []utils.WeekCount       `json:"by_week"`
	ByType      []repository.GroupCount `json:"by_type"`
	TopMuscle   string                  `json:"top_muscle"`
}

// Stats returns aggregate counts over the user's visible workouts.
func (s *WorkoutService) Stats(userID uint64) (*WorkoutStats, error) {
	connIDs, err := s.resolver.MyConnectionIDs(userID)
	if err != nil {
		return nil, err
	}

	total, err := s.workoutRepo.CountVisible(userID, connIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count workouts: %w", err)
	}

	byMuscle, err := s.workoutRepo.GroupVisible(userID, connIDs, "muscle_group")
	if err != nil {
		return nil, fmt.Errorf("failed to group workouts by muscle: %w", err)
	}

	byType, err := s.workoutRepo.GroupVisible(userID, connIDs, "type")
	if err != nil {
		return nil, fmt.Errorf("failed to group workouts by type: %w", err)
	}

	avg, err := s.workoutRepo.AverageDurationVisible(userID, connIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to average workout duration: %w", err)
	}

	dates, err := s.workoutRepo.DatesVisible(userID, connIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load workout dates: %w", err)
	}

	stats := &WorkoutStats{
		Total:       total,
		ByMuscle:    byMuscle,
		AvgDuration: int(math.Round(avg)),
		ByWeek:      utils.BucketByWeek(dates, constants.StatsWeekWindow),
		ByType:      byType,
	}
	if len(byMuscle) > 0 {
		stats.TopMuscle = byMuscle[0].Value
	}

	return stats, nil
}

// buildExercises converts inputs into ordered exercise rows.
func buildExercises(inputs []ExerciseInput) []models.Exercise {
	exercises := make([]models.Exercise, 0, len(inputs))
	for i, in := range inputs {
		if in.Name == "" {
			continue
		}
		exercises = append(exercises, models.Exercise{
			Name:     in.Name,
			Sets:     in.Sets,
			Reps:     in.Reps,
			Weight:   in.Weight,
			Position: i,
		})
	}
	return exercises
}

// buildPartnerTags converts connection IDs into an ordered, deduplicated tag
// set.
func buildPartnerTags(ids []uint64) []models.WorkoutPartner {
	seen := make(map[uint64]struct{}, len(ids))
	tags := make([]models.WorkoutPartner, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		tags = append(tags, models.WorkoutPartner{
			ConnectionID: id,
			Position:     len(tags),
		})
	}
	return tags
}
