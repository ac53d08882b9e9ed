package dto

import (
	"sort"
	"time"

	"github.com/fitsync/fitsync/internal/models"
)

// ExerciseDTO is one entry of a workout's exercise list.
type ExerciseDTO struct {
	Name   string  `json:"name"`
	Sets   int     `json:"sets"`
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// WorkoutDTO represents a workout in API responses. IsOwner and SharedBy are
// viewer-dependent: a partner sees the owner's identity under shared_by.
type WorkoutDTO struct {
	ID              uint64          `json:"id"`
	UserID          uint64          `json:"user_id"`
	Date            time.Time       `json:"date"`
	MuscleGroup     string          `json:"muscle_group"`
	Type            string          `json:"type"`
	DurationMinutes int             `json:"duration_minutes"`
	Notes           string          `json:"notes"`
	Exercises       []ExerciseDTO   `json:"exercises"`
	Partners        []ConnectionDTO `json:"partners"`
	IsOwner         bool            `json:"is_owner"`
	SharedBy        *UserDTO        `json:"shared_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToWorkoutDTO converts a Workout model to WorkoutDTO from the viewer's
// perspective. Exercises and Partners relations should be preloaded.
func ToWorkoutDTO(workout models.Workout, viewerID uint64) WorkoutDTO {
	dto := WorkoutDTO{
		ID:              workout.ID,
		UserID:          workout.UserID,
		Date:            workout.Date,
		MuscleGroup:     workout.MuscleGroup,
		Type:            workout.Type,
		DurationMinutes: workout.DurationMinutes,
		Notes:           workout.Notes,
		Exercises:       toExerciseDTOs(workout.Exercises),
		Partners:        toPartnerDTOs(workout.Partners),
		IsOwner:         workout.UserID == viewerID,
		CreatedAt:       workout.CreatedAt,
	}

	if !dto.IsOwner && workout.Owner.ID != 0 {
		owner := ToUserDTO(workout.Owner)
		dto.SharedBy = &owner
	}

	return dto
}

// AdminWorkoutDTO represents a workout in admin listings, where no viewer
// perspective applies and relations are not loaded.
type AdminWorkoutDTO struct {
	ID              uint64    `json:"id"`
	UserID          uint64    `json:"user_id"`
	Date            time.Time `json:"date"`
	MuscleGroup     string    `json:"muscle_group"`
	Type            string    `json:"type"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToAdminWorkoutDTOs converts a slice of workouts for admin listings
func ToAdminWorkoutDTOs(workouts []models.Workout) []AdminWorkoutDTO {
	dtos := make([]AdminWorkoutDTO, len(workouts))
	for i, w := range workouts {
		dtos[i] = AdminWorkoutDTO{
			ID:              w.ID,
			UserID:          w.UserID,
			Date:            w.Date,
			MuscleGroup:     w.MuscleGroup,
			Type:            w.Type,
			DurationMinutes: w.DurationMinutes,
			Notes:           w.Notes,
			CreatedAt:       w.CreatedAt,
		}
	}
	return dtos
}

// ToWorkoutDTOs converts a slice of workouts from the viewer's perspective
func ToWorkoutDTOs(workouts []models.Workout, viewerID uint64) []WorkoutDTO {
	dtos := make([]WorkoutDTO, len(workouts))
	for i, w := range workouts {
		dtos[i] = ToWorkoutDTO(w, viewerID)
	}
	return dtos
}

func toExerciseDTOs(exercises []models.Exercise) []ExerciseDTO {
	sorted := make([]models.Exercise, len(exercises))
	copy(sorted, exercises)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	dtos := make([]ExerciseDTO, len(sorted))
	for i, e := range sorted {
		dtos[i] = ExerciseDTO{
			Name:   e.Name,
			Sets:   e.Sets,
			Reps:   e.Reps,
			Weight: e.Weight,
		}
	}
	return dtos
}

func toPartnerDTOs(tags []models.WorkoutPartner) []ConnectionDTO {
	sorted := make([]models.WorkoutPartner, len(tags))
	copy(sorted, tags)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	dtos := make([]ConnectionDTO, len(sorted))
	for i, tag := range sorted {
		dtos[i] = ToConnectionDTO(tag.Connection)
		// A tag can outlive its connection if a partner tears the
		// relationship down; keep the reference usable.
		if dtos[i].ID == 0 {
			dtos[i].ID = tag.ConnectionID
			dtos[i].Name = "Unknown"
		}
	}
	return dtos
}
