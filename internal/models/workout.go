package models

import "time"

// Workout is a single training session owned by one user. The composite
// unique index enforces that an owner logs at most one workout per
// (date, muscle group, type).
type Workout struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	UserID          uint64    `gorm:"not null;uniqueIndex:idx_workouts_session_key" json:"user_id"`
	Date            time.Time `gorm:"not null;uniqueIndex:idx_workouts_session_key" json:"date"`
	MuscleGroup     string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_workouts_session_key" json:"muscle_group"`
	Type            string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_workouts_session_key" json:"type"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	Notes           string    `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	Owner     User             `gorm:"foreignKey:UserID" json:"-"`
	Exercises []Exercise       `gorm:"foreignKey:WorkoutID" json:"exercises,omitempty"`
	Partners  []WorkoutPartner `gorm:"foreignKey:WorkoutID" json:"partners,omitempty"`
}

// Exercise is one entry in a workout's ordered exercise list.
type Exercise struct {
	ID        uint64  `gorm:"primarykey" json:"id"`
	WorkoutID uint64  `gorm:"not null;index" json:"workout_id"`
	Name      string  `gorm:"type:varchar(255);not null" json:"name"`
	Sets      int     `json:"sets"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Position  int     `gorm:"not null" json:"position"`
}
