package models

import "time"

// WorkoutPartner tags a connection record on a workout. Tags point at the
// owner's Connection rows, not at user accounts directly: the linked user of
// a tagged connection gains visibility and edit rights on the workout.
type WorkoutPartner struct {
	WorkoutID    uint64    `gorm:"primarykey" json:"workout_id"`
	ConnectionID uint64    `gorm:"primarykey" json:"connection_id"`
	Position     int       `gorm:"not null" json:"position"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations. The connection reference carries no foreign key constraint:
	// removing a connection leaves its tags dangling rather than blocking or
	// cascading the delete.
	Workout    Workout    `gorm:"foreignKey:WorkoutID" json:"-"`
	Connection Connection `gorm:"foreignKey:ConnectionID;constraint:-" json:"connection,omitempty"`
}
