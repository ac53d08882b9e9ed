package models

import "time"

type User struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash  string    `gorm:"type:varchar(255);not null" json:"-"`
	Gym           string    `gorm:"type:varchar(255)" json:"gym"`
	TrainingStyle string    `gorm:"type:varchar(255)" json:"training_style"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Workouts    []Workout    `gorm:"foreignKey:UserID" json:"-"`
	Connections []Connection `gorm:"foreignKey:UserID" json:"-"`
}
