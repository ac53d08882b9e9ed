package dto

import (
	"time"

	"github.com/fitsync/fitsync/internal/models"
)

// UserDTO represents a user in API responses. The password hash never
// leaves the models layer.
type UserDTO struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Gym           string    `json:"gym,omitempty"`
	TrainingStyle string    `json:"training_style,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Gym:           user.Gym,
		TrainingStyle: user.TrainingStyle,
		CreatedAt:     user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = ToUserDTO(u)
	}
	return dtos
}
