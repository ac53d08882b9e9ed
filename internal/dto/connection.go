package dto

import (
	"time"

	"github.com/fitsync/fitsync/internal/models"
)

// AddedByDTO identifies who initiated a relationship, snapshotted at
// add-time.
type AddedByDTO struct {
	UserID uint64 `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// ConnectionDTO represents a connection in API responses. Name and email are
// the add-time snapshot of the linked user, not their live profile.
type ConnectionDTO struct {
	ID            uint64     `json:"id"`
	UserID        uint64     `json:"user_id"`
	LinkedUserID  uint64     `json:"linked_user_id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Gym           string     `json:"gym"`
	TrainingStyle string     `json:"training_style"`
	HowMet        string     `json:"how_met"`
	Notes         string     `json:"notes"`
	AddedBy       AddedByDTO `json:"added_by"`
	AutoAdded     bool       `json:"auto_added"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToConnectionDTO converts a Connection model to ConnectionDTO
func ToConnectionDTO(conn models.Connection) ConnectionDTO {
	return ConnectionDTO{
		ID:            conn.ID,
		UserID:        conn.UserID,
		LinkedUserID:  conn.LinkedUserID,
		Name:          conn.Partner.Name,
		Email:         conn.Partner.Email,
		Gym:           conn.Gym,
		TrainingStyle: conn.TrainingStyle,
		HowMet:        conn.HowMet,
		Notes:         conn.Notes,
		AddedBy: AddedByDTO{
			UserID: conn.AddedByUserID,
			Name:   conn.AddedBy.Name,
			Email:  conn.AddedBy.Email,
		},
		AutoAdded: conn.AutoAdded,
		CreatedAt: conn.CreatedAt,
	}
}

// ToConnectionDTOs converts a slice of connections
func ToConnectionDTOs(conns []models.Connection) []ConnectionDTO {
	dtos := make([]ConnectionDTO, len(conns))
	for i, c := range conns {
		dtos[i] = ToConnectionDTO(c)
	}
	return dtos
}
