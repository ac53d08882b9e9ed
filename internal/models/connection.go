package models

import "time"

// PartnerSnapshot captures a user's identity at the moment a connection is
// created. It is never re-synced: if the linked user later changes their name
// or email, the snapshot keeps the add-time values.
type PartnerSnapshot struct {
	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Email string `gorm:"type:varchar(255);not null" json:"email"`
}

// Connection is one side of a training-partner relationship: "owner knows
// linked user". Each side is an independently owned, independently editable
// record; the composite unique index guarantees at most one row per direction.
type Connection struct {
	ID           uint64          `gorm:"primarykey" json:"id"`
	UserID       uint64          `gorm:"not null;uniqueIndex:idx_connections_pair" json:"user_id"`
	LinkedUserID uint64          `gorm:"not null;uniqueIndex:idx_connections_pair" json:"linked_user_id"`
	Partner      PartnerSnapshot `gorm:"embedded" json:"partner"`

	// Owner-editable annotations.
	Gym           string `gorm:"type:varchar(255)" json:"gym"`
	TrainingStyle string `gorm:"type:varchar(255)" json:"training_style"`
	HowMet        string `gorm:"type:varchar(255)" json:"how_met"`
	Notes         string `gorm:"type:text" json:"notes"`

	AddedByUserID uint64          `gorm:"not null" json:"added_by_user_id"`
	AddedBy       PartnerSnapshot `gorm:"embedded;embeddedPrefix:added_by_" json:"added_by"`
	AutoAdded     bool            `gorm:"not null;default:false" json:"auto_added"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations. LinkedUserID carries no foreign key constraint: admin account
	// deletion leaves mirror rows on other users' sides pointing at the
	// removed account.
	Owner User `gorm:"foreignKey:UserID" json:"-"`
}
