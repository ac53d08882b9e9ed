package repository

import (
	"time"

	"github.com/fitsync/fitsync/internal/models"
	"github.com/fitsync/fitsync/internal/utils"
)

// GroupCount is one bucket of a grouped count query.
type GroupCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email (stored lowercase)
	FindByEmail(email string) (*models.User, error)

	// List retrieves users with search and pagination, newest first
	List(filter UserFilter) ([]models.User, int64, error)

	// DeleteWithOwnedData removes a user together with their owned workouts
	// (including exercises and partner tags) and owned connections. Mirror
	// connections on other users' sides are left untouched.
	DeleteWithOwnedData(id uint64) error
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Search     string
	Pagination utils.PaginationParams
}

// ConnectionRepository defines the interface for connection data access
type ConnectionRepository interface {
	// Create creates a connection record
	Create(conn *models.Connection) error

	// CreateMirror inserts the reciprocal record unless one already exists
	// for the same (owner, linked user) pair
	CreateMirror(conn *models.Connection) error

	// FindByID finds a connection by ID
	FindByID(id uint64) (*models.Connection, error)

	// FindByOwnerAndID finds a connection owned by the given user
	FindByOwnerAndID(ownerID, id uint64) (*models.Connection, error)

	// FindPair finds the connection from owner to linked user
	FindPair(ownerID, linkedUserID uint64) (*models.Connection, error)

	// List retrieves an owner's connections with filters, sorted by name
	List(filter ConnectionFilter) ([]models.Connection, error)

	// ListAll retrieves all connections, paginated (admin)
	ListAll(params utils.PaginationParams) ([]models.Connection, int64, error)

	// Update persists owner-editable fields
	Update(conn *models.Connection) error

	// Delete removes a connection by ID
	Delete(id uint64) error

	// DeletePair removes the connection from owner to linked user if present
	DeletePair(ownerID, linkedUserID uint64) error

	// IDsLinkedToUser returns IDs of connections whose linked user is the
	// given user. These are the tags through which workouts become visible
	// to that user.
	IDsLinkedToUser(userID uint64) ([]uint64, error)

	// IDsOwnedBy filters the given connection IDs down to those owned by
	// the user
	IDsOwnedBy(ownerID uint64, ids []uint64) ([]uint64, error)

	// CountByOwner counts an owner's connections
	CountByOwner(ownerID uint64) (int64, error)

	// GroupByOwner returns grouped counts of an owner's connections over
	// one of the annotation columns (gym, training_style, how_met)
	GroupByOwner(ownerID uint64, column string) ([]GroupCount, error)
}

// ConnectionFilter holds filtering options for listing connections
type ConnectionFilter struct {
	OwnerID       uint64
	Gym           string
	TrainingStyle string
	HowMet        string
	Search        string
}

// WorkoutRepository defines the interface for workout data access
type WorkoutRepository interface {
	// Create creates a workout with its exercises and partner tags
	Create(workout *models.Workout) error

	// FindByID finds a workout by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Workout, error)

	// FindSessionKey finds the workout matching the owner's uniqueness key
	FindSessionKey(ownerID uint64, date time.Time, muscleGroup, workoutType string) (*models.Workout, error)

	// List retrieves workouts visible under the filter, newest first
	List(filter WorkoutFilter) ([]models.Workout, error)

	// ListAll retrieves all workouts, paginated (admin)
	ListAll(params utils.PaginationParams) ([]models.Workout, int64, error)

	// ListByConnection retrieves workouts tagging a connection, owned by
	// either side of the pair, newest first
	ListByConnection(connectionID, ownerID, linkedUserID uint64) ([]models.Workout, error)

	// Update persists workout fields
	Update(workout *models.Workout) error

	// ReplaceExercises swaps a workout's exercise list
	ReplaceExercises(workoutID uint64, exercises []models.Exercise) error

	// ReplacePartners swaps a workout's partner tag set
	ReplacePartners(workoutID uint64, partners []models.WorkoutPartner) error

	// Delete hard-deletes a workout with its exercises and partner tags
	Delete(id uint64) error

	// CountVisible counts workouts in the visible set
	CountVisible(userID uint64, connectionIDs []uint64) (int64, error)

	// GroupVisible returns grouped counts over the visible set for one of
	// the workout columns (muscle_group, type)
	GroupVisible(userID uint64, connectionIDs []uint64, column string) ([]GroupCount, error)

	// AverageDurationVisible averages duration over the visible set
	AverageDurationVisible(userID uint64, connectionIDs []uint64) (float64, error)

	// DatesVisible returns the dates of workouts in the visible set
	DatesVisible(userID uint64, connectionIDs []uint64) ([]time.Time, error)
}

// WorkoutFilter holds filtering options for listing workouts. UserID and
// ConnectionIDs together define the visible set: owned workouts plus
// workouts tagging one of the connections.
type WorkoutFilter struct {
	UserID        uint64
	ConnectionIDs []uint64
	MuscleGroup   string
	Type          string
	DateFrom      *time.Time
	DateTo        *time.Time
	MaxDuration   *int
	Search        string
	Limit         int
}

// AdminRepository defines the interface for cross-entity aggregate queries
type AdminRepository interface {
	// Totals counts users, workouts and connections
	Totals() (users, workouts, connections int64, err error)

	// UsersByGym returns the top gyms by user count
	UsersByGym(limit int) ([]GroupCount, error)

	// UsersByStyle returns user counts grouped by training style
	UsersByStyle() ([]GroupCount, error)

	// SignupDates returns every user's creation timestamp
	SignupDates() ([]time.Time, error)
}
