package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fitsync/fitsync/internal/models"
	"github.com/fitsync/fitsync/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrMissingConnectionFields = errors.New("email, gym and training style are required")
	ErrMissingLookupEmail      = errors.New("email is required")
	ErrTargetUserNotFound      = errors.New("no user found with this email address")
	ErrSelfConnection          = errors.New("you can't add yourself as a connection")
	ErrAlreadyConnected        = errors.New("user is already in your connections")
	ErrConnectionNotFound      = errors.New("connection not found")
)

// ConnectionService handles the training-partner ledger: both sides of a
// relationship are independent records, and the initiator's add mirrors a
// reciprocal record onto the other account.
type ConnectionService struct {
	connRepo    repository.ConnectionRepository
	userRepo    repository.UserRepository
	workoutRepo repository.WorkoutRepository
}

// NewConnectionService creates a new ConnectionService.
func NewConnectionService(connRepo repository.ConnectionRepository, userRepo repository.UserRepository, workoutRepo repository.WorkoutRepository) *ConnectionService {
	return &ConnectionService{
		connRepo:    connRepo,
		userRepo:    userRepo,
		workoutRepo: workoutRepo,
	}
}

// AddConnectionInput represents the initiator's add request.
type AddConnectionInput struct {
	InitiatorID   uint64
	Email         string
	Gym           string
	TrainingStyle string
	HowMet        string
	Notes         string
}

// Add creates the initiator-side connection and, if the other side has no
// record back to the initiator yet, the auto-added mirror. Returns the
// initiator-side record only.
func (s *ConnectionService) Add(input AddConnectionInput) (*models.Connection, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Gym == "" || input.TrainingStyle == "" {
		return nil, ErrMissingConnectionFields
	}

	target, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if target.ID == input.InitiatorID {
		return nil, ErrSelfConnection
	}

	if _, err := s.connRepo.FindPair(input.InitiatorID, target.ID); err == nil {
		return nil, ErrAlreadyConnected
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing connection: %w", err)
	}

	initiator, err := s.userRepo.FindByID(input.InitiatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load initiator: %w", err)
	}

	addedBy := models.PartnerSnapshot{Name: initiator.Name, Email: initiator.Email}

	conn := &models.Connection{
		UserID:        initiator.ID,
		LinkedUserID:  target.ID,
		Partner:       models.PartnerSnapshot{Name: target.Name, Email: target.Email},
		Gym:           input.Gym,
		TrainingStyle: input.TrainingStyle,
		HowMet:        input.HowMet,
		Notes:         input.Notes,
		AddedByUserID: initiator.ID,
		AddedBy:       addedBy,
	}

	if err := s.connRepo.Create(conn); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyConnected
		}
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	// Mirror onto the other side, using the target's own profile defaults and
	// blank notes so they can annotate it themselves. The unique pair index
	// makes this a no-op when their side already exists.
	mirror := &models.Connection{
		UserID:        target.ID,
		LinkedUserID:  initiator.ID,
		Partner:       addedBy,
		Gym:           fallback(target.Gym, input.Gym),
		TrainingStyle: fallback(target.TrainingStyle, input.TrainingStyle),
		HowMet:        input.HowMet,
		Notes:         "",
		AddedByUserID: initiator.ID,
		AddedBy:       addedBy,
		AutoAdded:     true,
	}

	if err := s.connRepo.CreateMirror(mirror); err != nil {
		return nil, fmt.Errorf("failed to mirror connection: %w", err)
	}

	return conn, nil
}

// Remove deletes the owner's connection and the reciprocal record on the
// other side when present.
func (s *ConnectionService) Remove(ownerID, connectionID uint64) error {
	conn, err := s.connRepo.FindByOwnerAndID(ownerID, connectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrConnectionNotFound
		}
		return fmt.Errorf("failed to find connection: %w", err)
	}

	if err := s.connRepo.Delete(conn.ID); err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}

	if err := s.connRepo.DeletePair(conn.LinkedUserID, ownerID); err != nil {
		return fmt.Errorf("failed to delete mirrored connection: %w", err)
	}

	return nil
}

// UpdateConnectionInput carries the owner-editable fields; nil leaves a
// field unchanged. Linked identity and snapshot fields are immutable.
type UpdateConnectionInput struct {
	Gym           *string
	TrainingStyle *string
	HowMet        *string
	Notes         *string
}

// Update changes the owner's annotations on a connection.
func (s *ConnectionService) Update(ownerID, connectionID uint64, input UpdateConnectionInput) (*models.Connection, error) {
	conn, err := s.connRepo.FindByOwnerAndID(ownerID, connectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, fmt.Errorf("failed to find connection: %w", err)
	}

	if input.Gym != nil {
		conn.Gym = *input.Gym
	}
	if input.TrainingStyle != nil {
		conn.TrainingStyle = *input.TrainingStyle
	}
	if input.HowMet != nil {
		conn.HowMet = *input.HowMet
	}
	if input.Notes != nil {
		conn.Notes = *input.Notes
	}

	if err := s.connRepo.Update(conn); err != nil {
		return nil, fmt.Errorf("failed to update connection: %w", err)
	}

	return conn, nil
}

// Lookup validates a prospective connection target before the add form is
// submitted and returns the target's public profile.
func (s *ConnectionService) Lookup(actorID uint64, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrMissingLookupEmail
	}

	target, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if target.ID == actorID {
		return nil, ErrSelfConnection
	}

	if _, err := s.connRepo.FindPair(actorID, target.ID); err == nil {
		return nil, ErrAlreadyConnected
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing connection: %w", err)
	}

	return target, nil
}

// List returns the owner's connections under the given filters.
func (s *ConnectionService) List(filter repository.ConnectionFilter) ([]models.Connection, error) {
	conns, err := s.connRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return conns, nil
}

// Get returns one owned connection together with the workouts that tag it
// from either side of the pair.
func (s *ConnectionService) Get(ownerID, connectionID uint64) (*models.Connection, []models.Workout, error) {
	conn, err := s.connRepo.FindByOwnerAndID(ownerID, connectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrConnectionNotFound
		}
		return nil, nil, fmt.Errorf("failed to find connection: %w", err)
	}

	workouts, err := s.workoutRepo.ListByConnection(conn.ID, ownerID, conn.LinkedUserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list workouts for connection: %w", err)
	}

	return conn, workouts, nil
}

// ConnectionStats aggregates an owner's ledger.
type ConnectionStats struct {
	Total    int64                   `json:"total"`
	ByGym    []repository.GroupCount `json:"by_gym"`
	ByStyle  []repository.GroupCount `json:"by_style"`
	ByHowMet []repository.GroupCount `json:"by_how_met"`
}

// Stats returns grouped counts over the owner's connections.
func (s *ConnectionService) Stats(ownerID uint64) (*ConnectionStats, error) {
	total, err := s.connRepo.CountByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count connections: %w", err)
	}

	byGym, err := s.connRepo.GroupByOwner(ownerID, "gym")
	if err != nil {
		return nil, fmt.Errorf("failed to group connections by gym: %w", err)
	}

	byStyle, err := s.connRepo.GroupByOwner(ownerID, "training_style")
	if err != nil {
		return nil, fmt.Errorf("failed to group connections by style: %w", err)
	}

	byHowMet, err := s.connRepo.GroupByOwner(ownerID, "how_met")
	if err != nil {
		return nil, fmt.Errorf("failed to group connections by how met: %w", err)
	}

	return &ConnectionStats{
		Total:    total,
		ByGym:    byGym,
		ByStyle:  byStyle,
		ByHowMet: byHowMet,
	}, nil
}

// fallback returns primary unless it is empty.
func fallback(primary, alternate string) string {
	if primary != "" {
		return primary
	}
	return alternate
}
