package services

import (
	"errors"
	"fmt"

	"github.com/fitsync/fitsync/internal/constants"
	"github.com/fitsync/fitsync/internal/models"
	"github.com/fitsync/fitsync/internal/repository"
	"github.com/fitsync/fitsync/internal/utils"
	"gorm.io/gorm"
)

// AdminService provides read-only reporting over accounts and workouts plus
// the account deletion cascade.
type AdminService struct {
	userRepo    repository.UserRepository
	workoutRepo repository.WorkoutRepository
	connRepo    repository.ConnectionRepository
	adminRepo   repository.AdminRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(userRepo repository.UserRepository, workoutRepo repository.WorkoutRepository, connRepo repository.ConnectionRepository, adminRepo repository.AdminRepository) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		workoutRepo: workoutRepo,
		connRepo:    connRepo,
		adminRepo:   adminRepo,
	}
}

// ListUsers returns a page of users matching the search term, newest first.
func (s *AdminService) ListUsers(search string, params utils.PaginationParams) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(repository.UserFilter{
		Search:     search,
		Pagination: params,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// DeleteUser removes an account with its owned workouts and connections.
// Mirror connections owned by other accounts keep pointing at the deleted
// account.
func (s *AdminService) DeleteUser(id uint64) error {
	if err := s.userRepo.DeleteWithOwnedData(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// AdminStats is the dashboard overview.
type AdminStats struct {
	TotalUsers       int64                   `json:"total_users"`
	TotalWorkouts    int64                   `json:"total_workouts"`
	TotalConnections int64                   `json:"total_connections"`
	ByGym            []repository.GroupCount `json:"by_gym"`
	ByStyle          []repository.GroupCount `json:"by_style"`
	SignupsByWeek    []utils.WeekCount       `json:"signups_by_week"`
}

// Overview aggregates totals and breakdowns for the admin dashboard.
func (s *AdminService) Overview() (*AdminStats, error) {
	users, workouts, connections, err := s.adminRepo.Totals()
	if err != nil {
		return nil, fmt.Errorf("failed to count totals: %w", err)
	}

	byGym, err := s.adminRepo.UsersByGym(constants.TopGymLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to group users by gym: %w", err)
	}

	byStyle, err := s.adminRepo.UsersByStyle()
	if err != nil {
		return nil, fmt.Errorf("failed to group users by style: %w", err)
	}

	signupDates, err := s.adminRepo.SignupDates()
	if err != nil {
		return nil, fmt.Errorf("failed to load signup dates: %w", err)
	}

	return &AdminStats{
		TotalUsers:       users,
		TotalWorkouts:    workouts,
		TotalConnections: connections,
		ByGym:            byGym,
		ByStyle:          byStyle,
		SignupsByWeek:    utils.BucketByWeek(signupDates, constants.SignupWeekWindow),
	}, nil
}

// ListWorkouts returns a page of all workouts, newest first.
func (s *AdminService) ListWorkouts(params utils.PaginationParams) ([]models.Workout, int64, error) {
	workouts, total, err := s.workoutRepo.ListAll(params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list workouts: %w", err)
	}
	return workouts, total, nil
}

// ListConnections returns a page of all connections, sorted by name.
func (s *AdminService) ListConnections(params utils.PaginationParams) ([]models.Connection, int64, error) {
	conns, total, err := s.connRepo.ListAll(params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list connections: %w", err)
	}
	return conns, total, nil
}
