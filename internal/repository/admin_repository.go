package repository

import (
	"time"

	"github.com/fitsync/fitsync/internal/models"
	"gorm.io/gorm"
)

// GormAdminRepository is a GORM implementation of AdminRepository
type GormAdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &GormAdminRepository{db: db}
}

// Totals counts users, workouts and connections
func (r *GormAdminRepository) Totals() (users, workouts, connections int64, err error) {
	if err = r.db.Model(&models.User{}).Count(&users).Error; err != nil {
		return 0, 0, 0, err
	}
	if err = r.db.Model(&models.Workout{}).Count(&workouts).Error; err != nil {
		return 0, 0, 0, err
	}
	if err = r.db.Model(&models.Connection{}).Count(&connections).Error; err != nil {
		return 0, 0, 0, err
	}
	return users, workouts, connections, nil
}

// UsersByGym returns the top gyms by user count
func (r *GormAdminRepository) UsersByGym(limit int) ([]GroupCount, error) {
	var groups []GroupCount
	err := r.db.Model(&models.User{}).
		Select("gym AS value, COUNT(*) AS count").
		Group("gym").
		Order("count DESC").
		Limit(limit).
		Scan(&groups).Error
	return groups, err
}

// UsersByStyle returns user counts grouped by training style
func (r *GormAdminRepository) UsersByStyle() ([]GroupCount, error) {
	var groups []GroupCount
	err := r.db.Model(&models.User{}).
		Select("training_style AS value, COUNT(*) AS count").
		Group("training_style").
		Order("count DESC").
		Scan(&groups).Error
	return groups, err
}

// SignupDates returns every user's creation timestamp
func (r *GormAdminRepository) SignupDates() ([]time.Time, error) {
	var dates []time.Time
	err := r.db.Model(&models.User{}).Pluck("created_at", &dates).Error
	return dates, err
}
