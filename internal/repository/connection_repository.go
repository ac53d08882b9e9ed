package repository

import (
	"fmt"
	"strings"

	"github.com/fitsync/fitsync/internal/database"
	"github.com/fitsync/fitsync/internal/models"
	"github.com/fitsync/fitsync/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormConnectionRepository is a GORM implementation of ConnectionRepository
type GormConnectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new ConnectionRepository
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &GormConnectionRepository{db: db}
}

// Create creates a connection record
func (r *GormConnectionRepository) Create(conn *models.Connection) error {
	return r.db.Create(conn).Error
}

// CreateMirror inserts the reciprocal record for the other side of the pair.
// The (user_id, linked_user_id) unique index plus DoNothing makes the insert
// a no-op if that side already exists, so two concurrent adds between the
// same pair cannot duplicate it.
func (r *GormConnectionRepository) CreateMirror(conn *models.Connection) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "linked_user_id"}},
			DoNothing: true,
		}).
		Create(conn).Error
}

// FindByID finds a connection by ID
func (r *GormConnectionRepository) FindByID(id uint64) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.First(&conn, id).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

// FindByOwnerAndID finds a connection owned by the given user
func (r *GormConnectionRepository) FindByOwnerAndID(ownerID, id uint64) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.Where("id = ? AND user_id = ?", id, ownerID).First(&conn).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

// FindPair finds the connection from owner to linked user
func (r *GormConnectionRepository) FindPair(ownerID, linkedUserID uint64) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.Where("user_id = ? AND linked_user_id = ?", ownerID, linkedUserID).
		First(&conn).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

// List retrieves an owner's connections with filters, sorted by name
func (r *GormConnectionRepository) List(filter ConnectionFilter) ([]models.Connection, error) {
	query := r.db.Model(&models.Connection{}).Where("user_id = ?", filter.OwnerID)

	if filter.Gym != "" {
		query = query.Where("gym = ?", filter.Gym)
	}
	if filter.TrainingStyle != "" {
		query = query.Where("training_style = ?", filter.TrainingStyle)
	}
	if filter.HowMet != "" {
		query = query.Where("how_met = ?", filter.HowMet)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(gym) LIKE ? OR LOWER(training_style) LIKE ? OR LOWER(how_met) LIKE ? OR LOWER(notes) LIKE ?",
			pattern, pattern, pattern, pattern, pattern, pattern,
		)
	}

	var conns []models.Connection
	if err := query.Order("name ASC").Find(&conns).Error; err != nil {
		return nil, err
	}
	return conns, nil
}

// ListAll retrieves all connections, paginated
func (r *GormConnectionRepository) ListAll(params utils.PaginationParams) ([]models.Connection, int64, error) {
	var total int64
	if err := r.db.Model(&models.Connection{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var conns []models.Connection
	if err := r.db.Order("name ASC").Scopes(database.Paginate(params)).Find(&conns).Error; err != nil {
		return nil, 0, err
	}
	return conns, total, nil
}

// Update persists owner-editable fields
func (r *GormConnectionRepository) Update(conn *models.Connection) error {
	return r.db.Save(conn).Error
}

// Delete removes a connection by ID
func (r *GormConnectionRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Connection{}, id).Error
}

// DeletePair removes the connection from owner to linked user if present
func (r *GormConnectionRepository) DeletePair(ownerID, linkedUserID uint64) error {
	return r.db.Where("user_id = ? AND linked_user_id = ?", ownerID, linkedUserID).
		Delete(&models.Connection{}).Error
}

// IDsLinkedToUser returns IDs of connections whose linked user is the given
// user
func (r *GormConnectionRepository) IDsLinkedToUser(userID uint64) ([]uint64, error) {
	var ids []uint64
	if err := r.db.Model(&models.Connection{}).
		Where("linked_user_id = ?", userID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// IDsOwnedBy filters the given connection IDs down to those owned by the
// user
func (r *GormConnectionRepository) IDsOwnedBy(ownerID uint64, ids []uint64) ([]uint64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var owned []uint64
	if err := r.db.Model(&models.Connection{}).
		Where("user_id = ? AND id IN ?", ownerID, ids).
		Pluck("id", &owned).Error; err != nil {
		return nil, err
	}
	return owned, nil
}

// CountByOwner counts an owner's connections
func (r *GormConnectionRepository) CountByOwner(ownerID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Connection{}).
		Where("user_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

// connectionGroupColumns whitelists the columns GroupByOwner may group on.
var connectionGroupColumns = map[string]bool{
	"gym":            true,
	"training_style": true,
	"how_met":        true,
}

// GroupByOwner returns grouped counts of an owner's connections
func (r *GormConnectionRepository) GroupByOwner(ownerID uint64, column string) ([]GroupCount, error) {
	if !connectionGroupColumns[column] {
		return nil, fmt.Errorf("connection repository: cannot group by %q", column)
	}

	var groups []GroupCount
	err := r.db.Model(&models.Connection{}).
		Select(column+" AS value, COUNT(*) AS count").
		Where("user_id = ?", ownerID).
		Group(column).
		Order("count DESC").
		Scan(&groups).Error
	return groups, err
}
