package networks

import (
	"context"
	"time"

	"github.com/evjoints/admin-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository handles network persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, network *models.Network) error
	FindByID(ctx context.Context, id int64) (*models.Network, error)
	FindByName(ctx context.Context, name string) (*models.Network, error)
	ListByName(ctx context.Context, name string) ([]models.Network, error)
	List(ctx context.Context) ([]models.Network, error)
	Activate(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
	RepointStations(ctx context.Context, fromID, toID int64) error
	LinkStation(ctx context.Context, stationID, networkID int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a network repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, network *models.Network) error {
	return r.db.WithContext(ctx).Create(network).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Network, error) {
	var network models.Network
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&network).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &network, nil
}

func (r *repository) FindByName(ctx context.Context, name string) (*models.Network, error) {
	var network models.Network
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Order("created_at ASC, id ASC").
		First(&network).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &network, nil
}

// ListByName returns every row sharing the exact name, oldest first. The merge
// path depends on this ordering to pick the canonical row.
func (r *repository) ListByName(ctx context.Context, name string) ([]models.Network, error) {
	var rows []models.Network
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) List(ctx context.Context) ([]models.Network, error) {
	var rows []models.Network
	if err := r.db.WithContext(ctx).
		Order("name ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Activate(ctx context.Context, id int64, name string) error {
	return r.db.WithContext(ctx).
		Model(&models.Network{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":       name,
			"status":     1,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Network{}).Error
}

func (r *repository) RepointStations(ctx context.Context, fromID, toID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.ChargingStation{}).
		Where("network_id = ?", fromID).
		Update("network_id", toID).Error
}

func (r *repository) LinkStation(ctx context.Context, stationID, networkID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.ChargingStation{}).
		Where("id = ?", stationID).
		Update("network_id", networkID).Error
}
