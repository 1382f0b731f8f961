package auth

import (
	"context"

	"github.com/evjoints/admin-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository looks up vendor accounts.
type Repository interface {
	FindByMobile(ctx context.Context, mobile string) (*models.Vendor, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a vendor repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByMobile(ctx context.Context, mobile string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).
		Where("mobile = ?", mobile).
		First(&vendor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &vendor, nil
}
