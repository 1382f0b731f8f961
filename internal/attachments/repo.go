package attachments

import (
	"context"

	"github.com/evjoints/admin-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository loads station photo records.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*models.Attachment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an attachment repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Attachment, error) {
	var row models.Attachment
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
