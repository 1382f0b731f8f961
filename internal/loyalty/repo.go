package loyalty

import (
	"context"

	"github.com/evjoints/admin-backend/pkg/db/models"
	"github.com/evjoints/admin-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository handles the eVolts ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.LoyaltyPoint) error
	CascadePendingForStation(ctx context.Context, stationID int64, to enums.ApprovalStatus) error
	SumApprovedByStation(ctx context.Context, stationIDs []int64) (map[int64]int64, error)
	SumApprovedByCustomer(ctx context.Context, customerIDs []int64) (map[int64]int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.LoyaltyPoint) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CascadePendingForStation promotes or demotes only undecided entries; rows
// already decided keep their state.
func (r *repository) CascadePendingForStation(ctx context.Context, stationID int64, to enums.ApprovalStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.LoyaltyPoint{}).
		Where("station_id = ? AND approved_status = ?", stationID, enums.ApprovalPending).
		Update("approved_status", to).Error
}

type pointSum struct {
	OwnerID int64 `gorm:"column:owner_id"`
	Total   int64 `gorm:"column:total"`
}

func (r *repository) SumApprovedByStation(ctx context.Context, stationIDs []int64) (map[int64]int64, error) {
	return r.sumApproved(ctx, "station_id", stationIDs)
}

func (r *repository) SumApprovedByCustomer(ctx context.Context, customerIDs []int64) (map[int64]int64, error) {
	return r.sumApproved(ctx, "customer_id", customerIDs)
}

func (r *repository) sumApproved(ctx context.Context, ownerColumn string, ownerIDs []int64) (map[int64]int64, error) {
	sums := make(map[int64]int64, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return sums, nil
	}
	var rows []pointSum
	if err := r.db.WithContext(ctx).
		Model(&models.LoyaltyPoint{}).
		Select(ownerColumn+" AS owner_id, COALESCE(SUM(points), 0) AS total").
		Where(ownerColumn+" IN (?) AND approved_status = ?", ownerIDs, enums.ApprovalApproved).
		Group(ownerColumn).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		sums[row.OwnerID] = row.Total
	}
	return sums, nil
}
