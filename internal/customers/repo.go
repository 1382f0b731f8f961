package customers

import (
	"context"
	"strings"

	"github.com/evjoints/admin-backend/pkg/db/models"
	"gorm.io/gorm"
)

// VehicleInfo is a customer's most recent vehicle resolved through the
// taxonomy masters.
type VehicleInfo struct {
	CustomerID     int64   `gorm:"column:customer_id"`
	RegistrationNo *string `gorm:"column:vehicle_registration_no"`
	VehicleType    *string `gorm:"column:vehicle_type"`
	Manufacturer   *string `gorm:"column:manufacturer"`
	Model          *string `gorm:"column:model"`
	Variant        *string `gorm:"column:variant"`
}

// TripActivity is a customer's trip counts grouped by trip status.
type TripActivity struct {
	CustomerID int64  `gorm:"column:customer_id"`
	TripStatus string `gorm:"column:trip_status"`
	Total      int64  `gorm:"column:total"`
}

// Repository handles customer listing queries.
type Repository interface {
	Count(ctx context.Context, search string) (int64, error)
	Page(ctx context.Context, search string, offset, limit int) ([]models.Customer, error)
	LatestVehicles(ctx context.Context, customerIDs []int64) (map[int64]VehicleInfo, error)
	LatestDevices(ctx context.Context, customerIDs []int64) (map[int64]models.Device, error)
	TripActivity(ctx context.Context, customerIDs []int64) ([]TripActivity, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a customer repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) searchScope(search string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		term := strings.TrimSpace(search)
		if term == "" {
			return q
		}
		like := "%" + strings.ToLower(term) + "%"
		return q.Where(
			"LOWER(first_name || ' ' || last_name) LIKE ? OR LOWER(COALESCE(email, '')) LIKE ? OR mobile LIKE ?",
			like, like, like,
		)
	}
}

func (r *repository) Count(ctx context.Context, search string) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Scopes(r.searchScope(search)).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repository) Page(ctx context.Context, search string, offset, limit int) ([]models.Customer, error) {
	var rows []models.Customer
	if err := r.db.WithContext(ctx).
		Scopes(r.searchScope(search)).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// LatestVehicles picks each customer's newest vehicle row and resolves the
// taxonomy names in one query.
func (r *repository) LatestVehicles(ctx context.Context, customerIDs []int64) (map[int64]VehicleInfo, error) {
	result := make(map[int64]VehicleInfo, len(customerIDs))
	if len(customerIDs) == 0 {
		return result, nil
	}

	query := `
SELECT v.customer_id, v.vehicle_registration_no,
       vt.name AS vehicle_type, m.name AS manufacturer,
       vm.name AS model, vv.name AS variant
FROM my_vehicles v
LEFT JOIN vehicle_type_master vt ON vt.id = v.vehicle_type_id
LEFT JOIN manufacturer_master m ON m.id = v.manufacturer_id
LEFT JOIN vehicle_model_master vm ON vm.id = v.vehicle_model_id
LEFT JOIN vehicle_variant_master vv ON vv.id = v.vehicle_variant_id
WHERE v.customer_id IN (?)
  AND v.id = (SELECT MAX(v2.id) FROM my_vehicles v2 WHERE v2.customer_id = v.customer_id)
`
	var rows []VehicleInfo
	if err := r.db.WithContext(ctx).Raw(query, customerIDs).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.CustomerID] = row
	}
	return result, nil
}

func (r *repository) LatestDevices(ctx context.Context, customerIDs []int64) (map[int64]models.Device, error) {
	result := make(map[int64]models.Device, len(customerIDs))
	if len(customerIDs) == 0 {
		return result, nil
	}

	var rows []models.Device
	if err := r.db.WithContext(ctx).
		Where("customer_id IN (?)", customerIDs).
		Where("id IN (SELECT MAX(id) FROM devices GROUP BY customer_id)").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.CustomerID] = row
	}
	return result, nil
}

func (r *repository) TripActivity(ctx context.Context, customerIDs []int64) ([]TripActivity, error) {
	if len(customerIDs) == 0 {
		return nil, nil
	}
	var rows []TripActivity
	if err := r.db.WithContext(ctx).
		Model(&models.Trip{}).
		Select("customer_id, trip_status, COUNT(*) AS total").
		Where("customer_id IN (?)", customerIDs).
		Group("customer_id, trip_status").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
