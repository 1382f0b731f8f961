package trips

import (
	"context"
	"strings"

	"github.com/evjoints/admin-backend/pkg/db/models"
	"github.com/evjoints/admin-backend/pkg/enums"
	"gorm.io/gorm"
)

// ListFilters is the optional filter bag for trip listings and exports.
type ListFilters struct {
	Status    string // Completed | Ongoing | Cancelled | Saved | Enquired | All | ""
	HasStory  *bool
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD, inclusive of the whole day
	Search    string
}

// statusGroups folds the raw trip statuses into the dashboard's filter values.
var statusGroups = map[string][]enums.TripStatus{
	"completed": {enums.TripCompleted, enums.TripSuccessful},
	"ongoing":   {enums.TripOnGoing, enums.TripOnGoingTest},
	"cancelled": {enums.TripCancelled, enums.TripUnsuccessful},
	"saved":     {enums.TripSaved},
	"enquired":  {enums.TripEnquired},
}

// Repository handles trip persistence and listing queries.
type Repository interface {
	Count(ctx context.Context, filters ListFilters) (int64, error)
	Page(ctx context.Context, filters ListFilters, offset, limit int) ([]models.Trip, error)
	All(ctx context.Context, filters ListFilters) ([]models.Trip, error)
	FindByID(ctx context.Context, id int64) (*models.Trip, error)
	UpdateStory(ctx context.Context, id int64, fields map[string]any) error
	StopsByTrip(ctx context.Context, tripIDs []int64) (map[int64][]string, error)
	CustomersByID(ctx context.Context, ids []int64) (map[int64]models.Customer, error)
	StationNamesByConnector(ctx context.Context, connectorIDs []int64) (map[int64]string, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a trip repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) scoped(ctx context.Context, filters ListFilters) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.Trip{}).
		Joins("LEFT JOIN customer c ON c.id = trip.customer_id")

	if key := strings.ToLower(strings.TrimSpace(filters.Status)); key != "" && key != "all" {
		if group, ok := statusGroups[key]; ok {
			query = query.Where("trip.trip_status IN (?)", group)
		} else {
			query = query.Where("trip.trip_status = ?", strings.ToUpper(key))
		}
	}
	if filters.HasStory != nil {
		if *filters.HasStory {
			query = query.Where("trip.feedback IS NOT NULL AND trip.feedback <> ''")
		} else {
			query = query.Where("trip.feedback IS NULL OR trip.feedback = ''")
		}
	}
	if filters.StartDate != "" {
		query = query.Where("trip.created_at >= ?", filters.StartDate+" 00:00:00")
	}
	if filters.EndDate != "" {
		query = query.Where("trip.created_at <= ?", filters.EndDate+" 23:59:59")
	}
	if term := strings.TrimSpace(filters.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where(
			"LOWER(c.first_name || ' ' || c.last_name) LIKE ? OR c.mobile LIKE ? OR LOWER(COALESCE(trip.source, '')) LIKE ? OR LOWER(COALESCE(trip.destination, '')) LIKE ?",
			like, like, like, like,
		)
	}
	return query
}

func (r *repository) Count(ctx context.Context, filters ListFilters) (int64, error) {
	var total int64
	if err := r.scoped(ctx, filters).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repository) Page(ctx context.Context, filters ListFilters, offset, limit int) ([]models.Trip, error) {
	var rows []models.Trip
	if err := r.scoped(ctx, filters).
		Select("trip.*").
		Order("trip.created_at DESC, trip.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) All(ctx context.Context, filters ListFilters) ([]models.Trip, error) {
	var rows []models.Trip
	if err := r.scoped(ctx, filters).
		Select("trip.*").
		Order("trip.created_at DESC, trip.id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Trip, error) {
	var trip models.Trip
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&trip).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *repository) UpdateStory(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Trip{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) StopsByTrip(ctx context.Context, tripIDs []int64) (map[int64][]string, error) {
	result := make(map[int64][]string, len(tripIDs))
	if len(tripIDs) == 0 {
		return result, nil
	}
	var rows []models.TripStop
	if err := r.db.WithContext(ctx).
		Where("trip_id IN (?)", tripIDs).
		Order("trip_id ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.TripID] = append(result[row.TripID], row.Stop)
	}
	return result, nil
}

func (r *repository) CustomersByID(ctx context.Context, ids []int64) (map[int64]models.Customer, error) {
	result := make(map[int64]models.Customer, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []models.Customer
	if err := r.db.WithContext(ctx).
		Where("id IN (?)", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ID] = row
	}
	return result, nil
}

type connectorStation struct {
	ConnectorID int64  `gorm:"column:connector_id"`
	StationName string `gorm:"column:station_name"`
}

// StationNamesByConnector resolves connector ids referenced by a trip to the
// names of the stations they belong to, in one bulk query.
func (r *repository) StationNamesByConnector(ctx context.Context, connectorIDs []int64) (map[int64]string, error) {
	result := make(map[int64]string, len(connectorIDs))
	if len(connectorIDs) == 0 {
		return result, nil
	}
	query := `
SELECT co.id AS connector_id, cs.name AS station_name
FROM connector co
JOIN charging_point cp ON cp.id = co.charge_point_id
JOIN charging_station cs ON cs.id = cp.station_id
WHERE co.id IN (?)
`
	var rows []connectorStation
	if err := r.db.WithContext(ctx).Raw(query, connectorIDs).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ConnectorID] = row.StationName
	}
	return result, nil
}
