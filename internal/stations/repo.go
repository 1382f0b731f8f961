package stations

import (
	"context"
	"fmt"

	"github.com/evjoints/admin-backend/pkg/db/models"
	"gorm.io/gorm"
)

// baseJoin is shared by count, id-page, and export so every query resolves the
// filter predicate against the same aliases.
const baseJoin = `
FROM charging_station cs
LEFT JOIN network n ON n.id = cs.network_id
LEFT JOIN customer c ON c.id = cs.created_by
`

// detailColumns is the flat projection the aggregator consumes.
const detailColumns = `
cs.id, cs.name, cs.landmark, cs.latitude, cs.longitude, cs.mobile, cs.type,
cs.open_time, cs.close_time, cs.address, cs.approved_status, cs.status,
cs.reason, cs.user_type, cs.created_at,
n.id AS network_id, n.name AS network_name,
c.first_name AS creator_first_name, c.last_name AS creator_last_name,
co.id AS connector_id, co.charger_type_id, ct.name AS charger_type_name,
ct.type AS charger_type, co.no_of_connectors, co.power, co.price_per_khw,
co.status AS connector_status,
a.path AS photo_path
`

const detailJoin = baseJoin + `
LEFT JOIN charging_point cp ON cp.station_id = cs.id
LEFT JOIN connector co ON co.charge_point_id = cp.id
LEFT JOIN charger_types ct ON ct.id = co.charger_type_id
LEFT JOIN attachment a ON a.station_id = cs.id
`

// Repository handles station persistence and the listing queries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Count(ctx context.Context, filters ListFilters) (int64, error)
	PageIDs(ctx context.Context, filters ListFilters, sort SortParams, offset, limit int) ([]int64, error)
	DetailRows(ctx context.Context, ids []int64, sort SortParams) ([]flatRow, error)
	ExportRows(ctx context.Context, filters ListFilters, sort SortParams) ([]flatRow, error)
	FindByID(ctx context.Context, id int64) (*models.ChargingStation, error)
	Create(ctx context.Context, station *models.ChargingStation) error
	UpdateFields(ctx context.Context, id int64, fields map[string]any) error
	FindOrCreateChargingPoint(ctx context.Context, stationID int64) (int64, error)
	DeleteConnectors(ctx context.Context, chargePointID int64) error
	CreateConnector(ctx context.Context, connector *models.Connector) error
	ChargerTypeExists(ctx context.Context, id int64) (bool, error)
	AddPhotos(ctx context.Context, stationID int64, paths []string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a station repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Count(ctx context.Context, filters ListFilters) (int64, error) {
	where, params := filters.Build()
	var total int64
	if err := r.db.WithContext(ctx).
		Raw("SELECT COUNT(*) "+baseJoin+" WHERE "+where, params...).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repository) PageIDs(ctx context.Context, filters ListFilters, sort SortParams, offset, limit int) ([]int64, error) {
	where, params := filters.Build()
	query := fmt.Sprintf("SELECT cs.id %s WHERE %s ORDER BY %s LIMIT ? OFFSET ?", baseJoin, where, sort.OrderBy())
	params = append(params, limit, offset)

	var ids []int64
	if err := r.db.WithContext(ctx).Raw(query, params...).Scan(&ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// DetailRows loads the flat join for the selected ids, ordered like the page
// so the aggregator's first-seen order matches the listing.
func (r *repository) DetailRows(ctx context.Context, ids []int64, sort SortParams) ([]flatRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s %s WHERE cs.id IN (?) ORDER BY %s, co.id ASC, a.id ASC", detailColumns, detailJoin, sort.OrderBy())

	var rows []flatRow
	if err := r.db.WithContext(ctx).Raw(query, ids).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ExportRows is the unpaginated variant used by the CSV download; it reuses
// the exact predicate the count and page queries use.
func (r *repository) ExportRows(ctx context.Context, filters ListFilters, sort SortParams) ([]flatRow, error) {
	where, params := filters.Build()
	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY %s, co.id ASC, a.id ASC", detailColumns, detailJoin, where, sort.OrderBy())

	var rows []flatRow
	if err := r.db.WithContext(ctx).Raw(query, params...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.ChargingStation, error) {
	var station models.ChargingStation
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&station).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &station, nil
}

func (r *repository) Create(ctx context.Context, station *models.ChargingStation) error {
	return r.db.WithContext(ctx).Create(station).Error
}

func (r *repository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.ChargingStation{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// FindOrCreateChargingPoint returns the station's charging point id, creating
// the record on first use.
func (r *repository) FindOrCreateChargingPoint(ctx context.Context, stationID int64) (int64, error) {
	var point models.ChargingPoint
	err := r.db.WithContext(ctx).
		Where("station_id = ?", stationID).
		Order("id ASC").
		First(&point).Error
	if err == nil {
		return point.ID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return 0, err
	}

	point = models.ChargingPoint{StationID: stationID, Status: 1}
	if err := r.db.WithContext(ctx).Create(&point).Error; err != nil {
		return 0, err
	}
	return point.ID, nil
}

func (r *repository) DeleteConnectors(ctx context.Context, chargePointID int64) error {
	return r.db.WithContext(ctx).
		Where("charge_point_id = ?", chargePointID).
		Delete(&models.Connector{}).Error
}

func (r *repository) CreateConnector(ctx context.Context, connector *models.Connector) error {
	return r.db.WithContext(ctx).Create(connector).Error
}

func (r *repository) ChargerTypeExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ChargerType{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) AddPhotos(ctx context.Context, stationID int64, paths []string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		attachment := models.Attachment{StationID: stationID, Path: path}
		if err := r.db.WithContext(ctx).Create(&attachment).Error; err != nil {
			return err
		}
	}
	return nil
}
