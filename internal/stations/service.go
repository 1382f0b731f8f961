package stations

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/evjoints/admin-backend/internal/loyalty"
	"github.com/evjoints/admin-backend/internal/networks"
	"github.com/evjoints/admin-backend/pkg/db"
	"github.com/evjoints/admin-backend/pkg/db/models"
	"github.com/evjoints/admin-backend/pkg/enums"
	apperrors "github.com/evjoints/admin-backend/pkg/errors"
	"github.com/evjoints/admin-backend/pkg/logger"
	"github.com/evjoints/admin-backend/pkg/pagination"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// rejectionPlaceholder is stored when an operator rejects without a reason.
const rejectionPlaceholder = "Rejected by admin"

var timeOfDayRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)

// ServiceParams groups dependencies for the station service.
type ServiceParams struct {
	Conn       *gorm.DB
	Repo       Repository
	Networks   *networks.Service
	Reconciler *networks.Reconciler
	Loyalty    loyalty.Repository
	Logger     *logger.Logger
}

// Service orchestrates station listing, export, creation, and the
// single-action write workflow.
type Service struct {
	conn       *gorm.DB
	repo       Repository
	networks   *networks.Service
	reconciler *networks.Reconciler
	loyalty    loyalty.Repository
	logg       *logger.Logger
}

// NewService builds a station service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Conn == nil {
		return nil, errors.New("db connection is required")
	}
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Networks == nil {
		return nil, errors.New("networks service is required")
	}
	if params.Reconciler == nil {
		return nil, errors.New("network reconciler is required")
	}
	if params.Loyalty == nil {
		return nil, errors.New("loyalty repo is required")
	}
	return &Service{
		conn:       params.Conn,
		repo:       params.Repo,
		networks:   params.Networks,
		reconciler: params.Reconciler,
		loyalty:    params.Loyalty,
		logg:       params.Logger,
	}, nil
}

// List runs the count and id-page queries with one shared predicate, loads the
// flat detail rows for the page, and aggregates them into station entities.
func (s *Service) List(ctx context.Context, filters ListFilters, sort SortParams, page pagination.Params) (*ListResult, error) {
	page = pagination.Normalize(page)

	total, err := s.repo.Count(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("counting stations: %w", err)
	}

	result := &ListResult{
		Data:       []*StationView{},
		Pagination: pagination.MetaFor(page, total),
	}
	if total == 0 {
		return result, nil
	}

	ids, err := s.repo.PageIDs(ctx, filters, sort, page.Offset(), page.Limit)
	if err != nil {
		return nil, fmt.Errorf("paging station ids: %w", err)
	}
	rows, err := s.repo.DetailRows(ctx, ids, sort)
	if err != nil {
		return nil, fmt.Errorf("loading station details: %w", err)
	}

	views := aggregate(rows)
	if err := s.fillEVolts(ctx, views); err != nil {
		return nil, err
	}
	result.Data = views
	return result, nil
}

// fillEVolts attaches the approved ledger sum to every station on the page.
func (s *Service) fillEVolts(ctx context.Context, views []*StationView) error {
	if len(views) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(views))
	for _, view := range views {
		ids = append(ids, view.ID)
	}
	sums, err := s.loyalty.SumApprovedByStation(ctx, ids)
	if err != nil {
		return fmt.Errorf("summing loyalty points: %w", err)
	}
	for _, view := range views {
		view.EVolts = sums[view.ID]
	}
	return nil
}

// Create inserts a PENDING, operationally inactive station with its connector
// set and photos.
func (s *Service) Create(ctx context.Context, req CreateRequest) (int64, error) {
	if msgs := validateStationFields(req.Name, req.Latitude, req.Longitude, req.Mobile, req.UsageType, req.OpenTime, req.CloseTime); len(msgs) > 0 {
		return 0, apperrors.New(apperrors.CodeValidation, "station validation failed").WithDetails(msgs)
	}

	creatorType := enums.CreatorType(strings.TrimSpace(req.AddedBy))
	if creatorType == "" {
		creatorType = enums.CreatorCPO
	}

	var stationID int64
	err := s.runTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		station := &models.ChargingStation{
			Name:           strings.TrimSpace(req.Name),
			Landmark:       req.Landmark,
			Latitude:       *req.Latitude,
			Longitude:      *req.Longitude,
			Mobile:         strings.TrimSpace(req.Mobile),
			Type:           enums.UsageType(strings.ToUpper(req.UsageType)),
			OpenTime:       req.OpenTime,
			CloseTime:      req.CloseTime,
			Address:        strings.TrimSpace(req.Address),
			ApprovedStatus: enums.ApprovalPending,
			Status:         0,
			UserType:       creatorType,
			CreatedBy:      req.CreatedBy,
		}

		if name := strings.TrimSpace(req.NetworkName); name != "" {
			networkID, err := s.networks.EnsurePlaceholder(ctx, tx, name)
			if err != nil {
				return err
			}
			station.NetworkID = &networkID
		}

		if err := repo.Create(ctx, station); err != nil {
			return fmt.Errorf("creating station: %w", err)
		}
		stationID = station.ID

		if len(req.Connectors) > 0 {
			if err := s.replaceConnectors(ctx, repo, station.ID, req.Connectors); err != nil {
				return err
			}
		}
		if len(req.Photos) > 0 {
			if err := repo.AddPhotos(ctx, station.ID, req.Photos); err != nil {
				return fmt.Errorf("storing photos: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return stationID, nil
}

// Update applies exactly one lifecycle action inside one transaction. Any
// failure after begin rolls the whole action back.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) error {
	if !req.Action.Valid() {
		return apperrors.New(apperrors.CodeValidation, fmt.Sprintf("unknown action %q", req.Action))
	}

	station, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("loading station %d: %w", id, err)
	}
	if station == nil || station.ApprovedStatus == enums.ApprovalDeleted {
		return apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("station %d not found", id))
	}

	switch req.Action {
	case enums.ActionEdit:
		return s.edit(ctx, station, req)
	case enums.ActionApprove:
		return s.decide(ctx, station.ID, enums.ApprovalApproved, "")
	case enums.ActionReject:
		reason := strings.TrimSpace(req.Reason)
		if reason == "" {
			reason = rejectionPlaceholder
		}
		return s.decide(ctx, station.ID, enums.ApprovalRejected, reason)
	case enums.ActionEnable:
		return s.setOperational(ctx, station.ID, 1)
	case enums.ActionDisable:
		return s.setOperational(ctx, station.ID, 0)
	case enums.ActionDelete:
		return s.softDelete(ctx, station.ID)
	}
	return nil
}

func (s *Service) edit(ctx context.Context, station *models.ChargingStation, req UpdateRequest) error {
	if msgs := validateStationFields(req.Name, req.Latitude, req.Longitude, req.Mobile, req.UsageType, req.OpenTime, req.CloseTime); len(msgs) > 0 {
		return apperrors.New(apperrors.CodeValidation, "station validation failed").WithDetails(msgs)
	}

	return s.runTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		fields := map[string]any{
			"name":       strings.TrimSpace(req.Name),
			"landmark":   req.Landmark,
			"latitude":   *req.Latitude,
			"longitude":  *req.Longitude,
			"mobile":     strings.TrimSpace(req.Mobile),
			"type":       strings.ToUpper(req.UsageType),
			"open_time":  req.OpenTime,
			"close_time": req.CloseTime,
			"address":    strings.TrimSpace(req.Address),
			"updated_at": time.Now().UTC(),
		}
		if err := repo.UpdateFields(ctx, station.ID, fields); err != nil {
			return fmt.Errorf("updating station %d: %w", station.ID, err)
		}

		if req.NetworkID != nil || strings.TrimSpace(req.NetworkName) != "" {
			if name := strings.TrimSpace(req.NetworkName); name != "" && !req.NetworkActive {
				if _, err := s.networks.EnsurePlaceholder(ctx, tx, name); err != nil {
					return err
				}
			}
			if _, err := s.reconciler.Reconcile(ctx, tx, networks.ReconcileInput{
				StationID:     station.ID,
				NetworkActive: req.NetworkActive,
				NetworkID:     req.NetworkID,
				NetworkName:   req.NetworkName,
			}); err != nil {
				return err
			}
		}

		if req.Connectors != nil {
			if err := s.replaceConnectors(ctx, repo, station.ID, req.Connectors); err != nil {
				return err
			}
		}
		if len(req.Photos) > 0 {
			if err := repo.AddPhotos(ctx, station.ID, req.Photos); err != nil {
				return fmt.Errorf("storing photos: %w", err)
			}
		}
		return nil
	})
}

// replaceConnectors deletes the station's whole connector set and reinserts
// the supplied list. Rows naming an unknown charger type are skipped with a
// warning instead of failing the edit.
func (s *Service) replaceConnectors(ctx context.Context, repo Repository, stationID int64, inputs []ConnectorInput) error {
	pointID, err := repo.FindOrCreateChargingPoint(ctx, stationID)
	if err != nil {
		return fmt.Errorf("resolving charging point: %w", err)
	}
	if err := repo.DeleteConnectors(ctx, pointID); err != nil {
		return fmt.Errorf("clearing connectors: %w", err)
	}

	for _, input := range inputs {
		exists, err := repo.ChargerTypeExists(ctx, input.ChargerTypeID)
		if err != nil {
			return fmt.Errorf("checking charger type %d: %w", input.ChargerTypeID, err)
		}
		if !exists {
			if s.logg != nil {
				lctx := s.logg.WithFields(ctx, map[string]any{
					"station_id":      stationID,
					"charger_type_id": input.ChargerTypeID,
				})
				s.logg.Warn(lctx, "skipping connector with unknown charger type")
			}
			continue
		}

		connector := &models.Connector{
			ChargePointID:  pointID,
			ChargerTypeID:  input.ChargerTypeID,
			NoOfConnectors: input.Count,
			Status:         1,
		}
		if input.Power != nil {
			connector.Power = decimal.NullDecimal{Decimal: *input.Power, Valid: true}
		}
		if input.Tariff != nil {
			connector.PricePerKWh = decimal.NullDecimal{Decimal: *input.Tariff, Valid: true}
		}
		if err := repo.CreateConnector(ctx, connector); err != nil {
			return fmt.Errorf("inserting connector: %w", err)
		}
	}
	return nil
}

// decide applies APPROVE or REJECT and cascades the decision to the station's
// undecided loyalty ledger entries.
func (s *Service) decide(ctx context.Context, stationID int64, status enums.ApprovalStatus, reason string) error {
	return s.runTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		fields := map[string]any{
			"approved_status": string(status),
			"updated_at":      time.Now().UTC(),
		}
		if status == enums.ApprovalApproved {
			fields["reason"] = nil
		} else {
			fields["reason"] = reason
		}
		if err := repo.UpdateFields(ctx, stationID, fields); err != nil {
			return fmt.Errorf("updating station %d: %w", stationID, err)
		}
		if err := s.loyalty.WithTx(tx).CascadePendingForStation(ctx, stationID, status); err != nil {
			return fmt.Errorf("cascading loyalty entries: %w", err)
		}
		return nil
	})
}

func (s *Service) setOperational(ctx context.Context, stationID int64, flag int) error {
	return s.runTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).UpdateFields(ctx, stationID, map[string]any{
			"status":     flag,
			"updated_at": time.Now().UTC(),
		})
	})
}

// softDelete marks the terminal state; the row stays behind for audit.
func (s *Service) softDelete(ctx context.Context, stationID int64) error {
	return s.runTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).UpdateFields(ctx, stationID, map[string]any{
			"approved_status": string(enums.ApprovalDeleted),
			"status":          0,
			"updated_at":      time.Now().UTC(),
		})
	})
}

// runTx wraps a workflow transaction with a short retry on lock and
// serialization conflicts, which the reconciler's advisory lock can surface
// under concurrent merges for the same network name.
func (s *Service) runTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(50*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := db.WithTx(ctx, s.conn, fn)
		if db.RetryableTxError(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// validateStationFields accumulates per-field messages so one response can
// name everything wrong with the submission.
func validateStationFields(name string, latitude, longitude *float64, mobile, usageType string, openTime, closeTime *string) []string {
	var msgs []string

	if strings.TrimSpace(name) == "" {
		msgs = append(msgs, "station name is required")
	}
	if latitude == nil {
		msgs = append(msgs, "latitude is required")
	} else if *latitude < -90 || *latitude > 90 {
		msgs = append(msgs, "latitude must be between -90 and 90")
	}
	if longitude == nil {
		msgs = append(msgs, "longitude is required")
	} else if *longitude < -180 || *longitude > 180 {
		msgs = append(msgs, "longitude must be between -180 and 180")
	}
	if strings.TrimSpace(mobile) == "" {
		msgs = append(msgs, "contact number is required")
	}
	if usageType != "" {
		switch enums.UsageType(strings.ToUpper(usageType)) {
		case enums.UsagePublic, enums.UsagePrivate:
		default:
			msgs = append(msgs, "usage type must be PUBLIC or PRIVATE")
		}
	}
	if openTime != nil && *openTime != "" && !timeOfDayRe.MatchString(*openTime) {
		msgs = append(msgs, "open time must be in HH:MM:SS format")
	}
	if closeTime != nil && *closeTime != "" && !timeOfDayRe.MatchString(*closeTime) {
		msgs = append(msgs, "close time must be in HH:MM:SS format")
	}
	return msgs
}
