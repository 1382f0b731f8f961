package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/evjoints/admin-backend/internal/loyalty"
	"github.com/evjoints/admin-backend/pkg/enums"
	"github.com/evjoints/admin-backend/pkg/pagination"
)

// Subscription tiers derived from app activity.
const (
	TierPremium = "Premium"
	TierGold    = "Gold"
	TierBasic   = "Basic"
)

// navigationStatuses are route-planning trips; checkInStatuses are charging
// attempts logged at a station.
var (
	navigationStatuses = map[enums.TripStatus]bool{
		enums.TripSaved:     true,
		enums.TripOnGoing:   true,
		enums.TripCompleted: true,
		enums.TripCancelled: true,
	}
	checkInStatuses = map[enums.TripStatus]bool{
		enums.TripEnquired:     true,
		enums.TripSuccessful:   true,
		enums.TripUnsuccessful: true,
		enums.TripOnGoingTest:  true,
	}
)

// VehicleView is the flattened latest-vehicle block on a customer row.
type VehicleView struct {
	RegistrationNo string `json:"registrationNo"`
	Type           string `json:"type"`
	Manufacturer   string `json:"manufacturer"`
	Model          string `json:"model"`
	Variant        string `json:"variant"`
}

// DeviceView is the flattened latest-device block on a customer row.
type DeviceView struct {
	Brand   string `json:"brand"`
	Model   string `json:"model"`
	Type    string `json:"type"`
	Version string `json:"version"`
}

// CustomerView is one aggregated customer listing row.
type CustomerView struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Mobile       string       `json:"mobile"`
	RegisteredAt string       `json:"registeredAt"`
	Vehicle      *VehicleView `json:"vehicle"`
	Device       *DeviceView  `json:"device"`
	Tier         string       `json:"tier"`
	HasTrips     bool         `json:"hasTrips"`
	HasCheckIns  bool         `json:"hasCheckIns"`
	EVolts       int64        `json:"eVolts"`
}

// ListResult pairs the customer page with its pagination block.
type ListResult struct {
	Data       []CustomerView  `json:"data"`
	Pagination pagination.Meta `json:"pagination"`
}

// ServiceParams groups dependencies for the customer service.
type ServiceParams struct {
	Repo    Repository
	Loyalty loyalty.Repository
}

// Service assembles the customer listing.
type Service struct {
	repo    Repository
	loyalty loyalty.Repository
}

// NewService builds a customer service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Loyalty == nil {
		return nil, errors.New("loyalty repo is required")
	}
	return &Service{repo: params.Repo, loyalty: params.Loyalty}, nil
}

// List returns one page of customers with their latest vehicle and device,
// derived subscription tier, and approved eVolts sum.
func (s *Service) List(ctx context.Context, search string, page pagination.Params) (*ListResult, error) {
	page = pagination.Normalize(page)

	total, err := s.repo.Count(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("counting customers: %w", err)
	}
	result := &ListResult{
		Data:       []CustomerView{},
		Pagination: pagination.MetaFor(page, total),
	}
	if total == 0 {
		return result, nil
	}

	rows, err := s.repo.Page(ctx, search, page.Offset(), page.Limit)
	if err != nil {
		return nil, fmt.Errorf("paging customers: %w", err)
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	vehicles, err := s.repo.LatestVehicles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading vehicles: %w", err)
	}
	devices, err := s.repo.LatestDevices(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading devices: %w", err)
	}
	activity, err := s.repo.TripActivity(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading trip activity: %w", err)
	}
	sums, err := s.loyalty.SumApprovedByCustomer(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("summing loyalty points: %w", err)
	}

	trips, checkIns := activityFlags(activity)

	for _, row := range rows {
		view := CustomerView{
			ID:          row.ID,
			Name:        strings.TrimSpace(row.FirstName + " " + row.LastName),
			Email:       stringOrDash(row.Email),
			Mobile:      row.Mobile,
			HasTrips:    trips[row.ID],
			HasCheckIns: checkIns[row.ID],
			Tier:        tierFor(trips[row.ID], checkIns[row.ID]),
			EVolts:      sums[row.ID],
		}
		if !row.CreatedAt.IsZero() {
			view.RegisteredAt = row.CreatedAt.Format("2006-01-02")
		}
		if vehicle, ok := vehicles[row.ID]; ok {
			view.Vehicle = &VehicleView{
				RegistrationNo: stringOrDash(vehicle.RegistrationNo),
				Type:           stringOrDash(vehicle.VehicleType),
				Manufacturer:   stringOrDash(vehicle.Manufacturer),
				Model:          stringOrDash(vehicle.Model),
				Variant:        stringOrDash(vehicle.Variant),
			}
		}
		if device, ok := devices[row.ID]; ok {
			view.Device = &DeviceView{
				Brand:   stringOrDash(device.Brand),
				Model:   stringOrDash(device.Model),
				Type:    stringOrDash(device.Type),
				Version: stringOrDash(device.VersionNumber),
			}
		}
		result.Data = append(result.Data, view)
	}
	return result, nil
}

func activityFlags(activity []TripActivity) (trips, checkIns map[int64]bool) {
	trips = make(map[int64]bool)
	checkIns = make(map[int64]bool)
	for _, row := range activity {
		if row.Total == 0 {
			continue
		}
		status := enums.TripStatus(row.TripStatus)
		if navigationStatuses[status] {
			trips[row.CustomerID] = true
		}
		if checkInStatuses[status] {
			checkIns[row.CustomerID] = true
		}
	}
	return trips, checkIns
}

// tierFor derives the subscription tier: both trip and check-in history makes
// Premium, either alone makes Gold, no activity is Basic.
func tierFor(hasTrips, hasCheckIns bool) string {
	switch {
	case hasTrips && hasCheckIns:
		return TierPremium
	case hasTrips || hasCheckIns:
		return TierGold
	default:
		return TierBasic
	}
}

func stringOrDash(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}
