package networks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/evjoints/admin-backend/pkg/db/models"
	apperrors "github.com/evjoints/admin-backend/pkg/errors"
	"github.com/evjoints/admin-backend/pkg/logger"
	"gorm.io/gorm"
)

// NetworkView is the listing shape of one network row.
type NetworkView struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status int    `json:"status"`
}

// ListResult partitions networks on the operational flag.
type ListResult struct {
	Active   []NetworkView `json:"active"`
	Inactive []NetworkView `json:"inactive"`
}

// ServiceParams groups dependencies for the network service.
type ServiceParams struct {
	Repo   Repository
	Logger *logger.Logger
}

// Service orchestrates network listing, guarded deletion, and placeholder
// creation for station submissions.
type Service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds a network service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo, logg: params.Logger}, nil
}

// List returns every network partitioned into active and inactive groups.
// Both slices are always non-nil so clients see empty arrays, not null.
func (s *Service) List(ctx context.Context) (*ListResult, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing networks: %w", err)
	}
	result := &ListResult{
		Active:   []NetworkView{},
		Inactive: []NetworkView{},
	}
	for _, row := range rows {
		view := NetworkView{ID: row.ID, Name: row.Name, Status: row.Status}
		if row.Status == 1 {
			result.Active = append(result.Active, view)
		} else {
			result.Inactive = append(result.Inactive, view)
		}
	}
	return result, nil
}

// Delete removes an inactive network. Active networks hold station references
// and must be merged away through the reconciler instead.
func (s *Service) Delete(ctx context.Context, id int64) error {
	network, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("loading network %d: %w", id, err)
	}
	if network == nil {
		return apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("network %d not found", id))
	}
	if network.Status == 1 {
		return apperrors.New(apperrors.CodeValidation, "an active network cannot be deleted")
	}
	return s.repo.Delete(ctx, id)
}

// EnsurePlaceholder returns the id of the oldest network row with the given
// name, inserting an inactive placeholder when none exists. Station create and
// edit run this so the reconciler always finds at least one row per name.
func (s *Service) EnsurePlaceholder(ctx context.Context, tx *gorm.DB, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, apperrors.New(apperrors.CodeValidation, "network name is required")
	}
	repo := s.repo.WithTx(tx)

	existing, err := repo.FindByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("looking up network %q: %w", name, err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	placeholder := &models.Network{
		Name:           name,
		Status:         0,
		LiveStatus:     0,
		ApprovedStatus: "PENDING",
	}
	if err := repo.Create(ctx, placeholder); err != nil {
		return 0, fmt.Errorf("creating placeholder network %q: %w", name, err)
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "network_name", name), "created inactive placeholder network")
	}
	return placeholder.ID, nil
}
