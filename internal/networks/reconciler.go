package networks

import (
	"context"
	"fmt"
	"strings"

	"github.com/evjoints/admin-backend/pkg/db"
	apperrors "github.com/evjoints/admin-backend/pkg/errors"
	"gorm.io/gorm"
)

// ReconcileInput carries the caller's view of the network a station belongs to.
type ReconcileInput struct {
	StationID     int64
	NetworkActive bool
	NetworkID     *int64
	NetworkName   string
}

// Reconciler resolves a station's network reference to exactly one canonical
// row per name, merging duplicates on the way. It must run inside the caller's
// transaction; it takes a transaction-scoped advisory lock on the name so two
// concurrent merges for the same name serialize instead of racing.
type Reconciler struct {
	repo Repository
}

// NewReconciler builds a reconciler over the given repository.
func NewReconciler(repo Repository) *Reconciler {
	return &Reconciler{repo: repo}
}

// Reconcile resolves the canonical network id and links the station to it.
//
// Active network with a known id: verify the row and use it as-is. Inactive
// network resolved by name: every row sharing the name is collapsed onto the
// earliest-created one, stations pointing at duplicates are repointed before
// the duplicate is deleted, and the survivor is activated. Activation is
// idempotent; running the merge again for the same name only refreshes the
// canonical row's timestamp.
func (rc *Reconciler) Reconcile(ctx context.Context, tx *gorm.DB, in ReconcileInput) (int64, error) {
	name := strings.TrimSpace(in.NetworkName)
	repo := rc.repo.WithTx(tx)

	if err := db.AdvisoryLock(tx, "network:"+strings.ToLower(name)); err != nil {
		return 0, fmt.Errorf("locking network name: %w", err)
	}

	var canonicalID int64

	switch {
	case in.NetworkActive && in.NetworkID != nil:
		network, err := repo.FindByID(ctx, *in.NetworkID)
		if err != nil {
			return 0, fmt.Errorf("loading network %d: %w", *in.NetworkID, err)
		}
		if network == nil {
			return 0, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("network %d not found", *in.NetworkID))
		}
		canonicalID = network.ID

	default:
		if name == "" {
			return 0, apperrors.New(apperrors.CodeValidation, "network name is required")
		}
		rows, err := repo.ListByName(ctx, name)
		if err != nil {
			return 0, fmt.Errorf("loading networks named %q: %w", name, err)
		}
		if len(rows) == 0 {
			// The inactive placeholder is created at station submission
			// time; its absence means the workflow is out of order.
			return 0, apperrors.New(apperrors.CodeConflict, fmt.Sprintf("no network rows found for name %q", name))
		}

		canonical := rows[0]
		for _, dup := range rows[1:] {
			if err := repo.RepointStations(ctx, dup.ID, canonical.ID); err != nil {
				return 0, fmt.Errorf("repointing stations from network %d: %w", dup.ID, err)
			}
			if err := repo.Delete(ctx, dup.ID); err != nil {
				return 0, fmt.Errorf("deleting duplicate network %d: %w", dup.ID, err)
			}
		}

		if err := repo.Activate(ctx, canonical.ID, name); err != nil {
			return 0, fmt.Errorf("activating network %d: %w", canonical.ID, err)
		}
		canonicalID = canonical.ID
	}

	if err := repo.LinkStation(ctx, in.StationID, canonicalID); err != nil {
		return 0, fmt.Errorf("linking station %d to network %d: %w", in.StationID, canonicalID, err)
	}
	return canonicalID, nil
}
