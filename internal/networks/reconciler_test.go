package networks

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/evjoints/admin-backend/pkg/db"
	"github.com/evjoints/admin-backend/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupNetworksTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	network := `
CREATE TABLE IF NOT EXISTS network (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  status INTEGER NOT NULL DEFAULT 0,
  live_status INTEGER NOT NULL DEFAULT 0,
  approved_status TEXT NOT NULL DEFAULT 'PENDING',
  created_at DATETIME,
  updated_at DATETIME
);`
	stations := `
CREATE TABLE IF NOT EXISTS charging_station (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  landmark TEXT,
  latitude REAL NOT NULL DEFAULT 0,
  longitude REAL NOT NULL DEFAULT 0,
  mobile TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL DEFAULT 'PUBLIC',
  open_time TEXT,
  close_time TEXT,
  address TEXT NOT NULL DEFAULT '',
  network_id INTEGER,
  approved_status TEXT NOT NULL DEFAULT 'PENDING',
  status INTEGER NOT NULL DEFAULT 0,
  verified INTEGER NOT NULL DEFAULT 0,
  reason TEXT,
  user_type TEXT NOT NULL DEFAULT 'CPO',
  created_by INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`

	require.NoError(t, conn.Exec(network).Error)
	require.NoError(t, conn.Exec(stations).Error)
	return conn
}

func seedNetwork(t *testing.T, conn *gorm.DB, name string, status int, createdAt time.Time) int64 {
	t.Helper()
	row := models.Network{
		Name:           name,
		Status:         status,
		ApprovedStatus: "PENDING",
		CreatedAt:      createdAt,
	}
	require.NoError(t, conn.Create(&row).Error)
	return row.ID
}

func seedStation(t *testing.T, conn *gorm.DB, name string, networkID *int64) int64 {
	t.Helper()
	row := models.ChargingStation{
		Name:      name,
		Mobile:    "9876543210",
		NetworkID: networkID,
	}
	require.NoError(t, conn.Create(&row).Error)
	return row.ID
}

func TestReconcileMergesDuplicatesOntoEarliest(t *testing.T) {
	conn := setupNetworksTestDB(t)
	repo := NewRepository(conn)
	rc := NewReconciler(repo)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	oldest := seedNetwork(t, conn, "Tata Power", 0, base)
	dupA := seedNetwork(t, conn, "Tata Power", 0, base.Add(time.Hour))
	dupB := seedNetwork(t, conn, "Tata Power", 0, base.Add(2*time.Hour))

	target := seedStation(t, conn, "Green Charge Hub", nil)
	orphanA := seedStation(t, conn, "Hub A", &dupA)
	orphanB := seedStation(t, conn, "Hub B", &dupB)

	err := db.WithTx(ctx, conn, func(tx *gorm.DB) error {
		got, err := rc.Reconcile(ctx, tx, ReconcileInput{
			StationID:   target,
			NetworkName: "Tata Power",
		})
		if err != nil {
			return err
		}
		assert.Equal(t, oldest, got)
		return nil
	})
	require.NoError(t, err)

	var remaining []models.Network
	require.NoError(t, conn.Where("name = ?", "Tata Power").Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, oldest, remaining[0].ID)
	assert.Equal(t, 1, remaining[0].Status)

	for _, stationID := range []int64{target, orphanA, orphanB} {
		var station models.ChargingStation
		require.NoError(t, conn.First(&station, stationID).Error)
		require.NotNil(t, station.NetworkID)
		assert.Equal(t, oldest, *station.NetworkID)
	}
}

func TestReconcileActivationIsIdempotent(t *testing.T) {
	conn := setupNetworksTestDB(t)
	repo := NewRepository(conn)
	rc := NewReconciler(repo)
	ctx := context.Background()

	id := seedNetwork(t, conn, "Statiq", 0, time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC))
	station := seedStation(t, conn, "Mall Charger", nil)

	for i := 0; i < 2; i++ {
		err := db.WithTx(ctx, conn, func(tx *gorm.DB) error {
			got, err := rc.Reconcile(ctx, tx, ReconcileInput{
				StationID:   station,
				NetworkName: "Statiq",
			})
			if err != nil {
				return err
			}
			assert.Equal(t, id, got)
			return nil
		})
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, conn.Model(&models.Network{}).
		Where("name = ? AND status = 1", "Statiq").
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReconcileActiveNetworkByID(t *testing.T) {
	conn := setupNetworksTestDB(t)
	repo := NewRepository(conn)
	rc := NewReconciler(repo)
	ctx := context.Background()

	id := seedNetwork(t, conn, "ChargeZone", 1, time.Now().UTC())
	station := seedStation(t, conn, "Highway Stop", nil)

	err := db.WithTx(ctx, conn, func(tx *gorm.DB) error {
		got, err := rc.Reconcile(ctx, tx, ReconcileInput{
			StationID:     station,
			NetworkActive: true,
			NetworkID:     &id,
			NetworkName:   "ChargeZone",
		})
		if err != nil {
			return err
		}
		assert.Equal(t, id, got)
		return nil
	})
	require.NoError(t, err)

	var loaded models.ChargingStation
	require.NoError(t, conn.First(&loaded, station).Error)
	require.NotNil(t, loaded.NetworkID)
	assert.Equal(t, id, *loaded.NetworkID)
}

func TestReconcileMissingNameRowsRollsBack(t *testing.T) {
	conn := setupNetworksTestDB(t)
	repo := NewRepository(conn)
	rc := NewReconciler(repo)
	ctx := context.Background()

	station := seedStation(t, conn, "Lost Hub", nil)

	err := db.WithTx(ctx, conn, func(tx *gorm.DB) error {
		_, err := rc.Reconcile(ctx, tx, ReconcileInput{
			StationID:   station,
			NetworkName: "Nowhere Grid",
		})
		return err
	})
	require.Error(t, err)

	var loaded models.ChargingStation
	require.NoError(t, conn.First(&loaded, station).Error)
	assert.Nil(t, loaded.NetworkID)
}
