package trips

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/evjoints/admin-backend/pkg/db/models"
	"github.com/evjoints/admin-backend/pkg/enums"
	apperrors "github.com/evjoints/admin-backend/pkg/errors"
	"github.com/evjoints/admin-backend/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTripsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS trip (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  customer_id INTEGER NOT NULL,
  vehicle_id INTEGER,
  trip_status TEXT NOT NULL DEFAULT 'SAVED',
  status INTEGER NOT NULL DEFAULT 1,
  distance REAL,
  feedback TEXT,
  source TEXT,
  source_latitude REAL,
  source_longitude REAL,
  destination TEXT,
  destination_latitude REAL,
  destination_longitude REAL,
  no_of_charging_stations INTEGER NOT NULL DEFAULT 0,
  connector_id TEXT,
  battery_capacity TEXT,
  story_status TEXT,
  story_action_by TEXT,
  story_blog_link TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS trip_stops (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  trip_id INTEGER NOT NULL,
  stop TEXT NOT NULL,
  latitude REAL,
  longitude REAL
);`, `
CREATE TABLE IF NOT EXISTS customer (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  email TEXT,
  mobile TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`, `
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
);`, `
CREATE TABLE IF NOT EXISTS charging_point (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  station_id INTEGER NOT NULL,
  status INTEGER NOT NULL DEFAULT 1
);`, `
CREATE TABLE IF NOT EXISTS connector (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  charge_point_id INTEGER NOT NULL,
  charger_type_id INTEGER NOT NULL,
  no_of_connectors INTEGER NOT NULL DEFAULT 0,
  power NUMERIC,
  price_per_khw NUMERIC,
  status INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME
);`}

	for _, stmt := range ddl {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newTripService(t *testing.T, conn *gorm.DB) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: NewRepository(conn)})
	require.NoError(t, err)
	return svc
}

func seedTripCustomer(t *testing.T, conn *gorm.DB, first, last, mobile string) int64 {
	t.Helper()
	row := models.Customer{FirstName: first, LastName: last, Mobile: mobile}
	require.NoError(t, conn.Create(&row).Error)
	return row.ID
}

func seedTripRow(t *testing.T, conn *gorm.DB, customerID int64, status enums.TripStatus, feedback *string) int64 {
	t.Helper()
	source := "Mumbai"
	destination := "Pune"
	row := models.Trip{
		CustomerID:  customerID,
		TripStatus:  status,
		Source:      &source,
		Destination: &destination,
		Feedback:    feedback,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, conn.Create(&row).Error)
	return row.ID
}

func strPtr(v string) *string { return &v }

func TestListAssemblesStopsAndStations(t *testing.T) {
	conn := setupTripsTestDB(t)
	svc := newTripService(t, conn)
	ctx := context.Background()

	customerID := seedTripCustomer(t, conn, "Asha", "Patel", "9876543210")

	station := models.ChargingStation{Name: "Lonavala Hub", Mobile: "9000000000"}
	require.NoError(t, conn.Create(&station).Error)
	point := models.ChargingPoint{StationID: station.ID, Status: 1}
	require.NoError(t, conn.Create(&point).Error)
	connector := models.Connector{ChargePointID: point.ID, ChargerTypeID: 1, Status: 1}
	require.NoError(t, conn.Create(&connector).Error)

	tripID := seedTripRow(t, conn, customerID, enums.TripCompleted, nil)
	require.NoError(t, conn.Model(&models.Trip{}).Where("id = ?", tripID).
		Update("connector_id", fmt.Sprintf("%d", connector.ID)).Error)
	require.NoError(t, conn.Create(&models.TripStop{TripID: tripID, Stop: "Lonavala"}).Error)
	require.NoError(t, conn.Create(&models.TripStop{TripID: tripID, Stop: "Khandala"}).Error)

	result, err := svc.List(ctx, ListFilters{}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)

	view := result.Data[0]
	assert.Equal(t, "Asha Patel", view.CustomerName)
	assert.Equal(t, []string{"Lonavala", "Khandala"}, view.Stops)
	assert.Equal(t, []string{"Lonavala Hub"}, view.Stations)
	assert.True(t, view.Completed)
}

func TestListStatusGroupFilter(t *testing.T) {
	conn := setupTripsTestDB(t)
	svc := newTripService(t, conn)
	ctx := context.Background()

	customerID := seedTripCustomer(t, conn, "Ravi", "Sharma", "9123456789")
	seedTripRow(t, conn, customerID, enums.TripCompleted, nil)
	seedTripRow(t, conn, customerID, enums.TripSuccessful, nil)
	seedTripRow(t, conn, customerID, enums.TripSaved, nil)

	result, err := svc.List(ctx, ListFilters{Status: "Completed"}, pagination.Params{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Pagination.Total)
	for _, view := range result.Data {
		assert.True(t, view.Completed)
	}
}

func TestListStoryPresenceFilter(t *testing.T) {
	conn := setupTripsTestDB(t)
	svc := newTripService(t, conn)
	ctx := context.Background()

	customerID := seedTripCustomer(t, conn, "Ravi", "Sharma", "9123456789")
	seedTripRow(t, conn, customerID, enums.TripCompleted, strPtr("Great drive through the ghats"))
	seedTripRow(t, conn, customerID, enums.TripCompleted, nil)

	hasStory := true
	result, err := svc.List(ctx, ListFilters{HasStory: &hasStory}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.NotEmpty(t, result.Data[0].Feedback)
}

func TestUpdateStoryApproveRequiresText(t *testing.T) {
	conn := setupTripsTestDB(t)
	svc := newTripService(t, conn)
	ctx := context.Background()

	customerID := seedTripCustomer(t, conn, "Ravi", "Sharma", "9123456789")
	bare := seedTripRow(t, conn, customerID, enums.TripCompleted, nil)

	err := svc.UpdateStory(ctx, bare, StoryRequest{Action: StoryActionApprove, ActionBy: "admin"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.As(err).Code())
}

func TestUpdateStoryApproveSetsStructuredFields(t *testing.T) {
	conn := setupTripsTestDB(t)
	svc := newTripService(t, conn)
	ctx := context.Background()

	customerID := seedTripCustomer(t, conn, "Ravi", "Sharma", "9123456789")
	id := seedTripRow(t, conn, customerID, enums.TripCompleted, strPtr("Great drive"))

	require.NoError(t, svc.UpdateStory(ctx, id, StoryRequest{
		Action:   StoryActionApprove,
		ActionBy: "admin@evjoints.in",
		BlogLink: "https://blog.example.com/great-drive",
	}))

	var trip models.Trip
	require.NoError(t, conn.First(&trip, id).Error)
	require.NotNil(t, trip.StoryStatus)
	assert.Equal(t, enums.StoryApproved, *trip.StoryStatus)
	require.NotNil(t, trip.StoryActionBy)
	assert.Equal(t, "admin@evjoints.in", *trip.StoryActionBy)
	require.NotNil(t, trip.StoryBlogLink)
	assert.Equal(t, "https://blog.example.com/great-drive", *trip.StoryBlogLink)
	require.NotNil(t, trip.Feedback, "approval keeps the story text")
}

func TestUpdateStoryRejectClearsFeedback(t *testing.T) {
	conn := setupTripsTestDB(t)
	svc := newTripService(t, conn)
	ctx := context.Background()

	customerID := seedTripCustomer(t, conn, "Ravi", "Sharma", "9123456789")
	id := seedTripRow(t, conn, customerID, enums.TripCompleted, strPtr("Awful story"))

	require.NoError(t, svc.UpdateStory(ctx, id, StoryRequest{
		Action:   StoryActionReject,
		ActionBy: "admin@evjoints.in",
	}))

	var trip models.Trip
	require.NoError(t, conn.First(&trip, id).Error)
	require.NotNil(t, trip.StoryStatus)
	assert.Equal(t, enums.StoryRejected, *trip.StoryStatus)
	assert.Nil(t, trip.Feedback)
	assert.Nil(t, trip.StoryBlogLink)
}

func TestUpdateStoryUnknownTrip(t *testing.T) {
	conn := setupTripsTestDB(t)
	svc := newTripService(t, conn)

	err := svc.UpdateStory(context.Background(), 404, StoryRequest{Action: StoryActionReject, ActionBy: "admin"})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.As(err).Code())
}

func TestExportWritesOneRowPerTrip(t *testing.T) {
	conn := setupTripsTestDB(t)
	svc := newTripService(t, conn)
	ctx := context.Background()

	customerID := seedTripCustomer(t, conn, "Asha", "Patel", "9876543210")
	seedTripRow(t, conn, customerID, enums.TripCompleted, strPtr("Nice trip"))
	seedTripRow(t, conn, customerID, enums.TripSaved, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, ListFilters{}, &buf))

	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
	records, err := csv.NewReader(strings.NewReader(string(buf.Bytes()[3:]))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, exportHeader, records[0])
}
