package models

import (
	"time"

	"github.com/evjoints/admin-backend/pkg/enums"
)

// Trip is a customer journey with an optional submitted story. Story review
// state lives in dedicated columns rather than being encoded into free text.
type Trip struct {
	ID                   int64              `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID           int64              `gorm:"column:customer_id;not null"`
	VehicleID            *int64             `gorm:"column:vehicle_id"`
	TripStatus           enums.TripStatus   `gorm:"column:trip_status;not null;default:SAVED"`
	Status               int                `gorm:"column:status;not null;default:1"`
	Distance             *float64           `gorm:"column:distance"`
	Feedback             *string            `gorm:"column:feedback"`
	Source               *string            `gorm:"column:source"`
	SourceLatitude       *float64           `gorm:"column:source_latitude"`
	SourceLongitude      *float64           `gorm:"column:source_longitude"`
	Destination          *string            `gorm:"column:destination"`
	DestinationLatitude  *float64           `gorm:"column:destination_latitude"`
	DestinationLongitude *float64           `gorm:"column:destination_longitude"`
	NoOfChargingStations int                `gorm:"column:no_of_charging_stations;not null;default:0"`
	ConnectorID          *string            `gorm:"column:connector_id"`
	BatteryCapacity      *string            `gorm:"column:battery_capacity"`
	StoryStatus          *enums.StoryStatus `gorm:"column:story_status"`
	StoryActionBy        *string            `gorm:"column:story_action_by"`
	StoryBlogLink        *string            `gorm:"column:story_blog_link"`
	CreatedAt            time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Trip) TableName() string { return "trip" }

// TripStop is one intermediate waypoint on a trip route.
type TripStop struct {
	ID        int64    `gorm:"column:id;primaryKey;autoIncrement"`
	TripID    int64    `gorm:"column:trip_id;not null"`
	Stop      string   `gorm:"column:stop;not null"`
	Latitude  *float64 `gorm:"column:latitude"`
	Longitude *float64 `gorm:"column:longitude"`
}

func (TripStop) TableName() string { return "trip_stops" }

// LoyaltyPoint is one eVolts ledger entry, tied to a station, a customer, or
// both. Entries follow the owning station's approval decisions.
type LoyaltyPoint struct {
	ID             int64                `gorm:"column:id;primaryKey;autoIncrement"`
	StationID      *int64               `gorm:"column:station_id"`
	CustomerID     *int64               `gorm:"column:customer_id"`
	Points         int                  `gorm:"column:points;not null;default:0"`
	ApprovedStatus enums.ApprovalStatus `gorm:"column:approved_status;not null;default:PENDING"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
}

func (LoyaltyPoint) TableName() string { return "loyalty_points" }
