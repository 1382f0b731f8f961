package models

import (
	"time"

	"github.com/evjoints/admin-backend/pkg/enums"
)

// ChargingStation is a physical EV charging location submitted for review.
// DELETED rows stay in place as soft deletes; normal listings filter them out.
type ChargingStation struct {
	ID             int64                `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string               `gorm:"column:name;not null"`
	Landmark       *string              `gorm:"column:landmark"`
	Latitude       float64              `gorm:"column:latitude;not null"`
	Longitude      float64              `gorm:"column:longitude;not null"`
	Mobile         string               `gorm:"column:mobile;not null"`
	Type           enums.UsageType      `gorm:"column:type;not null;default:PUBLIC"`
	OpenTime       *string              `gorm:"column:open_time"`
	CloseTime      *string              `gorm:"column:close_time"`
	Address        string               `gorm:"column:address;not null;default:''"`
	NetworkID      *int64               `gorm:"column:network_id"`
	ApprovedStatus enums.ApprovalStatus `gorm:"column:approved_status;not null;default:PENDING"`
	Status         int                  `gorm:"column:status;not null;default:0"`
	Verified       bool                 `gorm:"column:verified;not null;default:false"`
	Reason         *string              `gorm:"column:reason"`
	UserType       enums.CreatorType    `gorm:"column:user_type;not null;default:CPO"`
	CreatedBy      *int64               `gorm:"column:created_by"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (ChargingStation) TableName() string { return "charging_station" }

// Network is a named operator grouping of stations. Status 1 marks the
// canonical active row for a name; duplicates are merged away on activation.
type Network struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string    `gorm:"column:name;not null"`
	Status         int       `gorm:"column:status;not null;default:0"`
	LiveStatus     int       `gorm:"column:live_status;not null;default:0"`
	ApprovedStatus string    `gorm:"column:approved_status;not null;default:PENDING"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Network) TableName() string { return "network" }

// ChargingPoint groups a station's connectors; one per station in practice.
type ChargingPoint struct {
	ID        int64 `gorm:"column:id;primaryKey;autoIncrement"`
	StationID int64 `gorm:"column:station_id;not null"`
	Status    int   `gorm:"column:status;not null;default:1"`
}

func (ChargingPoint) TableName() string { return "charging_point" }
