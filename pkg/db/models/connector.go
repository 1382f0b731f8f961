package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Connector describes one charging-port specification on a charging point.
// Edits replace the whole set for a charging point; rows never survive a
// later rewrite.
type Connector struct {
	ID             int64                `gorm:"column:id;primaryKey;autoIncrement"`
	ChargePointID  int64                `gorm:"column:charge_point_id;not null"`
	ChargerTypeID  int64                `gorm:"column:charger_type_id;not null"`
	NoOfConnectors int                  `gorm:"column:no_of_connectors;not null;default:0"`
	Power          decimal.NullDecimal  `gorm:"column:power;type:numeric(10,2)"`
	PricePerKWh    decimal.NullDecimal  `gorm:"column:price_per_khw;type:numeric(10,2)"`
	Status         int                  `gorm:"column:status;not null;default:1"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
}

func (Connector) TableName() string { return "connector" }

// ChargerType is the master list of connector standards (CCS2, CHAdeMO, ...).
type ChargerType struct {
	ID       int64               `gorm:"column:id;primaryKey;autoIncrement"`
	Name     string              `gorm:"column:name;not null"`
	Type     string              `gorm:"column:type;not null"`
	MaxPower decimal.NullDecimal `gorm:"column:max_power;type:numeric(10,2)"`
}

func (ChargerType) TableName() string { return "charger_types" }

// Attachment is an append-only photo record for a station. Path either holds
// the full legacy path or a directory combined with Name.
type Attachment struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	StationID int64     `gorm:"column:station_id;not null"`
	Path      string    `gorm:"column:path;not null"`
	Name      *string   `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Attachment) TableName() string { return "attachment" }
