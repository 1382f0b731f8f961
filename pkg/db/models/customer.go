package models

import "time"

// Customer is an end user of the consumer app.
type Customer struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	FirstName string    `gorm:"column:first_name;not null"`
	LastName  string    `gorm:"column:last_name;not null"`
	Email     *string   `gorm:"column:email"`
	Mobile    string    `gorm:"column:mobile;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Customer) TableName() string { return "customer" }

// Vehicle is a customer-registered EV, described through the taxonomy masters.
type Vehicle struct {
	ID                    int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID            int64     `gorm:"column:customer_id;not null"`
	VehicleTypeID         *int64    `gorm:"column:vehicle_type_id"`
	ManufacturerID        *int64    `gorm:"column:manufacturer_id"`
	VehicleModelID        *int64    `gorm:"column:vehicle_model_id"`
	VehicleVariantID      *int64    `gorm:"column:vehicle_variant_id"`
	VehicleRegistrationNo *string   `gorm:"column:vehicle_registration_no"`
	CreatedAt             time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Vehicle) TableName() string { return "my_vehicles" }

// VehicleTypeMaster / ManufacturerMaster / VehicleModelMaster /
// VehicleVariantMaster are lookup tables for the vehicle taxonomy.
type VehicleTypeMaster struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null"`
}

func (VehicleTypeMaster) TableName() string { return "vehicle_type_master" }

type ManufacturerMaster struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null"`
}

func (ManufacturerMaster) TableName() string { return "manufacturer_master" }

type VehicleModelMaster struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null"`
}

func (VehicleModelMaster) TableName() string { return "vehicle_model_master" }

type VehicleVariantMaster struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null"`
}

func (VehicleVariantMaster) TableName() string { return "vehicle_variant_master" }

// Device is the most recent app install a customer registered.
type Device struct {
	ID            int64   `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID    int64   `gorm:"column:customer_id;not null"`
	Brand         *string `gorm:"column:brand"`
	Model         *string `gorm:"column:model"`
	Type          *string `gorm:"column:type"`
	VersionNumber *string `gorm:"column:version_number"`
}

func (Device) TableName() string { return "devices" }

// Vendor is an operator account that signs in to the admin dashboard via OTP.
type Vendor struct {
	ID     int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name   *string `gorm:"column:name"`
	Email  *string `gorm:"column:email"`
	Mobile string  `gorm:"column:mobile;not null;uniqueIndex"`
	PAN    *string `gorm:"column:pan"`
	GSTNo  *string `gorm:"column:gst_no"`
}

func (Vendor) TableName() string { return "vendor" }
