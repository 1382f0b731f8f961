package stations

import (
	"github.com/evjoints/admin-backend/pkg/enums"
	"github.com/evjoints/admin-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ConnectorInput is one connector specification in a create or edit request.
type ConnectorInput struct {
	ChargerTypeID int64            `json:"chargerTypeId"`
	Count         int              `json:"noOfConnectors"`
	Power         *decimal.Decimal `json:"power"`
	Tariff        *decimal.Decimal `json:"tariff"`
}

// CreateRequest is the POST /charging-stations body. Stations enter review as
// PENDING and operationally inactive.
type CreateRequest struct {
	Name        string           `json:"name"`
	Landmark    *string          `json:"landmark"`
	Latitude    *float64         `json:"latitude"`
	Longitude   *float64         `json:"longitude"`
	Mobile      string           `json:"mobile"`
	UsageType   string           `json:"usageType"`
	OpenTime    *string          `json:"openTime"`
	CloseTime   *string          `json:"closeTime"`
	Address     string           `json:"address"`
	NetworkName string           `json:"networkName"`
	AddedBy     string           `json:"addedBy"`
	CreatedBy   *int64           `json:"createdBy"`
	Connectors  []ConnectorInput `json:"connectors"`
	Photos      []string         `json:"photos"`
}

// UpdateRequest is the PUT /stations/{id} body: exactly one action per call.
type UpdateRequest struct {
	Action enums.StationAction `json:"action" validate:"required"`

	Name      string   `json:"name"`
	Landmark  *string  `json:"landmark"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Mobile    string   `json:"mobile"`
	UsageType string   `json:"usageType"`
	OpenTime  *string  `json:"openTime"`
	CloseTime *string  `json:"closeTime"`
	Address   string   `json:"address"`

	NetworkID     *int64 `json:"networkId"`
	NetworkActive bool   `json:"networkActive"`
	NetworkName   string `json:"networkName"`

	Reason string `json:"reason"`

	Connectors []ConnectorInput `json:"connectors"`
	Photos     []string         `json:"photos"`
}

// ListResult pairs the aggregated page with its pagination block.
type ListResult struct {
	Data       []*StationView  `json:"data"`
	Pagination pagination.Meta `json:"pagination"`
}

// MassUploadResult summarizes a mass upload without failing the batch.
type MassUploadResult struct {
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Rows      []MassUploadRow  `json:"rows"`
}

// MassUploadRow reports the outcome of one uploaded row.
type MassUploadRow struct {
	Line      int      `json:"line"`
	StationID int64    `json:"stationId,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}
