package stations

import (
	"fmt"
	"strings"
	"time"

	"github.com/evjoints/admin-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// flatRow is one station x connector x photo combination as produced by the
// detail join. Child columns are nullable because both joins are LEFT JOINs.
type flatRow struct {
	ID             int64           `gorm:"column:id"`
	Name           string          `gorm:"column:name"`
	Landmark       *string         `gorm:"column:landmark"`
	Latitude       float64         `gorm:"column:latitude"`
	Longitude      float64         `gorm:"column:longitude"`
	Mobile         string          `gorm:"column:mobile"`
	UsageType      string          `gorm:"column:type"`
	OpenTime       *string         `gorm:"column:open_time"`
	CloseTime      *string         `gorm:"column:close_time"`
	Address        string          `gorm:"column:address"`
	ApprovedStatus string          `gorm:"column:approved_status"`
	Status         int             `gorm:"column:status"`
	Reason         *string         `gorm:"column:reason"`
	UserType       string          `gorm:"column:user_type"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	NetworkID      *int64          `gorm:"column:network_id"`
	NetworkName    *string         `gorm:"column:network_name"`
	CreatorFirst   *string         `gorm:"column:creator_first_name"`
	CreatorLast    *string         `gorm:"column:creator_last_name"`
	ConnectorID    *int64          `gorm:"column:connector_id"`
	ChargerTypeID  *int64          `gorm:"column:charger_type_id"`
	ChargerName    *string         `gorm:"column:charger_type_name"`
	ChargerKind    *string         `gorm:"column:charger_type"`
	ConnectorCount *int            `gorm:"column:no_of_connectors"`
	Power          decimal.NullDecimal `gorm:"column:power"`
	Tariff         decimal.NullDecimal `gorm:"column:price_per_khw"`
	ConnectorState *int            `gorm:"column:connector_status"`
	PhotoPath      *string         `gorm:"column:photo_path"`
}

// ConnectorView is a fully-formed connector record in a listing or export.
type ConnectorView struct {
	ID            int64  `json:"id"`
	ChargerTypeID int64  `json:"chargerTypeId"`
	Type          string `json:"type"`
	Name          string `json:"name"`
	Power         string `json:"power"`
	Tariff        string `json:"tariff"`
	Status        string `json:"status"`
	Count         int    `json:"count"`
}

// StationView is one aggregated station entity.
type StationView struct {
	ID             int64           `json:"id"`
	Label          string          `json:"label"`
	Name           string          `json:"name"`
	Landmark       string          `json:"landmark"`
	Address        string          `json:"address"`
	Latitude       float64         `json:"latitude"`
	Longitude      float64         `json:"longitude"`
	Mobile         string          `json:"mobile"`
	UsageType      string          `json:"usageType"`
	UsageLabel     string          `json:"usageLabel"`
	Hours          string          `json:"hours"`
	NetworkID      *int64          `json:"networkId"`
	NetworkName    string          `json:"networkName"`
	CreatorName    string          `json:"creatorName"`
	CreatorType    string          `json:"creatorType"`
	ApprovedStatus string          `json:"approvedStatus"`
	StatusLabel    string          `json:"statusLabel"`
	Active         bool            `json:"active"`
	Reason         string          `json:"reason"`
	EVolts         int64           `json:"eVolts"`
	CreatedAt      time.Time       `json:"createdAt"`
	Connectors     []ConnectorView `json:"connectors"`
	Photos         []string        `json:"photos"`
}

// aggregate collapses flat join rows into one entity per station, preserving
// the first-seen parent order of the input. Repeated (station, connector) and
// (station, photo) pairs from the join fan-out collapse to one entry each.
func aggregate(rows []flatRow) []*StationView {
	views := make([]*StationView, 0)
	byID := make(map[int64]*StationView)
	connectorSeen := make(map[int64]map[int64]bool)
	connectorComposite := make(map[int64]map[string]int)
	photoSeen := make(map[int64]map[string]bool)

	for i := range rows {
		row := &rows[i]

		station, ok := byID[row.ID]
		if !ok {
			station = newStationView(row)
			byID[row.ID] = station
			views = append(views, station)
			connectorSeen[row.ID] = make(map[int64]bool)
			connectorComposite[row.ID] = make(map[string]int)
			photoSeen[row.ID] = make(map[string]bool)
		}

		if row.PhotoPath != nil && *row.PhotoPath != "" && !photoSeen[row.ID][*row.PhotoPath] {
			photoSeen[row.ID][*row.PhotoPath] = true
			station.Photos = append(station.Photos, *row.PhotoPath)
		}

		switch {
		case row.ConnectorID != nil:
			if connectorSeen[row.ID][*row.ConnectorID] {
				continue
			}
			connectorSeen[row.ID][*row.ConnectorID] = true
			station.Connectors = append(station.Connectors, newConnectorView(row))

		case row.ChargerName != nil || row.ChargerKind != nil:
			// No stable connector id on this row: dedupe on the content
			// key and accumulate the count instead.
			key := compositeConnectorKey(row)
			if idx, seen := connectorComposite[row.ID][key]; seen {
				station.Connectors[idx].Count += connectorCount(row)
				continue
			}
			station.Connectors = append(station.Connectors, newConnectorView(row))
			connectorComposite[row.ID][key] = len(station.Connectors) - 1
		}
	}

	return views
}

func newStationView(row *flatRow) *StationView {
	status := enums.ApprovalStatus(row.ApprovedStatus)
	return &StationView{
		ID:             row.ID,
		Label:          fmt.Sprintf("CS-%d", row.ID),
		Name:           row.Name,
		Landmark:       stringOrDash(row.Landmark),
		Address:        row.Address,
		Latitude:       row.Latitude,
		Longitude:      row.Longitude,
		Mobile:         row.Mobile,
		UsageType:      row.UsageType,
		UsageLabel:     enums.UsageType(row.UsageType).Label(),
		Hours:          formatHours(row.OpenTime, row.CloseTime),
		NetworkID:      row.NetworkID,
		NetworkName:    stringOrDash(row.NetworkName),
		CreatorName:    creatorName(row.CreatorFirst, row.CreatorLast),
		CreatorType:    row.UserType,
		ApprovedStatus: row.ApprovedStatus,
		StatusLabel:    status.Label(),
		Active:         row.Status == 1,
		Reason:         stringOrEmpty(row.Reason),
		CreatedAt:      row.CreatedAt,
		Connectors:     []ConnectorView{},
		Photos:         []string{},
	}
}

func newConnectorView(row *flatRow) ConnectorView {
	view := ConnectorView{
		Type:   stringOrDash(row.ChargerKind),
		Name:   stringOrDash(row.ChargerName),
		Power:  formatPower(row.Power),
		Tariff: formatTariff(row.Tariff),
		Status: "Inactive",
		Count:  connectorCount(row),
	}
	if row.ConnectorID != nil {
		view.ID = *row.ConnectorID
	}
	if row.ChargerTypeID != nil {
		view.ChargerTypeID = *row.ChargerTypeID
	}
	if row.ConnectorState != nil && *row.ConnectorState == 1 {
		view.Status = "Active"
	}
	return view
}

func compositeConnectorKey(row *flatRow) string {
	return strings.Join([]string{
		stringOrEmpty(row.ChargerKind),
		stringOrEmpty(row.ChargerName),
		formatPower(row.Power),
		formatTariff(row.Tariff),
	}, "|")
}

func connectorCount(row *flatRow) int {
	if row.ConnectorCount == nil || *row.ConnectorCount <= 0 {
		return 1
	}
	return *row.ConnectorCount
}

// formatHours renders "HH:MM - HH:MM", or "-" when either bound is missing.
func formatHours(open, close *string) string {
	if open == nil || close == nil || *open == "" || *close == "" {
		return "-"
	}
	return trimToMinutes(*open) + " - " + trimToMinutes(*close)
}

func trimToMinutes(t string) string {
	if len(t) >= 5 {
		return t[:5]
	}
	return t
}

// formatPower renders "<n> kW"; null renders the report placeholder, not "0".
func formatPower(power decimal.NullDecimal) string {
	if !power.Valid {
		return "-"
	}
	return power.Decimal.String() + " kW"
}

func formatTariff(tariff decimal.NullDecimal) string {
	if !tariff.Valid {
		return "-"
	}
	return "₹" + tariff.Decimal.String() + "/kWh"
}

func creatorName(first, last *string) string {
	name := strings.TrimSpace(stringOrEmpty(first) + " " + stringOrEmpty(last))
	if name == "" {
		return "-"
	}
	return name
}

func stringOrDash(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
