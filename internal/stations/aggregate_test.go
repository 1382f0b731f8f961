package stations

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func baseRow(id int64, name string) flatRow {
	return flatRow{
		ID:             id,
		Name:           name,
		Latitude:       19.076,
		Longitude:      72.8777,
		Mobile:         "9876543210",
		UsageType:      "PUBLIC",
		Address:        "Plot 4, Sector 21",
		ApprovedStatus: "APPROVED",
		Status:         1,
		UserType:       "CPO",
		CreatedAt:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func withConnector(row flatRow, connectorID int64, name string, power, tariff string) flatRow {
	row.ConnectorID = ptr(connectorID)
	row.ChargerTypeID = ptr(int64(1))
	row.ChargerName = ptr(name)
	row.ChargerKind = ptr("DC")
	row.ConnectorCount = ptr(2)
	row.ConnectorState = ptr(1)
	if power != "" {
		row.Power = decimal.NullDecimal{Decimal: decimal.RequireFromString(power), Valid: true}
	}
	if tariff != "" {
		row.Tariff = decimal.NullDecimal{Decimal: decimal.RequireFromString(tariff), Valid: true}
	}
	return row
}

func TestAggregateDeduplicatesChildren(t *testing.T) {
	photoA := ptr("uploads/a.jpg")
	photoB := ptr("uploads/b.jpg")

	rowCCS := withConnector(baseRow(1, "Green Charge Hub"), 11, "CCS2", "60", "18")
	rowCHAdeMO := withConnector(baseRow(1, "Green Charge Hub"), 12, "CHAdeMO", "50", "16")

	// The double LEFT JOIN emits one row per connector x photo pair.
	rows := []flatRow{}
	for _, connectorRow := range []flatRow{rowCCS, rowCHAdeMO} {
		for _, photo := range []*string{photoA, photoB} {
			r := connectorRow
			r.PhotoPath = photo
			rows = append(rows, r)
		}
	}

	views := aggregate(rows)
	require.Len(t, views, 1)
	assert.Len(t, views[0].Connectors, 2)
	assert.Equal(t, []string{"uploads/a.jpg", "uploads/b.jpg"}, views[0].Photos)
}

func TestAggregatePreservesFirstSeenParentOrder(t *testing.T) {
	rows := []flatRow{
		baseRow(3, "Newest"),
		baseRow(1, "Middle"),
		baseRow(3, "Newest"),
		baseRow(2, "Oldest"),
	}

	views := aggregate(rows)
	require.Len(t, views, 3)
	assert.Equal(t, int64(3), views[0].ID)
	assert.Equal(t, int64(1), views[1].ID)
	assert.Equal(t, int64(2), views[2].ID)
}

func TestAggregateChildlessStationHasEmptySlices(t *testing.T) {
	views := aggregate([]flatRow{baseRow(5, "Bare Station")})

	require.Len(t, views, 1)
	assert.NotNil(t, views[0].Connectors)
	assert.NotNil(t, views[0].Photos)
	assert.Empty(t, views[0].Connectors)
	assert.Empty(t, views[0].Photos)
}

func TestAggregateDisplayFields(t *testing.T) {
	row := baseRow(42, "Mall Charger")
	row.OpenTime = ptr("06:00:00")
	row.CloseTime = ptr("23:30:00")
	row.NetworkID = ptr(int64(9))
	row.NetworkName = ptr("Tata Power")
	row.CreatorFirst = ptr("Asha")
	row.CreatorLast = ptr("Patel")

	views := aggregate([]flatRow{row})
	require.Len(t, views, 1)
	view := views[0]

	assert.Equal(t, "CS-42", view.Label)
	assert.Equal(t, "06:00 - 23:30", view.Hours)
	assert.Equal(t, "Public", view.UsageLabel)
	assert.Equal(t, "Approved", view.StatusLabel)
	assert.Equal(t, "Tata Power", view.NetworkName)
	assert.Equal(t, "Asha Patel", view.CreatorName)
	assert.True(t, view.Active)
}

func TestAggregateMissingHoursRenderDash(t *testing.T) {
	open := baseRow(1, "Open Only")
	open.OpenTime = ptr("08:00:00")

	views := aggregate([]flatRow{open})
	require.Len(t, views, 1)
	assert.Equal(t, "-", views[0].Hours)
}

func TestAggregateNullRatingAndTariffRenderDash(t *testing.T) {
	row := withConnector(baseRow(1, "Hub"), 7, "Type 2", "", "")

	views := aggregate([]flatRow{row})
	require.Len(t, views, 1)
	require.Len(t, views[0].Connectors, 1)
	connector := views[0].Connectors[0]

	assert.Equal(t, "-", connector.Power)
	assert.Equal(t, "-", connector.Tariff)
}

func TestAggregateConnectorDisplayStrings(t *testing.T) {
	row := withConnector(baseRow(1, "Hub"), 7, "CCS2", "60", "18")

	views := aggregate([]flatRow{row})
	connector := views[0].Connectors[0]

	assert.Equal(t, "60 kW", connector.Power)
	assert.Equal(t, "₹18/kWh", connector.Tariff)
	assert.Equal(t, "Active", connector.Status)
	assert.Equal(t, 2, connector.Count)
}

func TestAggregateCompositeFallbackAccumulatesCount(t *testing.T) {
	// Rows without a stable connector id dedupe on content and sum counts.
	row := withConnector(baseRow(1, "Hub"), 0, "CCS2", "60", "18")
	row.ConnectorID = nil

	views := aggregate([]flatRow{row, row})
	require.Len(t, views, 1)
	require.Len(t, views[0].Connectors, 1)
	assert.Equal(t, 4, views[0].Connectors[0].Count)
}
