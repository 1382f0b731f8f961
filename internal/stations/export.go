package stations

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/evjoints/admin-backend/pkg/export"
)

var exportHeader = []string{
	"Station ID", "Name", "Network", "Landmark", "Address",
	"Latitude", "Longitude", "Contact", "Usage Type", "Operating Hours",
	"Status", "eVolts", "Connector Type", "Connector Name", "Power",
	"Tariff", "No. of Connectors", "Photos", "Created At",
}

// Export streams the filtered, unpaginated listing as CSV: one row per
// station x connector, a single placeholder row for connector-less stations.
func (s *Service) Export(ctx context.Context, filters ListFilters, sort SortParams, w io.Writer) error {
	rows, err := s.repo.ExportRows(ctx, filters, sort)
	if err != nil {
		return fmt.Errorf("loading export rows: %w", err)
	}
	views := aggregate(rows)
	if err := s.fillEVolts(ctx, views); err != nil {
		return err
	}

	writer := export.NewCSVWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("writing export header: %w", err)
	}

	for _, view := range views {
		connectors := view.Connectors
		if len(connectors) == 0 {
			connectors = []ConnectorView{{Type: "-", Name: "-", Power: "-", Tariff: "-", Status: "-"}}
		}
		for _, connector := range connectors {
			record := []string{
				view.Label,
				view.Name,
				view.NetworkName,
				view.Landmark,
				view.Address,
				strconv.FormatFloat(view.Latitude, 'f', -1, 64),
				strconv.FormatFloat(view.Longitude, 'f', -1, 64),
				view.Mobile,
				view.UsageLabel,
				view.Hours,
				view.StatusLabel,
				strconv.FormatInt(view.EVolts, 10),
				connector.Type,
				connector.Name,
				connector.Power,
				connector.Tariff,
				connectorCountCell(connector),
				strconv.Itoa(len(view.Photos)),
				view.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("writing export row: %w", err)
			}
		}
	}
	return writer.Flush()
}

func connectorCountCell(connector ConnectorView) string {
	if connector.Count <= 0 {
		return "-"
	}
	return strconv.Itoa(connector.Count)
}
