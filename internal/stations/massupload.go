package stations

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/evjoints/admin-backend/pkg/errors"
	"go.uber.org/multierr"
)

// MassUpload ingests a CSV of station submissions. Accepted headers, matched
// case-insensitively: name, latitude, longitude, mobile, usageType, landmark,
// address, networkName, openTime, closeTime. Every row is validated and
// inserted in its own transaction; a bad row is reported, never fatal for the
// batch.
func (s *Service) MassUpload(ctx context.Context, r io.Reader) (*MassUploadResult, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, err, "upload is empty or not a CSV")
	}
	columns, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	result := &MassUploadResult{Rows: []MassUploadRow{}}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Total++
			result.Failed++
			result.Rows = append(result.Rows, MassUploadRow{Line: line, Errors: []string{err.Error()}})
			continue
		}

		result.Total++
		req, parseErr := buildRowRequest(columns, record)
		if parseErr != nil {
			result.Failed++
			result.Rows = append(result.Rows, MassUploadRow{Line: line, Errors: errorMessages(parseErr)})
			continue
		}

		stationID, createErr := s.Create(ctx, req)
		if createErr != nil {
			result.Failed++
			result.Rows = append(result.Rows, MassUploadRow{Line: line, Errors: errorMessages(createErr)})
			continue
		}
		result.Succeeded++
		result.Rows = append(result.Rows, MassUploadRow{Line: line, StationID: stationID})
	}
	return result, nil
}

// resolveColumns maps header names to record indexes; name is the only
// mandatory column.
func resolveColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
		columns[key] = i
	}
	if _, ok := columns["name"]; !ok {
		return nil, apperrors.New(apperrors.CodeValidation, "CSV is missing the required 'name' column")
	}
	return columns, nil
}

func buildRowRequest(columns map[string]int, record []string) (CreateRequest, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var errs error
	req := CreateRequest{
		Name:        field("name"),
		Mobile:      field("mobile"),
		UsageType:   field("usagetype"),
		Address:     field("address"),
		NetworkName: field("networkname"),
	}

	if v := field("landmark"); v != "" {
		req.Landmark = &v
	}
	if v := field("opentime"); v != "" {
		req.OpenTime = &v
	}
	if v := field("closetime"); v != "" {
		req.CloseTime = &v
	}

	if v := field("latitude"); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("latitude %q is not numeric", v))
		} else {
			req.Latitude = &lat
		}
	}
	if v := field("longitude"); v != "" {
		lon, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("longitude %q is not numeric", v))
		} else {
			req.Longitude = &lon
		}
	}

	return req, errs
}

// errorMessages flattens an error into the per-row message list, expanding
// multierr groups and validation detail lists.
func errorMessages(err error) []string {
	if err == nil {
		return nil
	}
	if typed := apperrors.As(err); typed != nil {
		if details, ok := typed.Details().([]string); ok && len(details) > 0 {
			return details
		}
		return []string{typed.Message()}
	}
	grouped := multierr.Errors(err)
	msgs := make([]string, 0, len(grouped))
	for _, e := range grouped {
		msgs = append(msgs, e.Error())
	}
	return msgs
}

// stripBOM removes a UTF-8 BOM so the first header cell matches cleanly.
func stripBOM(r io.Reader) io.Reader {
	buffered := bufio.NewReader(r)
	leading, err := buffered.Peek(3)
	if err == nil && leading[0] == 0xEF && leading[1] == 0xBB && leading[2] == 0xBF {
		_, _ = buffered.Discard(3)
	}
	return buffered
}
