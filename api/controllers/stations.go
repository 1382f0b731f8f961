package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/evjoints/admin-backend/api/responses"
	"github.com/evjoints/admin-backend/api/validators"
	"github.com/evjoints/admin-backend/internal/stations"
	pkgerrors "github.com/evjoints/admin-backend/pkg/errors"
	"github.com/evjoints/admin-backend/pkg/export"
	"github.com/evjoints/admin-backend/pkg/logger"
)

// stationFilters reads the shared station filter bag from the query string.
func stationFilters(r *http.Request, view stations.View) (stations.ListFilters, error) {
	networkID, err := validators.ParseQueryInt64Ptr(r, "networkId")
	if err != nil {
		return stations.ListFilters{}, err
	}
	chargerTypeID, err := validators.ParseQueryInt64Ptr(r, "chargerTypeId")
	if err != nil {
		return stations.ListFilters{}, err
	}

	q := r.URL.Query()
	return stations.ListFilters{
		View:          view,
		Status:        q.Get("status"),
		UsageType:     q.Get("usageType"),
		NetworkID:     networkID,
		AddedBy:       q.Get("addedBy"),
		ChargerTypeID: chargerTypeID,
		StationType:   q.Get("stationType"),
		StartDate:     q.Get("startDate"),
		EndDate:       q.Get("endDate"),
		Search:        q.Get("search"),
	}, nil
}

func stationSort(r *http.Request) stations.SortParams {
	return stations.SortParams{
		By:        r.URL.Query().Get("sortBy"),
		Direction: r.URL.Query().Get("sortDir"),
	}
}

// stationList serves both the review and directory listings; only the view
// differs.
func stationList(service *stations.Service, logg *logger.Logger, view stations.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := stationFilters(r, view)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := service.List(r.Context(), filters, stationSort(r), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteRaw(w, http.StatusOK, result)
	}
}

func stationDownload(service *stations.Service, logg *logger.Logger, view stations.View, filePrefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := stationFilters(r, view)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filename := fmt.Sprintf("%s_%s.csv", filePrefix, time.Now().UTC().Format("20060102_150405"))
		export.SetDownloadHeaders(w, filename)
		if err := service.Export(r.Context(), filters, stationSort(r), w); err != nil {
			// Headers are already out; log instead of writing a second response.
			if logg != nil {
				logg.Error(r.Context(), "station export failed", err)
			}
		}
	}
}

// StationReviewList is the admin review listing with approval-state filtering.
func StationReviewList(service *stations.Service, logg *logger.Logger) http.HandlerFunc {
	return stationList(service, logg, stations.ViewReview)
}

// StationReviewDownload streams the filtered review listing as CSV.
func StationReviewDownload(service *stations.Service, logg *logger.Logger) http.HandlerFunc {
	return stationDownload(service, logg, stations.ViewReview, "stations_review")
}

// StationAction applies one review or lifecycle action to a station.
func StationAction(service *stations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := stationID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req stations.UpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := service.Update(r.Context(), id, req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "action": req.Action})
	}
}

// DirectoryList is the approved-stations directory listing.
func DirectoryList(service *stations.Service, logg *logger.Logger) http.HandlerFunc {
	return stationList(service, logg, stations.ViewDirectory)
}

// DirectoryDownload streams the filtered directory as CSV.
func DirectoryDownload(service *stations.Service, logg *logger.Logger) http.HandlerFunc {
	return stationDownload(service, logg, stations.ViewDirectory, "charging_stations")
}

// StationCreate registers a new station, which enters review as pending.
func StationCreate(service *stations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req stations.CreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := service.Create(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"id": id})
	}
}

// StationMassUpload ingests a CSV of stations, one transaction per row.
func StationMassUpload(service *stations.Service, logg *logger.Logger, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, `a "file" form field is required`))
			return
		}
		defer file.Close()

		if name := strings.ToLower(header.Filename); !strings.HasSuffix(name, ".csv") {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "only .csv uploads are supported"))
			return
		}

		result, err := service.MassUpload(r.Context(), file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func stationID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "station id must be a positive integer")
	}
	return id, nil
}
