package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/evjoints/admin-backend/api/responses"
	"github.com/evjoints/admin-backend/api/validators"
	"github.com/evjoints/admin-backend/internal/trips"
	pkgerrors "github.com/evjoints/admin-backend/pkg/errors"
	"github.com/evjoints/admin-backend/pkg/export"
	"github.com/evjoints/admin-backend/pkg/logger"
)

func tripFilters(r *http.Request) (trips.ListFilters, error) {
	hasStory, err := validators.ParseQueryBoolPtr(r, "hasStory")
	if err != nil {
		return trips.ListFilters{}, err
	}

	q := r.URL.Query()
	return trips.ListFilters{
		Status:    q.Get("status"),
		HasStory:  hasStory,
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Search:    q.Get("search"),
	}, nil
}

// TripList returns one page of trips with stops, stations, and story state.
func TripList(service *trips.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := tripFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := service.List(r.Context(), filters, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteRaw(w, http.StatusOK, result)
	}
}

// TripDownload streams the filtered trip listing as CSV.
func TripDownload(service *trips.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := tripFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filename := fmt.Sprintf("trips_%s.csv", time.Now().UTC().Format("20060102_150405"))
		export.SetDownloadHeaders(w, filename)
		if err := service.Export(r.Context(), filters, w); err != nil {
			if logg != nil {
				logg.Error(r.Context(), "trip export failed", err)
			}
		}
	}
}

// TripStoryAction approves or rejects a submitted trip story.
func TripStoryAction(service *trips.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "id")
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "trip id must be a positive integer"))
			return
		}

		var req trips.StoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := service.UpdateStory(r.Context(), id, req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "action": req.Action})
	}
}
