package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/evjoints/admin-backend/api/responses"
	"github.com/evjoints/admin-backend/internal/networks"
	pkgerrors "github.com/evjoints/admin-backend/pkg/errors"
	"github.com/evjoints/admin-backend/pkg/logger"
)

// NetworkList returns the active and inactive network partitions.
func NetworkList(service *networks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := service.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// NetworkDelete removes an inactive network row.
func NetworkDelete(service *networks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "id")
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "network id must be a positive integer"))
			return
		}

		if err := service.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "deleted": true})
	}
}
