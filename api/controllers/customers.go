package controllers

import (
	"net/http"

	"github.com/evjoints/admin-backend/api/responses"
	"github.com/evjoints/admin-backend/api/validators"
	"github.com/evjoints/admin-backend/internal/customers"
	"github.com/evjoints/admin-backend/pkg/logger"
)

// CustomerList is the aggregated customer listing with search and pagination.
func CustomerList(service *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := service.List(r.Context(), r.URL.Query().Get("search"), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteRaw(w, http.StatusOK, result)
	}
}
