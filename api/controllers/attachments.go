package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/evjoints/admin-backend/api/responses"
	"github.com/evjoints/admin-backend/internal/attachments"
	pkgerrors "github.com/evjoints/admin-backend/pkg/errors"
	"github.com/evjoints/admin-backend/pkg/logger"
)

// AttachmentDownload streams a stored station photo.
func AttachmentDownload(service *attachments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "id")
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "attachment id must be a positive integer"))
			return
		}

		info, err := service.Resolve(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", info.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", info.Name))
		http.ServeFile(w, r, info.Path)
	}
}
