package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/evjoints/admin-backend/api/responses"
	pkgauth "github.com/evjoints/admin-backend/pkg/auth"
	"github.com/evjoints/admin-backend/pkg/config"
	pkgerrors "github.com/evjoints/admin-backend/pkg/errors"
	"github.com/evjoints/admin-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the vendor
// identity from the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.VendorID <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token"))
				return
			}

			ctx := WithVendor(r.Context(), claims.VendorID, claims.Mobile)
			if logg != nil {
				ctx = logg.WithVendorID(ctx, fmt.Sprintf("%d", claims.VendorID))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
