package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/evjoints/admin-backend/api/responses"
	pkgerrors "github.com/evjoints/admin-backend/pkg/errors"
	"github.com/evjoints/admin-backend/pkg/logger"
)

type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// OTPRateLimitPolicy throttles OTP dispatch per client IP and per mobile
// number, so one number cannot be flooded with codes.
type OTPRateLimitPolicy struct {
	Name        string
	Window      time.Duration
	IPLimit     int64
	MobileLimit int64
}

func (p OTPRateLimitPolicy) enabled() bool {
	return p.Window > 0 && (p.IPLimit > 0 || p.MobileLimit > 0)
}

// OTPRateLimit enforces the policy before the OTP handlers run.
func OTPRateLimit(policy OTPRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.IPLimit > 0 {
				scope := fmt.Sprintf("%s:ip:%s", policy.Name, clientIP(r))
				allowed, _, err := store.FixedWindowAllow(ctx, scope, policy.IPLimit, policy.Window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if !allowed {
					rejectRateLimited(ctx, logg, w, policy)
					return
				}
			}

			if policy.MobileLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if mobile := mobileFromBody(body); mobile != "" {
					scope := fmt.Sprintf("%s:mobile:%s", policy.Name, mobile)
					allowed, _, err := store.FixedWindowAllow(ctx, scope, policy.MobileLimit, policy.Window)
					if err != nil {
						responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					}
					if !allowed {
						rejectRateLimited(ctx, logg, w, policy)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rejectRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy OTPRateLimitPolicy) {
	if logg != nil {
		logg.Warn(logg.WithField(ctx, "policy", policy.Name), "otp rate limit exceeded")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many OTP requests, try again later"))
}

func mobileFromBody(body []byte) string {
	var payload struct {
		Mobile string `json:"mobile"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Mobile)
}

func clientIP(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		parts := strings.Split(fwd, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
