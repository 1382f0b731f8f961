package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evjoints/admin-backend/api/controllers"
	"github.com/evjoints/admin-backend/api/middleware"
	"github.com/evjoints/admin-backend/internal/attachments"
	"github.com/evjoints/admin-backend/internal/auth"
	"github.com/evjoints/admin-backend/internal/customers"
	"github.com/evjoints/admin-backend/internal/networks"
	"github.com/evjoints/admin-backend/internal/stations"
	"github.com/evjoints/admin-backend/internal/trips"
	"github.com/evjoints/admin-backend/pkg/config"
	"github.com/evjoints/admin-backend/pkg/logger"
	"github.com/evjoints/admin-backend/pkg/metrics"
	"github.com/evjoints/admin-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config *config.Config
	Logger *logger.Logger

	DB    controllers.Pinger
	Redis *redis.Client

	AuthService        *auth.Service
	StationService     *stations.Service
	NetworkService     *networks.Service
	CustomerService    *customers.Service
	TripService        *trips.Service
	AttachmentService  *attachments.Service

	HTTPMetrics     *metrics.HTTPMetrics
	MetricsGatherer prometheus.Gatherer

	OTPRateLimit middleware.OTPRateLimitPolicy
}

// NewRouter wires the admin API under /api/admin/v1.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": p.DB,
			"redis":    p.Redis,
		}))
	})

	if p.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		otpGuard := middleware.OTPRateLimit(p.OTPRateLimit, p.Redis, logg)
		r.With(otpGuard).Post("/vendor/login", controllers.VendorLogin(p.AuthService, logg))
		r.With(otpGuard).Post("/resend-otp", controllers.ResendOTP(p.AuthService, logg))
		r.Post("/verify-otp", controllers.VerifyOTP(p.AuthService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/stations", func(r chi.Router) {
			r.Get("/", controllers.StationReviewList(p.StationService, logg))
			r.Get("/download", controllers.StationReviewDownload(p.StationService, logg))
			r.Put("/{id}", controllers.StationAction(p.StationService, logg))
		})

		r.Route("/charging-stations", func(r chi.Router) {
			r.Get("/", controllers.DirectoryList(p.StationService, logg))
			r.Get("/download", controllers.DirectoryDownload(p.StationService, logg))
			r.Post("/", controllers.StationCreate(p.StationService, logg))
			r.Post("/mass-upload", controllers.StationMassUpload(p.StationService, logg, cfg.Uploads.MaxBytes))
		})

		r.Route("/networks", func(r chi.Router) {
			r.Get("/", controllers.NetworkList(p.NetworkService, logg))
			r.Delete("/{id}", controllers.NetworkDelete(p.NetworkService, logg))
		})

		r.Get("/customers", controllers.CustomerList(p.CustomerService, logg))

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", controllers.TripList(p.TripService, logg))
			r.Get("/download", controllers.TripDownload(p.TripService, logg))
			r.Put("/story/{id}", controllers.TripStoryAction(p.TripService, logg))
		})

		r.Get("/attachments/{id}", controllers.AttachmentDownload(p.AttachmentService, logg))
	})

	return r
}
