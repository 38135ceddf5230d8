package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/config"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	app config.AppConfig,
	JWTService jwt.Service,
	timeRecordHandler TimeRecordHandler,
	leaveHandler LeaveHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(app.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", app.Name),
		slog.String("version", "v1.0.0"),
		slog.String("env", app.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	if app.RateLimitPerMinute > 0 {
		r.Use(httprate.LimitByIP(app.RateLimitPerMinute, time.Minute))
	}

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)
		r.Use(middleware.RequireCompany)

		r.Route("/time-records", func(r chi.Router) {
			r.With(middleware.RequirePermission(user.PermissionTimeRecordCreate)).Post("/", timeRecordHandler.Create)
			r.With(middleware.RequirePermission(user.PermissionTimeRecordDelete)).Delete("/", timeRecordHandler.DeleteBulk)

			r.Route("/{id}", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionTimeRecordCorrect)).Put("/", timeRecordHandler.Update)
				r.With(middleware.RequirePermission(user.PermissionTimeRecordValidate)).Post("/validate", timeRecordHandler.Validate)
			})
		})

		r.With(middleware.RequirePermission(user.PermissionLeaveBalanceView)).
			Get("/employees/{id}/leave-balance", leaveHandler.GetBalance)
		r.With(middleware.RequirePermission(user.PermissionLeaveCertificate)).
			Get("/leave-requests/{id}/certificate", leaveHandler.GetCertificateEligibility)

		r.Route("/reports", func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionReportsView))
			r.Get("/period", reportHandler.GetPeriodReport)
			r.Get("/period/export", reportHandler.ExportPeriodReport)
			r.Get("/leave-balance", reportHandler.GetLeaveBalanceReport)
		})
	})
	return r
}
