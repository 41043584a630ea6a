package http

import (
	"log/slog"
	"os"

	"github.com/crewops/ops-portal-go/internal/handler/http/middleware"
	"github.com/crewops/ops-portal-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AppName        string
	AppVersion     string
	AppEnv         string
	AllowedOrigins []string
}

func NewRouter(
	cfg RouterConfig,
	jwtService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	notificationHandler NotificationHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.AppVersion),
		slog.String("env", cfg.AppEnv),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/sessions", attendanceHandler.GetMySessions)
				r.Get("/sessions/{id}", attendanceHandler.GetSession)
				r.Post("/sessions/{id}/location", attendanceHandler.RecordLocation)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Patch("/sessions/{id}", attendanceHandler.UpdateSession)
					r.Post("/sweep", attendanceHandler.RunSweep)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Post("/requests", leaveHandler.CreateRequest)
				r.Get("/requests", leaveHandler.GetMyRequests)
				r.Get("/requests/{id}", leaveHandler.GetRequest)
				r.Put("/requests/{id}", leaveHandler.UpdateRequest)
				r.Post("/requests/{id}/cancel", leaveHandler.CancelRequest)
				r.Get("/balances", leaveHandler.GetMyBalances)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/requests/review", leaveHandler.ListRequestsForReview)
					r.Post("/requests/{id}/approve", leaveHandler.ApproveRequest)
					r.Post("/requests/{id}/reject", leaveHandler.RejectRequest)
					r.Post("/requests/{id}/unapprove", leaveHandler.UnapproveRequest)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/unread-count", notificationHandler.UnreadCount)
				r.Post("/mark-read", notificationHandler.MarkRead)
				r.Post("/mark-all-read", notificationHandler.MarkAllRead)
			})
		})
	})
	return r
}
