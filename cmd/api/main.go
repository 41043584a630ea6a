package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crewops/ops-portal-go/internal/config"
	appHTTP "github.com/crewops/ops-portal-go/internal/handler/http"
	"github.com/crewops/ops-portal-go/internal/pkg/cron"
	"github.com/crewops/ops-portal-go/internal/pkg/database"
	"github.com/crewops/ops-portal-go/internal/pkg/jwt"
	"github.com/crewops/ops-portal-go/internal/repository/postgresql"
	attendanceService "github.com/crewops/ops-portal-go/internal/service/attendance"
	authService "github.com/crewops/ops-portal-go/internal/service/auth"
	leaveService "github.com/crewops/ops-portal-go/internal/service/leave"
	notificationService "github.com/crewops/ops-portal-go/internal/service/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	dispatcher := notificationService.NewDispatcher(notificationRepo, notificationService.Config{})
	defer dispatcher.Stop()

	authSvc := authService.NewAuthService(userRepo, jwtService)
	sessionSvc := attendanceService.NewSessionService(db, sessionRepo, userRepo, dispatcher)
	leaveSvc := leaveService.NewLeaveService(db, leaveRequestRepo, leaveBalanceRepo, holidayRepo, userRepo, dispatcher)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(sessionSvc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	authHandler := appHTTP.NewAuthHandler(authSvc, jwtService)
	attendanceHandler := appHTTP.NewAttendanceHandler(sessionSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	notificationHandler := appHTTP.NewNotificationHandler(notificationRepo)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AppName:        cfg.App.Name,
			AppVersion:     cfg.App.Version,
			AppEnv:         cfg.App.Env,
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
		jwtService,
		authHandler,
		attendanceHandler,
		leaveHandler,
		notificationHandler,
	)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
}
