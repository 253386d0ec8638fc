package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-performance-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-performance-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-performance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-performance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-performance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-performance-go/internal/pkg/retry"
	"github.com/cmlabs-hris/hris-performance-go/internal/repository/postgresql"
	performanceService "github.com/cmlabs-hris/hris-performance-go/internal/service/performance"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With(slog.String("app", "hris-performance"), slog.String("env", cfg.App.Env)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poolCfg := database.DefaultPoolConfig()
	poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	if poolCfg.MinConns > poolCfg.MaxConns {
		poolCfg.MinConns = poolCfg.MaxConns
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), poolCfg)
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.RunMigrations {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("error running migrations: %w", err)
		}
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	pointLogRepo := postgresql.NewPointLogRepository(db)
	workReportRepo := postgresql.NewWorkReportRepository(db)
	claimRepo := postgresql.NewClaimRepository(db)
	snapshotRepo := postgresql.NewSnapshotRepository(db)

	performanceSvc := performanceService.NewPerformanceService(
		employeeRepo,
		holidayRepo,
		attendanceRepo,
		leaveRequestRepo,
		pointLogRepo,
		workReportRepo,
		claimRepo,
		snapshotRepo,
		performanceService.Options{
			Workers: cfg.Performance.Workers,
			Retry: retry.Policy{
				Attempts:        cfg.Performance.RetryAttempts,
				InitialInterval: cfg.Performance.RetryBackoff,
				Timeout:         cfg.Performance.StoreTimeout,
			},
			Now: time.Now,
		},
	)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	performanceHandler := appHTTP.NewPerformanceHandler(performanceSvc)

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		Env:            cfg.App.Env,
		Version:        version,
		LogLevel:       cfg.SlogLevel(),
	}, JWTService, performanceHandler)

	scheduler := cron.NewScheduler(ctx)
	if cfg.Performance.CronEnabled {
		performanceJobs := cron.NewPerformanceJobs(
			employeeRepo,
			performanceSvc,
			cfg.Performance.CronDay,
			cfg.Performance.CronHour,
			time.Hour,
			retry.Policy{
				Attempts:        cfg.Performance.RetryAttempts,
				InitialInterval: cfg.Performance.RetryBackoff,
				Timeout:         cfg.Performance.StoreTimeout,
			},
		)
		performanceJobs.RegisterJobs(scheduler)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
