package main

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/config"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/handler"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/health"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/infra/profile"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/infra/repository"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/infra/schedulerecorder"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/observability/logging"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/observability/metrics"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/observability/middleware"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/service/dispatch"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/service/schedule"
)

// Version is set via ldflags at build time
var Version = "dev"

const module = logging.Module("reminder-scheduling")

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	envFileErr := config.LoadEnvFile()

	obs, err := initObservability(ctx)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	if envFileErr != nil {
		slog.Warn("failed to read env file", slog.String("error", envFileErr.Error()))
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	if err := cfg.TaskQueue.Validate(); err != nil {
		slog.Error("task queue configuration error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	reminderMetrics, err := metrics.NewReminderMetrics()
	if err != nil {
		slog.Error("failed to initialize reminder metrics", slog.String("error", err.Error()))
		return 1
	}

	// InfluxDB for local, BigQuery for gcloud
	resultRecorder, err := schedulerecorder.NewRecorder(ctx, schedulerecorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize schedule result recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := resultRecorder.Flush(flushCtx); err != nil {
			slog.Warn("failed to flush schedule result recorder", slog.String("error", err.Error()))
		}
		if err := resultRecorder.Close(); err != nil {
			slog.Warn("failed to close schedule result recorder", slog.String("error", err.Error()))
		}
	}()

	taskQueue, cleanup, err := initTaskQueue(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize task queue", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("task queue cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	var (
		redisClient *redis.Client
		scheduler   domain.NotificationScheduler
		dueStore    dispatch.DueReminderStore
		lister      handler.ScheduledReminderLister
	)

	switch cfg.Schedule.SchedulerMode {
	case config.SchedulerModeRedis:
		redisClient, err = connectRedis(ctx, cfg.Redis)
		if err != nil {
			return 1
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Warn("failed to close redis client", slog.String("error", err.Error()))
			}
		}()

		reminderRepo := repository.NewReminderRepository(redisClient)
		scheduler = reminderRepo
		dueStore = reminderRepo
		lister = reminderRepo
	default:
		slog.Warn("notification scheduler disabled, scheduling calls are no-ops")
		scheduler = repository.NewUnavailableScheduler()
	}

	var profileRepo profile.Repository
	if cfg.ProfileStoreURL != "" {
		profileRepo = profile.NewClient(cfg.ProfileStoreURL)
	} else {
		slog.Warn("PROFILE_STORE_URL not set, resync disabled")
	}

	dispatchService := dispatch.NewService(dueStore, taskQueue, resultRecorder, reminderMetrics, dispatch.Options{
		Lookahead:     cfg.Dispatch.Lookahead,
		BatchSize:     cfg.Dispatch.BatchSize,
		RatePerSecond: cfg.Dispatch.RatePerSecond,
	})

	if dueStore != nil && taskQueue != nil {
		scheduler = dispatch.NewRevokingScheduler(scheduler, dispatchService)
	}

	scheduleService := schedule.NewService(scheduler, resultRecorder, reminderMetrics, schedule.Options{
		Location:     cfg.Schedule.Location,
		LegacyCancel: cfg.Schedule.LegacyCancel,
	})

	if cfg.Dispatch.Schedule != "" && dueStore != nil && taskQueue != nil {
		runner := dispatch.NewRunner(dispatchService, 0)
		if err := runner.Schedule(ctx, cfg.Dispatch.Schedule); err != nil {
			slog.Error("failed to schedule dispatcher", slog.String("error", err.Error()))
			return 1
		}
		runner.Start()
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer stopCancel()
			runner.Stop(stopCtx)
		}()

		slog.Info("dispatcher scheduled", slog.String("schedule", cfg.Dispatch.Schedule))
	}

	reminderHandler := handler.NewReminderHandler(scheduleService, profileRepo, lister)
	dispatchHandler := handler.NewDispatchHandler(dispatchService)

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		Module:      module,
		TracerName:  "github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecker := health.NewChecker(Version, health.WithRedis(redisClient))
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	v1 := r.Group("/api/v1")
	{
		reminderHandler.Register(v1)
		v1.POST("/dispatch", dispatchHandler.HandleDispatch)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("timezone", cfg.Schedule.Location.String()),
			slog.String("scheduler", string(cfg.Schedule.SchedulerMode)),
			slog.Bool("legacy_cancel", cfg.Schedule.LegacyCancel),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

func connectRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)

	if err := redisotel.InstrumentTracing(client); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if err := redisotel.InstrumentMetrics(client); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		_ = client.Close()
		return nil, err
	}

	slog.Info("redis connected",
		slog.String("addr", cfg.Addr),
	)

	return client, nil
}
