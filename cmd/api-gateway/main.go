package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	_ "github.com/noah-isme/mentor-scheduling-api/api/swagger"
	"github.com/noah-isme/mentor-scheduling-api/internal/backend"
	"github.com/noah-isme/mentor-scheduling-api/internal/handler"
	"github.com/noah-isme/mentor-scheduling-api/internal/repository"
	"github.com/noah-isme/mentor-scheduling-api/internal/service"
	"github.com/noah-isme/mentor-scheduling-api/pkg/cache"
	"github.com/noah-isme/mentor-scheduling-api/pkg/config"
	"github.com/noah-isme/mentor-scheduling-api/pkg/database"
	"github.com/noah-isme/mentor-scheduling-api/pkg/lock"
	"github.com/noah-isme/mentor-scheduling-api/pkg/logger"
	"github.com/noah-isme/mentor-scheduling-api/pkg/scheduling"
	"github.com/noah-isme/mentor-scheduling-api/pkg/tracing"
)

// @title Mentor Scheduling API
// @version 1.0
// @description Mentor availability, calendar and session booking gateway.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		logr.Fatal("failed to init tracing", zap.Error(err))
	}

	deps := connect(ctx, cfg, logr)
	defer deps.close(logr)

	metrics := service.NewMetricsService()
	validate := service.NewValidator()

	client := backend.NewClient(cfg.Backend, logr, backend.WithObserver(metrics.ObserveUpstream))
	guard := scheduling.NewGuard(scheduling.SystemClock{}, cfg.Scheduling.Location, cfg.Scheduling.FixedClosureQuota)

	var (
		cacheSvc *service.CacheService
		locker   lock.Locker
	)
	if deps.redis != nil {
		cacheSvc = service.NewCacheService(repository.NewCacheRepository(deps.redis, logr), metrics, cfg.Cache.PolicyTTL, logr, cfg.Cache.Enabled)
		locker = lock.NewRedisLocker(deps.redis, "mentor:lock")
	} else {
		cacheSvc = service.NewCacheService(nil, metrics, cfg.Cache.PolicyTTL, logr, false)
		locker = lock.NewLocalLocker()
	}

	var auditSvc *service.AuditService
	if deps.db != nil {
		auditSvc = service.NewAuditService(repository.NewAuditRepository(deps.db), metrics, validate, logr)
	} else {
		auditSvc = service.NewAuditService(nil, metrics, validate, logr)
	}

	notifier := service.NewNotificationService(client, cfg.Notifications, metrics, logr)
	notifier.Start(ctx)
	defer notifier.Stop()

	availability := service.NewAvailabilityService(client, cacheSvc, locker, guard, auditSvc, metrics, validate, logr, service.AvailabilityConfig{
		PolicyTTL: cfg.Cache.PolicyTTL,
		LockTTL:   cfg.Cache.LockTTL,
	})
	if err := availability.FlushPolicies(ctx); err != nil {
		logr.Warn("policy cache flush failed", zap.Error(err))
	}
	calendar := service.NewCalendarService(availability, guard, validate, logr)
	slots := service.NewSlotService(availability, client, guard, scheduling.SystemClock{}, validate, logr, service.SlotConfig{
		Step:            cfg.Scheduling.SlotStep,
		LeadTime:        cfg.Scheduling.LeadTime,
		DefaultDuration: cfg.Scheduling.DefaultDuration,
	})

	handlers := routeHandlers{
		availability: handler.NewAvailabilityHandler(availability),
		calendar:     handler.NewCalendarHandler(calendar, service.NewExportService(calendar, validate, logr)),
		slots:        handler.NewSlotHandler(slots),
		sessions:     handler.NewSessionHandler(service.NewSessionService(client, slots, notifier, validate, logr)),
		audit:        handler.NewAuditHandler(auditSvc),
		schedule:     handler.NewScheduleHandler(service.NewScheduleService(logr)),
		metrics:      handler.NewMetricsHandler(metrics, deps.checks(), notifier),
	}
	auth := service.NewAuthService(logr, service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           otelhttp.NewHandler(newRouter(cfg, logr, auth, metrics, handlers), cfg.Tracing.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("http shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logr.Warn("tracing shutdown", zap.Error(err))
	}
}

type dependencies struct {
	redis *redis.Client
	db    *sqlx.DB
}

// connect opens the optional stores. Redis backs the policy cache and the
// mutation lock; Postgres backs the audit trail. Either may be absent.
func connect(ctx context.Context, cfg *config.Config, logr *zap.Logger) dependencies {
	var deps dependencies

	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, using in-process lock without cache", zap.Error(err))
		} else {
			deps.redis = client
		}
	}

	if cfg.Audit.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Warn("postgres unavailable, audit entries will only be logged", zap.Error(err))
			return deps
		}
		if err := database.Migrate(ctx, db); err != nil {
			logr.Warn("audit migration failed", zap.Error(err))
			_ = db.Close()
			return deps
		}
		deps.db = db
	}
	return deps
}

func (d dependencies) checks() map[string]handler.ReadinessCheck {
	checks := map[string]handler.ReadinessCheck{}
	if d.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return d.redis.Ping(ctx).Err() }
	}
	if d.db != nil {
		checks["postgres"] = func(ctx context.Context) error { return d.db.PingContext(ctx) }
	}
	return checks
}

func (d dependencies) close(logr *zap.Logger) {
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			logr.Warn("close redis", zap.Error(err))
		}
	}
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			logr.Warn("close postgres", zap.Error(err))
		}
	}
}
