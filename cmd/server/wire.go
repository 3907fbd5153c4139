package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"

	"drone-tracking/config"
	"drone-tracking/internal/alert"
	"drone-tracking/internal/battery"
	"drone-tracking/internal/client"
	"drone-tracking/internal/fleet"
	"drone-tracking/internal/gps"
	"drone-tracking/internal/jwt"
	"drone-tracking/internal/maintenance"
	"drone-tracking/internal/performance"
	"drone-tracking/internal/redis"
	"drone-tracking/internal/repo/postgres"
	"drone-tracking/internal/sim"
	"drone-tracking/internal/tracking"
	"drone-tracking/internal/ws"
)

type AppContext struct {
	DB     *sqlx.DB
	Config *config.Config
	Redis  *goredis.Client
	Router *gin.Engine

	// Infrastructure
	Verifier         *jwt.Verifier
	AuthClient       *client.AuthClient
	OrderClient      *client.OrderClient
	PositionCache    *redis.PositionCache
	TokenCache       *redis.TokenCache
	IdempotencyStore *redis.IdempotencyStore
	RateLimiter      *redis.RateLimiter
	Hub              *ws.Hub
	SimManager       *sim.Manager

	TrackingHandler    *tracking.Handler
	WSHandler          *ws.Handler
	SimHandler         *sim.Handler
	GPSHandler         *gps.Handler
	FleetHandler       *fleet.Handler
	MaintenanceHandler *maintenance.Handler
	PerformanceHandler *performance.Handler
	BatteryHandler     *battery.Handler
	AlertHandler       *alert.Handler

	TrackingService    tracking.Service
	FleetService       fleet.Service
	MaintenanceService maintenance.Service
	PerformanceService performance.Service
	BatteryService     battery.Service
	AlertService       alert.Service
	GPSService         gps.Service
}

func wireApp(cfg *config.Config) (*AppContext, error) {
	// ── Postgres ──
	db, err := postgres.Connect(cfg.Postgres.DSN(), postgres.DefaultPoolConfig())
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	if err := postgres.RunMigrationsUp(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	// ── Redis ──
	var rdb *goredis.Client
	if cfg.Redis.URL != "" {
		opts, err := goredis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("redis parse url: %w", err)
		}
		rdb = goredis.NewClient(opts)
	} else {
		rdb = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	// ── Infrastructure ──
	verifier := jwt.NewVerifier(cfg.JWT.Secret)
	authClient := client.NewAuthClient(cfg.Services.UserServiceURL, cfg.Services.RequestTimeout)
	orderClient := client.NewOrderClient(cfg.Services.OrderServiceURL, cfg.Services.RequestTimeout)
	positionCache := redis.NewPositionCache(rdb, cfg.Cache.PositionTTLSec)
	tokenCache := redis.NewTokenCache(rdb, cfg.Cache.TokenTTLSec)
	idempotencyStore := redis.NewIdempotencyStore(rdb, cfg.Cache.IdempotencyTTLSec)
	rateLimiter := redis.NewRateLimiter(rdb, cfg.RateLimiter.MaxRequests, cfg.RateLimiter.WindowSeconds)
	hub := ws.NewHub()

	// ── Repositories ──
	trackingRepo := tracking.NewRepository()
	gpsRepo := gps.NewRepository()
	alertRepo := alert.NewRepository()
	performanceRepo := performance.NewRepository()
	fleetRepo := fleet.NewRepository(db)
	maintenanceRepo := maintenance.NewRepository(db)
	batteryRepo := battery.NewRepository(db)

	// ── Services ──
	trackingService := tracking.NewService(trackingRepo, db, orderClient, positionCache, hub, tracking.PlanConfig{
		NumPoints:   cfg.Plan.NumPoints,
		TripSeconds: cfg.Plan.TripSeconds,
	})
	gpsService := gps.NewService(gpsRepo, db)
	alertService := alert.NewService(alertRepo, db)
	performanceService := performance.NewService(performanceRepo, db)
	fleetService := fleet.NewService(fleetRepo, db, orderClient, performanceService, alertService)
	maintenanceService := maintenance.NewService(maintenanceRepo, fleetService)
	batteryService := battery.NewService(batteryRepo, alertService)

	simManager := sim.NewManager(trackingService, hub, alertService, sim.Config{
		StepInterval:     cfg.Sim.StepInterval,
		BatteryStart:     cfg.Sim.BatteryStart,
		BatteryStepDrain: cfg.Sim.BatteryStepDrain,
		BatteryFloor:     cfg.Sim.BatteryFloor,
	})

	return &AppContext{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Router: gin.New(),

		Verifier:         verifier,
		AuthClient:       authClient,
		OrderClient:      orderClient,
		PositionCache:    positionCache,
		TokenCache:       tokenCache,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      rateLimiter,
		Hub:              hub,
		SimManager:       simManager,

		TrackingService:    trackingService,
		GPSService:         gpsService,
		AlertService:       alertService,
		PerformanceService: performanceService,
		FleetService:       fleetService,
		MaintenanceService: maintenanceService,
		BatteryService:     batteryService,

		TrackingHandler:    tracking.NewHandler(trackingService),
		WSHandler:          ws.NewHandler(hub),
		SimHandler:         sim.NewHandler(simManager),
		GPSHandler:         gps.NewHandler(gpsService),
		FleetHandler:       fleet.NewHandler(fleetService),
		MaintenanceHandler: maintenance.NewHandler(maintenanceService),
		PerformanceHandler: performance.NewHandler(performanceService),
		BatteryHandler:     battery.NewHandler(batteryService),
		AlertHandler:       alert.NewHandler(alertService),
	}, nil
}

// Close stops the simulator first so in-flight runs finish persisting
// before the stores go away.
func (a *AppContext) Close() {
	a.SimManager.Close()
	a.DB.Close()
	a.Redis.Close()
}

func (a *AppContext) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()
	checks := map[string]string{}
	healthy := true

	if err := a.DB.PingContext(ctx); err != nil {
		checks["postgres"] = err.Error()
		healthy = false
	} else {
		checks["postgres"] = "ok"
	}

	if err := a.Redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status": checks,
		"pool":   postgres.GetPoolMetrics(a.DB),
	})
}
