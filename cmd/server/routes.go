package main

import (
	"drone-tracking/internal/middleware"
)

func (a *AppContext) setupRoutes() {
	r := a.Router

	// ── Global Middleware (outermost → innermost) ──
	r.Use(middleware.Logger())   // 1. Request logging
	r.Use(middleware.Recovery()) // 2. Panic recovery
	r.Use(middleware.CircuitBreaker(
		a.Config.CircuitBreaker.FailureThreshold,
		a.Config.CircuitBreaker.CooldownSeconds)) // 3. Trip on 5xx bursts
	r.Use(middleware.RateLimit(a.RateLimiter))                       // 4. Per-IP rate limiting
	r.Use(middleware.Auth(a.Verifier, a.AuthClient, a.TokenCache)) // 5. Bearer auth (skips /health, /ws)

	// ── Health (no auth) ──
	r.GET("/health", a.healthCheck)

	// ── Live position feed (no auth, read-only) ──
	r.GET("/ws/tracking/:order_id", a.WSHandler.Tracking)

	// ── Tracking reads (any authenticated role) ──
	r.GET("/tracking/history/:order_id", a.TrackingHandler.GetHistory)
	r.GET("/tracking/latest/:order_id", a.TrackingHandler.GetLatest)
	r.GET("/route/:order_id", a.TrackingHandler.GetRoute)

	// ── Fleet / drone reads ──
	r.GET("/drones/:drone_id/status-history", a.FleetHandler.StatusHistory)
	r.GET("/fleet/summary", a.FleetHandler.StatusSummary)
	r.GET("/gps/accuracy/:drone_id", a.GPSHandler.GetAccuracy)
	r.GET("/performance/:drone_id", a.PerformanceHandler.GetPerformance)
	r.GET("/battery/:drone_id/health", a.BatteryHandler.GetHealth)
	r.GET("/maintenance/:id", a.MaintenanceHandler.History)
	r.GET("/alerts/:id", a.AlertHandler.ListDroneAlerts)

	// ── Telemetry ingestion (role: system) ──
	// High-frequency stream: its own bulkhead pool, no idempotency keys.
	telemetry := r.Group("")
	telemetry.Use(middleware.RoleGuard("system"))
	telemetry.Use(middleware.Bulkhead(a.Config.Bulkhead.TelemetryPool))
	{
		telemetry.POST("/tracking/update/:order_id", a.TrackingHandler.UpdatePosition)
		telemetry.POST("/gps/log", a.GPSHandler.LogAccuracy)
		telemetry.POST("/battery/log", a.BatteryHandler.LogReading)
		telemetry.POST("/performance/:drone_id/update", a.PerformanceHandler.UpdatePerformance)
	}

	// ── Delivery mutations (roles: admin, restaurant) ──
	mutations := r.Group("")
	mutations.Use(middleware.RoleGuard("admin", "restaurant"))
	mutations.Use(middleware.Bulkhead(a.Config.Bulkhead.MutationPool))
	mutations.Use(middleware.Idempotency(a.IdempotencyStore))
	{
		mutations.POST("/tracking/start/:order_id", a.TrackingHandler.StartTracking)
		mutations.POST("/drones/:drone_id/status", a.FleetHandler.ChangeStatus)
		mutations.POST("/simulation/start/:order_id", a.SimHandler.StartSimulation)
		mutations.DELETE("/simulation/stop/:order_id", a.SimHandler.StopSimulation)
	}

	// ── Admin Routes (role: admin) ──
	adminGroup := r.Group("")
	adminGroup.Use(middleware.RoleGuard("admin"))
	adminGroup.Use(middleware.Bulkhead(a.Config.Bulkhead.AdminPool))
	{
		adminGroup.GET("/alerts", a.AlertHandler.ListAlerts)
		adminGroup.PUT("/alerts/:id/resolve", a.AlertHandler.ResolveAlert)
		adminGroup.POST("/maintenance", a.MaintenanceHandler.Schedule)
		adminGroup.PUT("/maintenance/:id/complete", a.MaintenanceHandler.Complete)
	}
}
