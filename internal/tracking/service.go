package tracking

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/jmoiron/sqlx"

	"drone-tracking/internal/client"
	domainerrors "drone-tracking/internal/errors"
	"drone-tracking/internal/geo"
	"drone-tracking/internal/redis"
)

// Fallback endpoints used when the order payload carries no coordinates.
var (
	defaultStart = geo.NewPoint(10.762622, 106.660172)
	defaultEnd   = geo.NewPoint(10.775845, 106.701758)
)

// Broadcaster fans position events out to live subscribers of an order.
type Broadcaster interface {
	Publish(orderID int64, payload any)
}

type PlanConfig struct {
	NumPoints   int
	TripSeconds int
}

type StartResult struct {
	OrderID        int64 `json:"order_id"`
	DroneID        int64 `json:"drone_id"`
	TotalWaypoints int   `json:"total_waypoints"`
}

type RouteDetails struct {
	OrderID            int64      `json:"order_id"`
	DroneID            int64      `json:"drone_id"`
	Waypoints          []Waypoint `json:"waypoints"`
	TotalDistanceKM    float64    `json:"total_distance_km"`
	EstimatedTotalTime int        `json:"estimated_total_time"`
}

type PositionUpdate struct {
	Latitude     float64
	Longitude    float64
	Altitude     float64
	Speed        float64
	BatteryLevel *float64
	Status       *string
}

type Service interface {
	StartTracking(ctx context.Context, orderID int64, authorization string) (*StartResult, error)
	History(ctx context.Context, orderID int64) ([]PositionSample, error)
	Latest(ctx context.Context, orderID int64) (*PositionSample, error)
	Route(ctx context.Context, orderID int64) (*RouteDetails, error)
	UpdatePosition(ctx context.Context, orderID int64, upd PositionUpdate) (*PositionSample, error)

	// Used by the movement simulator.
	Waypoints(ctx context.Context, orderID int64) ([]Waypoint, error)
	RecordSample(ctx context.Context, s *PositionSample) error
}

type service struct {
	repo        Repository
	db          *sqlx.DB
	orders      *client.OrderClient
	cache       *redis.PositionCache
	broadcaster Broadcaster
	plan        PlanConfig
}

func NewService(repo Repository, db *sqlx.DB, orders *client.OrderClient, cache *redis.PositionCache, broadcaster Broadcaster, plan PlanConfig) Service {
	return &service{
		repo:        repo,
		db:          db,
		orders:      orders,
		cache:       cache,
		broadcaster: broadcaster,
		plan:        plan,
	}
}

// StartTracking plans the route for an order and persists the waypoints
// plus the initial "taking_off" sample as one transaction, so a partial
// waypoint list is never observable.
func (s *service) StartTracking(ctx context.Context, orderID int64, authorization string) (*StartResult, error) {
	order, err := s.orders.GetOrder(ctx, orderID, authorization)
	if err != nil {
		return nil, err
	}
	if order.DroneID == nil {
		return nil, domainerrors.NoDroneAssigned(orderID)
	}
	droneID := *order.DroneID

	start := geo.NewPoint(order.RestaurantLat, order.RestaurantLng)
	end := geo.NewPoint(order.DeliveryLat, order.DeliveryLng)
	if start == (geo.Point{}) {
		start = defaultStart
	}
	if end == (geo.Point{}) {
		end = defaultEnd
	}

	waypoints, err := PlanWaypoints(start, end, s.plan.NumPoints, s.plan.TripSeconds)
	if err != nil {
		return nil, err
	}
	for i := range waypoints {
		waypoints[i].OrderID = orderID
		waypoints[i].DroneID = droneID
	}

	battery := 100.0
	if order.BatteryLevel != nil {
		battery = *order.BatteryLevel
	}
	status := StatusTakingOff
	initial := &PositionSample{
		OrderID:      orderID,
		DroneID:      droneID,
		Latitude:     start.Lat,
		Longitude:    start.Lng,
		Altitude:     0,
		Speed:        0,
		BatteryLevel: &battery,
		Status:       &status,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if err := s.repo.InsertWaypoints(ctx, tx, waypoints); err != nil {
		return nil, domainerrors.NewInternal("failed to persist route", err)
	}
	if err := s.repo.InsertSample(ctx, tx, initial); err != nil {
		return nil, domainerrors.NewInternal("failed to persist initial position", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, domainerrors.NewInternal("failed to commit tracking session", err)
	}

	s.cacheSample(ctx, initial)

	return &StartResult{
		OrderID:        orderID,
		DroneID:        droneID,
		TotalWaypoints: len(waypoints),
	}, nil
}

func (s *service) History(ctx context.Context, orderID int64) ([]PositionSample, error) {
	samples, err := s.repo.ListSamples(ctx, s.db, orderID)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to load tracking history", err)
	}
	return samples, nil
}

func (s *service) Latest(ctx context.Context, orderID int64) (*PositionSample, error) {
	if cached, err := s.cache.Get(ctx, orderID); err == nil && cached != nil {
		return &PositionSample{
			OrderID:      cached.OrderID,
			DroneID:      cached.DroneID,
			Latitude:     cached.Latitude,
			Longitude:    cached.Longitude,
			Altitude:     cached.Altitude,
			Speed:        cached.Speed,
			BatteryLevel: cached.BatteryLevel,
			Status:       cached.Status,
			Timestamp:    cached.Timestamp,
		}, nil
	}

	latest, err := s.repo.LatestSample(ctx, s.db, orderID)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to load latest position", err)
	}
	if latest == nil {
		return nil, domainerrors.NoTrackingData(orderID)
	}

	s.cacheSample(ctx, latest)
	return latest, nil
}

func (s *service) Route(ctx context.Context, orderID int64) (*RouteDetails, error) {
	waypoints, err := s.repo.ListWaypoints(ctx, s.db, orderID)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to load route", err)
	}
	if len(waypoints) == 0 {
		return nil, domainerrors.RouteNotFound(orderID)
	}

	return &RouteDetails{
		OrderID:            orderID,
		DroneID:            waypoints[0].DroneID,
		Waypoints:          waypoints,
		TotalDistanceKM:    math.Round(TotalDistance(waypoints)*100) / 100,
		EstimatedTotalTime: waypoints[len(waypoints)-1].EstimatedTime,
	}, nil
}

func (s *service) UpdatePosition(ctx context.Context, orderID int64, upd PositionUpdate) (*PositionSample, error) {
	order, err := s.orders.GetOrder(ctx, orderID, "")
	if err != nil {
		return nil, err
	}
	if order.DroneID == nil {
		return nil, domainerrors.NoDroneAssigned(orderID)
	}

	sample := &PositionSample{
		OrderID:      orderID,
		DroneID:      *order.DroneID,
		Latitude:     upd.Latitude,
		Longitude:    upd.Longitude,
		Altitude:     upd.Altitude,
		Speed:        upd.Speed,
		BatteryLevel: upd.BatteryLevel,
		Status:       upd.Status,
	}
	if err := s.RecordSample(ctx, sample); err != nil {
		return nil, err
	}

	s.broadcaster.Publish(orderID, PositionEvent{
		Type:         EventTypePositionUpdate,
		OrderID:      sample.OrderID,
		DroneID:      sample.DroneID,
		Latitude:     sample.Latitude,
		Longitude:    sample.Longitude,
		Altitude:     sample.Altitude,
		Speed:        sample.Speed,
		BatteryLevel: sample.BatteryLevel,
		Status:       sample.Status,
		Timestamp:    sample.Timestamp.Format(time.RFC3339Nano),
	})

	return sample, nil
}

func (s *service) Waypoints(ctx context.Context, orderID int64) ([]Waypoint, error) {
	waypoints, err := s.repo.ListWaypoints(ctx, s.db, orderID)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to load route", err)
	}
	return waypoints, nil
}

func (s *service) RecordSample(ctx context.Context, sample *PositionSample) error {
	if err := s.repo.InsertSample(ctx, s.db, sample); err != nil {
		return domainerrors.NewInternal("failed to persist position", err)
	}
	s.cacheSample(ctx, sample)
	return nil
}

// Cache writes are best-effort; the store stays the source of truth.
func (s *service) cacheSample(ctx context.Context, sample *PositionSample) {
	err := s.cache.Set(ctx, redis.CachedPosition{
		OrderID:      sample.OrderID,
		DroneID:      sample.DroneID,
		Latitude:     sample.Latitude,
		Longitude:    sample.Longitude,
		Altitude:     sample.Altitude,
		Speed:        sample.Speed,
		BatteryLevel: sample.BatteryLevel,
		Status:       sample.Status,
		Timestamp:    sample.Timestamp,
	})
	if err != nil {
		slog.ErrorContext(ctx, "position cache write failed",
			slog.Int64("order_id", sample.OrderID),
			slog.String("error", err.Error()),
		)
	}
}
