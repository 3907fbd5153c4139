package tracking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const sampleColumns = `id, order_id, drone_id, latitude, longitude, altitude, speed, battery_level, status, timestamp`

const waypointColumns = `id, order_id, drone_id, waypoint_sequence, latitude, longitude, estimated_time, created_at`

type Repository interface {
	InsertWaypoints(ctx context.Context, ext sqlx.ExtContext, waypoints []Waypoint) error
	ListWaypoints(ctx context.Context, ext sqlx.ExtContext, orderID int64) ([]Waypoint, error)
	InsertSample(ctx context.Context, ext sqlx.ExtContext, s *PositionSample) error
	ListSamples(ctx context.Context, ext sqlx.ExtContext, orderID int64) ([]PositionSample, error)
	LatestSample(ctx context.Context, ext sqlx.ExtContext, orderID int64) (*PositionSample, error)
}

type trackingRepository struct{}

func NewRepository() Repository {
	return &trackingRepository{}
}

func (r *trackingRepository) InsertWaypoints(ctx context.Context, ext sqlx.ExtContext, waypoints []Waypoint) error {
	const query = `INSERT INTO delivery_routes (order_id, drone_id, waypoint_sequence, latitude, longitude, estimated_time)
		VALUES (:order_id, :drone_id, :waypoint_sequence, :latitude, :longitude, :estimated_time)`

	for i := range waypoints {
		if _, err := sqlx.NamedExecContext(ctx, ext, query, waypoints[i]); err != nil {
			return fmt.Errorf("insert waypoint %d: %w", waypoints[i].Sequence, err)
		}
	}
	return nil
}

func (r *trackingRepository) ListWaypoints(ctx context.Context, ext sqlx.ExtContext, orderID int64) ([]Waypoint, error) {
	var waypoints []Waypoint
	query := fmt.Sprintf(`SELECT %s FROM delivery_routes WHERE order_id = $1 ORDER BY waypoint_sequence`, waypointColumns)
	if err := sqlx.SelectContext(ctx, ext, &waypoints, query, orderID); err != nil {
		return nil, err
	}
	return waypoints, nil
}

func (r *trackingRepository) InsertSample(ctx context.Context, ext sqlx.ExtContext, s *PositionSample) error {
	const query = `INSERT INTO delivery_tracking (order_id, drone_id, latitude, longitude, altitude, speed, battery_level, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, timestamp`

	row := ext.QueryRowxContext(ctx, query,
		s.OrderID, s.DroneID, s.Latitude, s.Longitude, s.Altitude, s.Speed, s.BatteryLevel, s.Status)
	return row.Scan(&s.ID, &s.Timestamp)
}

func (r *trackingRepository) ListSamples(ctx context.Context, ext sqlx.ExtContext, orderID int64) ([]PositionSample, error) {
	var samples []PositionSample
	query := fmt.Sprintf(`SELECT %s FROM delivery_tracking WHERE order_id = $1 ORDER BY timestamp`, sampleColumns)
	if err := sqlx.SelectContext(ctx, ext, &samples, query, orderID); err != nil {
		return nil, err
	}
	return samples, nil
}

func (r *trackingRepository) LatestSample(ctx context.Context, ext sqlx.ExtContext, orderID int64) (*PositionSample, error) {
	var s PositionSample
	query := fmt.Sprintf(`SELECT %s FROM delivery_tracking WHERE order_id = $1 ORDER BY timestamp DESC LIMIT 1`, sampleColumns)
	err := sqlx.GetContext(ctx, ext, &s, query, orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
