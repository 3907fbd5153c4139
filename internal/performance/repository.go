package performance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const columns = `id, drone_id, total_deliveries, total_distance_km, total_flight_time_minutes, average_speed, successful_deliveries, failed_deliveries, success_rate, last_updated`

type Repository interface {
	GetByDrone(ctx context.Context, ext sqlx.ExtContext, droneID int64) (*Stats, error)
	Insert(ctx context.Context, ext sqlx.ExtContext, s *Stats) error
	Update(ctx context.Context, ext sqlx.ExtContext, s *Stats) error
}

type performanceRepository struct{}

func NewRepository() Repository {
	return &performanceRepository{}
}

func (r *performanceRepository) GetByDrone(ctx context.Context, ext sqlx.ExtContext, droneID int64) (*Stats, error) {
	var s Stats
	query := fmt.Sprintf(`SELECT %s FROM drone_performance WHERE drone_id = $1`, columns)
	err := sqlx.GetContext(ctx, ext, &s, query, droneID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *performanceRepository) Insert(ctx context.Context, ext sqlx.ExtContext, s *Stats) error {
	const query = `INSERT INTO drone_performance (drone_id, total_deliveries, total_distance_km, total_flight_time_minutes, average_speed, successful_deliveries, failed_deliveries, success_rate)
		VALUES (:drone_id, :total_deliveries, :total_distance_km, :total_flight_time_minutes, :average_speed, :successful_deliveries, :failed_deliveries, :success_rate)
		RETURNING id, last_updated`
	rows, err := sqlx.NamedQueryContext(ctx, ext, query, s)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&s.ID, &s.LastUpdated); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *performanceRepository) Update(ctx context.Context, ext sqlx.ExtContext, s *Stats) error {
	const query = `UPDATE drone_performance
		SET total_deliveries = :total_deliveries,
		    total_distance_km = :total_distance_km,
		    total_flight_time_minutes = :total_flight_time_minutes,
		    average_speed = :average_speed,
		    successful_deliveries = :successful_deliveries,
		    failed_deliveries = :failed_deliveries,
		    success_rate = :success_rate,
		    last_updated = NOW()
		WHERE drone_id = :drone_id`
	_, err := sqlx.NamedExecContext(ctx, ext, query, s)
	return err
}
