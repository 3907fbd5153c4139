package gps

import (
	"context"
	"math"
	"time"

	"github.com/jmoiron/sqlx"

	domainerrors "drone-tracking/internal/errors"
)

// AccuracySample is one GPS fix quality report from a drone.
type AccuracySample struct {
	ID             int64     `db:"id" json:"id"`
	DroneID        int64     `db:"drone_id" json:"drone_id"`
	Latitude       float64   `db:"latitude" json:"latitude"`
	Longitude      float64   `db:"longitude" json:"longitude"`
	AccuracyMeters float64   `db:"accuracy_meters" json:"accuracy_meters"`
	SatelliteCount int       `db:"satellite_count" json:"satellite_count"`
	Timestamp      time.Time `db:"timestamp" json:"timestamp"`
}

// AccuracyReport carries the last N samples and their running averages.
// With no rows it is a typed "no data" payload, not an error.
type AccuracyReport struct {
	DroneID               int64            `json:"drone_id"`
	RecentLogs            []AccuracySample `json:"recent_logs"`
	AverageAccuracyMeters *float64         `json:"average_accuracy_meters"`
	AverageSatelliteCount *float64         `json:"average_satellite_count"`
	Message               string           `json:"message,omitempty"`
}

type Repository interface {
	Insert(ctx context.Context, ext sqlx.ExtContext, s *AccuracySample) error
	ListRecent(ctx context.Context, ext sqlx.ExtContext, droneID int64, limit int) ([]AccuracySample, error)
}

type gpsRepository struct{}

func NewRepository() Repository {
	return &gpsRepository{}
}

func (r *gpsRepository) Insert(ctx context.Context, ext sqlx.ExtContext, s *AccuracySample) error {
	const query = `INSERT INTO gps_accuracy_logs (drone_id, latitude, longitude, accuracy_meters, satellite_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, timestamp`

	row := ext.QueryRowxContext(ctx, query, s.DroneID, s.Latitude, s.Longitude, s.AccuracyMeters, s.SatelliteCount)
	return row.Scan(&s.ID, &s.Timestamp)
}

func (r *gpsRepository) ListRecent(ctx context.Context, ext sqlx.ExtContext, droneID int64, limit int) ([]AccuracySample, error) {
	var samples []AccuracySample
	const query = `SELECT id, drone_id, latitude, longitude, accuracy_meters, satellite_count, timestamp
		FROM gps_accuracy_logs WHERE drone_id = $1 ORDER BY timestamp DESC LIMIT $2`
	if err := sqlx.SelectContext(ctx, ext, &samples, query, droneID, limit); err != nil {
		return nil, err
	}
	return samples, nil
}

type Service interface {
	Log(ctx context.Context, s *AccuracySample) error
	Report(ctx context.Context, droneID int64, limit int) (*AccuracyReport, error)
}

type service struct {
	repo Repository
	db   *sqlx.DB
}

func NewService(repo Repository, db *sqlx.DB) Service {
	return &service{repo: repo, db: db}
}

func (s *service) Log(ctx context.Context, sample *AccuracySample) error {
	if err := s.repo.Insert(ctx, s.db, sample); err != nil {
		return domainerrors.NewInternal("failed to log gps accuracy", err)
	}
	return nil
}

func (s *service) Report(ctx context.Context, droneID int64, limit int) (*AccuracyReport, error) {
	samples, err := s.repo.ListRecent(ctx, s.db, droneID, limit)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to load gps accuracy logs", err)
	}

	if len(samples) == 0 {
		return &AccuracyReport{
			DroneID:    droneID,
			RecentLogs: []AccuracySample{},
			Message:    "No GPS logs",
		}, nil
	}

	var sumAccuracy, sumSatellites float64
	for _, sample := range samples {
		sumAccuracy += sample.AccuracyMeters
		sumSatellites += float64(sample.SatelliteCount)
	}
	n := float64(len(samples))
	avgAccuracy := math.Round(sumAccuracy/n*100) / 100
	avgSatellites := math.Round(sumSatellites/n*10) / 10

	return &AccuracyReport{
		DroneID:               droneID,
		RecentLogs:            samples,
		AverageAccuracyMeters: &avgAccuracy,
		AverageSatelliteCount: &avgSatellites,
	}, nil
}
