// Package battery records battery telemetry and grades pack health from
// recent readings.
package battery

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"drone-tracking/internal/alert"
	domainerrors "drone-tracking/internal/errors"
)

const (
	lowLevelThreshold      = 20.0
	criticalLevelThreshold = 10.0
	poorHealthThreshold    = 60.0

	healthWindow = 50 // readings considered for the verdict
	healthShown  = 10 // readings returned to the caller
)

// Reading is one battery telemetry sample.
type Reading struct {
	ID               int64     `db:"id" json:"id"`
	DroneID          int64     `db:"drone_id" json:"drone_id"`
	BatteryLevel     float64   `db:"battery_level" json:"battery_level"`
	Voltage          *float64  `db:"voltage" json:"voltage"`
	Temperature      *float64  `db:"temperature" json:"temperature"`
	HealthPercentage *float64  `db:"health_percentage" json:"health_percentage"`
	ChargeCycles     *int      `db:"charge_cycles" json:"charge_cycles"`
	LoggedAt         time.Time `db:"logged_at" json:"logged_at"`
}

// HealthReport summarizes the most recent readings for a drone.
type HealthReport struct {
	DroneID        int64     `json:"drone_id"`
	Status         string    `json:"status"`
	Recommendation string    `json:"recommendation"`
	AverageHealth  *float64  `json:"average_health"`
	SampleCount    int       `json:"sample_count"`
	RecentReadings []Reading `json:"recent_readings"`
}

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const insertQuery = `
	INSERT INTO drone_battery_logs
		(drone_id, battery_level, voltage, temperature, health_percentage, charge_cycles)
	VALUES
		(:drone_id, :battery_level, :voltage, :temperature, :health_percentage, :charge_cycles)
	RETURNING id, logged_at`

func (r *Repository) Insert(ctx context.Context, reading *Reading) error {
	rows, err := sqlx.NamedQueryContext(ctx, r.db, insertQuery, reading)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&reading.ID, &reading.LoggedAt); err != nil {
			return err
		}
	}
	return rows.Err()
}

// ListRecent returns up to limit readings for a drone, newest first.
func (r *Repository) ListRecent(ctx context.Context, droneID int64, limit int) ([]Reading, error) {
	readings := []Reading{}
	err := r.db.SelectContext(ctx, &readings, `
		SELECT id, drone_id, battery_level, voltage, temperature,
		       health_percentage, charge_cycles, logged_at
		FROM drone_battery_logs
		WHERE drone_id = $1
		ORDER BY logged_at DESC
		LIMIT $2`, droneID, limit)
	if err != nil {
		return nil, err
	}
	return readings, nil
}

type Service interface {
	Log(ctx context.Context, reading *Reading) error
	Health(ctx context.Context, droneID int64) (*HealthReport, error)
}

type service struct {
	repo   *Repository
	alerts alert.Service
}

func NewService(repo *Repository, alerts alert.Service) Service {
	return &service{repo: repo, alerts: alerts}
}

func (s *service) Log(ctx context.Context, reading *Reading) error {
	if err := s.repo.Insert(ctx, reading); err != nil {
		return domainerrors.NewInternal("failed to log battery reading", err)
	}

	if reading.BatteryLevel < lowLevelThreshold {
		severity := alert.SeverityMedium
		if reading.BatteryLevel < criticalLevelThreshold {
			severity = alert.SeverityHigh
		}
		if err := s.alerts.Raise(ctx, reading.DroneID, "low_battery", severity,
			fmt.Sprintf("Battery level at %.1f%%", reading.BatteryLevel)); err != nil {
			return err
		}
	}
	if reading.HealthPercentage != nil && *reading.HealthPercentage < poorHealthThreshold {
		if err := s.alerts.Raise(ctx, reading.DroneID, "battery_health", alert.SeverityHigh,
			fmt.Sprintf("Battery health degraded to %.1f%%", *reading.HealthPercentage)); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) Health(ctx context.Context, droneID int64) (*HealthReport, error) {
	readings, err := s.repo.ListRecent(ctx, droneID, healthWindow)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to load battery logs", err)
	}

	report := &HealthReport{DroneID: droneID, SampleCount: len(readings)}
	if len(readings) == 0 {
		report.Status = "unknown"
		report.Recommendation = "No data"
		report.RecentReadings = []Reading{}
		return report, nil
	}

	var sum float64
	var n int
	for _, rd := range readings {
		if rd.HealthPercentage != nil {
			sum += *rd.HealthPercentage
			n++
		}
	}
	if n > 0 {
		avg := sum / float64(n)
		report.AverageHealth = &avg
		report.Status, report.Recommendation = grade(avg)
	} else {
		report.Status = "unknown"
		report.Recommendation = "No health data"
	}

	if len(readings) > healthShown {
		readings = readings[:healthShown]
	}
	report.RecentReadings = readings
	return report, nil
}

func grade(avg float64) (status, recommendation string) {
	switch {
	case avg >= 90:
		return "excellent", "No action needed"
	case avg >= 75:
		return "good", "Monitor regularly"
	case avg >= 60:
		return "fair", "Schedule replacement soon"
	default:
		return "poor", "Replace immediately"
	}
}
