package fleet

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"drone-tracking/internal/alert"
	"drone-tracking/internal/client"
	domainerrors "drone-tracking/internal/errors"
	"drone-tracking/internal/performance"
)

const defaultHistoryLimit = 50

type ChangeStatusInput struct {
	DroneID   int64
	Status    Status
	Latitude  *float64
	Longitude *float64
	Reason    *string
	ChangedBy *int64
}

type Service interface {
	ChangeStatus(ctx context.Context, in ChangeStatusInput) (*StatusRecord, error)
	TransitionStatus(ctx context.Context, droneID int64, status Status, reason string, changedBy *int64) error
	History(ctx context.Context, droneID int64, limit int) ([]StatusRecord, error)
	Summary(ctx context.Context) ([]DroneSummary, error)
}

type service struct {
	repo   *Repository
	db     *sqlx.DB
	orders *client.OrderClient
	perf   performance.Service
	alerts alert.Service
}

func NewService(repo *Repository, db *sqlx.DB, orders *client.OrderClient, perf performance.Service, alerts alert.Service) Service {
	return &service{repo: repo, db: db, orders: orders, perf: perf, alerts: alerts}
}

func (s *service) ChangeStatus(ctx context.Context, in ChangeStatusInput) (*StatusRecord, error) {
	if !in.Status.Valid() {
		return nil, domainerrors.NewValidation("invalid status value")
	}

	prevStatus := "unknown"
	prev, err := s.repo.LatestStatus(ctx, in.DroneID)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to load current status", err)
	}
	if prev != nil {
		prevStatus = prev.Status
	}

	// Battery level is fetched from the order service; a missing or
	// unreachable drone record yields 0 rather than failing the change.
	battery := 0.0
	if info, err := s.orders.GetDrone(ctx, in.DroneID); err != nil {
		slog.Warn("fleet: drone lookup failed", "drone_id", in.DroneID, "error", err)
	} else if info != nil {
		battery = info.BatteryLevel
	}

	rec := &StatusRecord{
		DroneID:        in.DroneID,
		Status:         string(in.Status),
		PreviousStatus: &prevStatus,
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		BatteryLevel:   &battery,
		Reason:         in.Reason,
		ChangedBy:      in.ChangedBy,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if err := s.repo.InsertStatus(ctx, tx, rec); err != nil {
		return nil, domainerrors.NewInternal("failed to record status change", err)
	}
	if in.Status == StatusError {
		reason := "unspecified"
		if in.Reason != nil {
			reason = *in.Reason
		}
		if err := s.alerts.RaiseWithTx(ctx, tx, in.DroneID, "status_error", alert.SeverityHigh,
			"Drone entered error state: "+reason); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, domainerrors.NewInternal("failed to commit status change", err)
	}

	// Mirror the change to the order service. Its copy is advisory, so a
	// failure here is only logged.
	if err := s.orders.UpdateDroneStatus(ctx, in.DroneID, string(in.Status)); err != nil {
		slog.Warn("fleet: status push to order service failed",
			"drone_id", in.DroneID, "status", in.Status, "error", err)
	}

	return rec, nil
}

// TransitionStatus records a service-initiated status change, such as a
// maintenance window opening or closing.
func (s *service) TransitionStatus(ctx context.Context, droneID int64, status Status, reason string, changedBy *int64) error {
	_, err := s.ChangeStatus(ctx, ChangeStatusInput{
		DroneID:   droneID,
		Status:    status,
		Reason:    &reason,
		ChangedBy: changedBy,
	})
	return err
}

func (s *service) History(ctx context.Context, droneID int64, limit int) ([]StatusRecord, error) {
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	recs, err := s.repo.ListHistory(ctx, droneID, limit)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to list status history", err)
	}
	return recs, nil
}

func (s *service) Summary(ctx context.Context) ([]DroneSummary, error) {
	drones, err := s.orders.ListDrones(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]DroneSummary, 0, len(drones))
	for _, d := range drones {
		sum := DroneSummary{
			DroneID:       d.ID,
			DroneName:     d.Name,
			CurrentStatus: d.Status,
			BatteryLevel:  d.BatteryLevel,
		}
		if d.CurrentLat != nil && d.CurrentLng != nil {
			sum.CurrentLocation = &SummaryLocation{Lat: *d.CurrentLat, Lng: *d.CurrentLng}
		}

		latest, err := s.repo.LatestStatus(ctx, d.ID)
		if err != nil {
			return nil, domainerrors.NewInternal("failed to load latest status", err)
		}
		if latest != nil {
			sum.CurrentStatus = latest.Status
			sum.LastUpdate = &latest.ChangedAt
			if latest.BatteryLevel != nil && *latest.BatteryLevel > 0 {
				sum.BatteryLevel = *latest.BatteryLevel
			}
		}

		stats, err := s.perf.Peek(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		if stats != nil {
			sum.Performance = &SummaryPerformance{
				TotalDeliveries: stats.TotalDeliveries,
				SuccessRate:     stats.SuccessRate,
			}
		}

		open, err := s.alerts.CountOpen(ctx, d.ID)
		if err != nil {
			return nil, domainerrors.NewInternal("failed to count open alerts", err)
		}
		sum.ActiveAlerts = open

		summaries = append(summaries, sum)
	}
	return summaries, nil
}
