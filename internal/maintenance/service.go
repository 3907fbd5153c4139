package maintenance

import (
	"context"
	"log/slog"
	"time"

	domainerrors "drone-tracking/internal/errors"
	"drone-tracking/internal/fleet"
)

// maintenance starting within this window flips the drone out of service
// immediately rather than waiting for the scheduled start.
const imminentWindow = 24 * time.Hour

type ScheduleInput struct {
	DroneID         int64
	MaintenanceType string
	ScheduledDate   time.Time
	Notes           *string
	Cost            *float64
	ScheduledBy     *int64
}

type CompleteInput struct {
	ID           int64
	TechnicianID *int64
	Notes        *string
	Cost         *float64
}

type Service interface {
	Schedule(ctx context.Context, in ScheduleInput) (*Record, error)
	History(ctx context.Context, droneID int64) ([]Record, error)
	Complete(ctx context.Context, in CompleteInput) (*Record, error)
}

type service struct {
	repo  *Repository
	fleet fleet.Service
}

func NewService(repo *Repository, fleetSvc fleet.Service) Service {
	return &service{repo: repo, fleet: fleetSvc}
}

func (s *service) Schedule(ctx context.Context, in ScheduleInput) (*Record, error) {
	if !ValidType(in.MaintenanceType) {
		return nil, domainerrors.NewValidation("invalid maintenance type")
	}

	rec := &Record{
		DroneID:         in.DroneID,
		MaintenanceType: in.MaintenanceType,
		ScheduledDate:   in.ScheduledDate,
		Notes:           in.Notes,
		Cost:            in.Cost,
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, domainerrors.NewInternal("failed to schedule maintenance", err)
	}

	if time.Until(in.ScheduledDate) <= imminentWindow {
		if err := s.fleet.TransitionStatus(ctx, in.DroneID, fleet.StatusMaintenance,
			"scheduled maintenance: "+in.MaintenanceType, in.ScheduledBy); err != nil {
			slog.Warn("maintenance: status transition failed",
				"drone_id", in.DroneID, "error", err)
		}
	}

	return rec, nil
}

func (s *service) History(ctx context.Context, droneID int64) ([]Record, error) {
	recs, err := s.repo.ListByDrone(ctx, droneID)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to list maintenance history", err)
	}
	return recs, nil
}

func (s *service) Complete(ctx context.Context, in CompleteInput) (*Record, error) {
	found, err := s.repo.Complete(ctx, in.ID, time.Now().UTC(), in.TechnicianID, in.Notes, in.Cost)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to complete maintenance", err)
	}
	if !found {
		return nil, domainerrors.MaintenanceNotFound(in.ID)
	}

	rec, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to reload maintenance record", err)
	}

	if err := s.fleet.TransitionStatus(ctx, rec.DroneID, fleet.StatusIdle,
		"maintenance completed", in.TechnicianID); err != nil {
		slog.Warn("maintenance: status transition failed",
			"drone_id", rec.DroneID, "error", err)
	}

	return rec, nil
}
