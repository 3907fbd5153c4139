package alert

import (
	"context"

	"github.com/jmoiron/sqlx"

	domainerrors "drone-tracking/internal/errors"
)

const listLimit = 100

type Service interface {
	Raise(ctx context.Context, droneID int64, alertType, severity, message string) error
	RaiseWithTx(ctx context.Context, tx sqlx.ExtContext, droneID int64, alertType, severity, message string) error
	List(ctx context.Context, resolved *bool, severity *string) ([]Alert, error)
	ListByDrone(ctx context.Context, droneID int64) ([]Alert, error)
	CountOpen(ctx context.Context, droneID int64) (int, error)
	Resolve(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
	db   *sqlx.DB
}

func NewService(repo Repository, db *sqlx.DB) Service {
	return &service{repo: repo, db: db}
}

func (s *service) Raise(ctx context.Context, droneID int64, alertType, severity, message string) error {
	return s.RaiseWithTx(ctx, s.db, droneID, alertType, severity, message)
}

func (s *service) RaiseWithTx(ctx context.Context, tx sqlx.ExtContext, droneID int64, alertType, severity, message string) error {
	a := &Alert{
		DroneID:   droneID,
		AlertType: alertType,
		Severity:  severity,
		Message:   &message,
	}
	if err := s.repo.Insert(ctx, tx, a); err != nil {
		return domainerrors.NewInternal("failed to raise alert", err)
	}
	return nil
}

func (s *service) List(ctx context.Context, resolved *bool, severity *string) ([]Alert, error) {
	alerts, err := s.repo.ListAll(ctx, s.db, resolved, severity, listLimit)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to list alerts", err)
	}
	return alerts, nil
}

func (s *service) ListByDrone(ctx context.Context, droneID int64) ([]Alert, error) {
	alerts, err := s.repo.ListByDrone(ctx, s.db, droneID)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to list drone alerts", err)
	}
	return alerts, nil
}

func (s *service) CountOpen(ctx context.Context, droneID int64) (int, error) {
	return s.repo.CountOpenByDrone(ctx, s.db, droneID)
}

func (s *service) Resolve(ctx context.Context, id int64) error {
	found, err := s.repo.Resolve(ctx, s.db, id)
	if err != nil {
		return domainerrors.NewInternal("failed to resolve alert", err)
	}
	if !found {
		return domainerrors.AlertNotFound(id)
	}
	return nil
}
