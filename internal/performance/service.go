package performance

import (
	"context"

	"github.com/jmoiron/sqlx"

	domainerrors "drone-tracking/internal/errors"
)

type Service interface {
	// Get returns the drone's stats, creating a zeroed row on first read.
	Get(ctx context.Context, droneID int64) (*Stats, error)
	// Peek returns the stats without creating anything when absent.
	Peek(ctx context.Context, droneID int64) (*Stats, error)
	RecordFlight(ctx context.Context, droneID int64, result FlightResult) (*Stats, error)
}

type service struct {
	repo Repository
	db   *sqlx.DB
}

func NewService(repo Repository, db *sqlx.DB) Service {
	return &service{repo: repo, db: db}
}

func (s *service) Get(ctx context.Context, droneID int64) (*Stats, error) {
	stats, err := s.repo.GetByDrone(ctx, s.db, droneID)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to load performance", err)
	}
	if stats == nil {
		stats = newStats(droneID)
		if err := s.repo.Insert(ctx, s.db, stats); err != nil {
			return nil, domainerrors.NewInternal("failed to create performance record", err)
		}
	}
	return stats, nil
}

func (s *service) Peek(ctx context.Context, droneID int64) (*Stats, error) {
	stats, err := s.repo.GetByDrone(ctx, s.db, droneID)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to load performance", err)
	}
	return stats, nil
}

func (s *service) RecordFlight(ctx context.Context, droneID int64, result FlightResult) (*Stats, error) {
	stats, err := s.repo.GetByDrone(ctx, s.db, droneID)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to load performance", err)
	}

	created := false
	if stats == nil {
		stats = newStats(droneID)
		created = true
	}

	stats.Apply(result)

	if created {
		err = s.repo.Insert(ctx, s.db, stats)
	} else {
		err = s.repo.Update(ctx, s.db, stats)
	}
	if err != nil {
		return nil, domainerrors.NewInternal("failed to update performance", err)
	}
	return stats, nil
}
