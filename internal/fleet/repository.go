package fleet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const insertStatusQuery = `
	INSERT INTO drone_status_history
		(drone_id, status, previous_status, latitude, longitude, battery_level, reason, changed_by)
	VALUES
		(:drone_id, :status, :previous_status, :latitude, :longitude, :battery_level, :reason, :changed_by)
	RETURNING id, changed_at`

// InsertStatus appends a status record using ext, which may be the pool or
// an open transaction.
func (r *Repository) InsertStatus(ctx context.Context, ext sqlx.ExtContext, rec *StatusRecord) error {
	rows, err := sqlx.NamedQueryContext(ctx, ext, insertStatusQuery, rec)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&rec.ID, &rec.ChangedAt); err != nil {
			return err
		}
	}
	return rows.Err()
}

// LatestStatus returns the most recent status record for a drone, or nil
// when the drone has no recorded history.
func (r *Repository) LatestStatus(ctx context.Context, droneID int64) (*StatusRecord, error) {
	var rec StatusRecord
	err := r.db.GetContext(ctx, &rec, `
		SELECT id, drone_id, status, previous_status, latitude, longitude,
		       battery_level, reason, changed_by, changed_at
		FROM drone_status_history
		WHERE drone_id = $1
		ORDER BY changed_at DESC
		LIMIT 1`, droneID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListHistory returns up to limit status records for a drone, newest first.
func (r *Repository) ListHistory(ctx context.Context, droneID int64, limit int) ([]StatusRecord, error) {
	recs := []StatusRecord{}
	err := r.db.SelectContext(ctx, &recs, `
		SELECT id, drone_id, status, previous_status, latitude, longitude,
		       battery_level, reason, changed_by, changed_at
		FROM drone_status_history
		WHERE drone_id = $1
		ORDER BY changed_at DESC
		LIMIT $2`, droneID, limit)
	if err != nil {
		return nil, err
	}
	return recs, nil
}
