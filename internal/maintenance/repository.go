package maintenance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const insertQuery = `
	INSERT INTO drone_maintenance
		(drone_id, maintenance_type, scheduled_date, notes, cost)
	VALUES
		(:drone_id, :maintenance_type, :scheduled_date, :notes, :cost)
	RETURNING id, created_at`

func (r *Repository) Insert(ctx context.Context, rec *Record) error {
	rows, err := sqlx.NamedQueryContext(ctx, r.db, insertQuery, rec)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&rec.ID, &rec.CreatedAt); err != nil {
			return err
		}
	}
	return rows.Err()
}

// GetByID returns nil when no record exists.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Record, error) {
	var rec Record
	err := r.db.GetContext(ctx, &rec, `
		SELECT id, drone_id, maintenance_type, scheduled_date, completed_date,
		       technician_id, notes, cost, created_at
		FROM drone_maintenance
		WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByDrone returns a drone's maintenance records, most recently
// scheduled first.
func (r *Repository) ListByDrone(ctx context.Context, droneID int64) ([]Record, error) {
	recs := []Record{}
	err := r.db.SelectContext(ctx, &recs, `
		SELECT id, drone_id, maintenance_type, scheduled_date, completed_date,
		       technician_id, notes, cost, created_at
		FROM drone_maintenance
		WHERE drone_id = $1
		ORDER BY scheduled_date DESC`, droneID)
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// Complete stamps a record as finished. Returns false when the record
// does not exist.
func (r *Repository) Complete(ctx context.Context, id int64, completedAt time.Time, technicianID *int64, notes *string, cost *float64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE drone_maintenance
		SET completed_date = $2,
		    technician_id = $3,
		    notes = COALESCE($4, notes),
		    cost = COALESCE($5, cost)
		WHERE id = $1`, id, completedAt, technicianID, notes, cost)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
