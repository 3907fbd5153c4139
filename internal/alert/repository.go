package alert

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const columns = `id, drone_id, alert_type, severity, message, is_resolved, resolved_at, created_at`

type Repository interface {
	Insert(ctx context.Context, ext sqlx.ExtContext, a *Alert) error
	ListAll(ctx context.Context, ext sqlx.ExtContext, resolved *bool, severity *string, limit int) ([]Alert, error)
	ListByDrone(ctx context.Context, ext sqlx.ExtContext, droneID int64) ([]Alert, error)
	CountOpenByDrone(ctx context.Context, ext sqlx.ExtContext, droneID int64) (int, error)
	Resolve(ctx context.Context, ext sqlx.ExtContext, id int64) (bool, error)
}

type alertRepository struct{}

func NewRepository() Repository {
	return &alertRepository{}
}

func (r *alertRepository) Insert(ctx context.Context, ext sqlx.ExtContext, a *Alert) error {
	const query = `INSERT INTO drone_alerts (drone_id, alert_type, severity, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_resolved, created_at`

	row := ext.QueryRowxContext(ctx, query, a.DroneID, a.AlertType, a.Severity, a.Message)
	return row.Scan(&a.ID, &a.IsResolved, &a.CreatedAt)
}

func (r *alertRepository) ListAll(ctx context.Context, ext sqlx.ExtContext, resolved *bool, severity *string, limit int) ([]Alert, error) {
	args := []any{}
	where := ""
	argIdx := 1

	if resolved != nil {
		where = fmt.Sprintf(" WHERE is_resolved = $%d", argIdx)
		args = append(args, *resolved)
		argIdx++
	}
	if severity != nil {
		if where == "" {
			where = fmt.Sprintf(" WHERE severity = $%d", argIdx)
		} else {
			where += fmt.Sprintf(" AND severity = $%d", argIdx)
		}
		args = append(args, *severity)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT %s FROM drone_alerts%s ORDER BY created_at DESC LIMIT $%d`, columns, where, argIdx)
	args = append(args, limit)

	var alerts []Alert
	if err := sqlx.SelectContext(ctx, ext, &alerts, query, args...); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepository) ListByDrone(ctx context.Context, ext sqlx.ExtContext, droneID int64) ([]Alert, error) {
	var alerts []Alert
	query := fmt.Sprintf(`SELECT %s FROM drone_alerts WHERE drone_id = $1 ORDER BY created_at DESC`, columns)
	if err := sqlx.SelectContext(ctx, ext, &alerts, query, droneID); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepository) CountOpenByDrone(ctx context.Context, ext sqlx.ExtContext, droneID int64) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM drone_alerts WHERE drone_id = $1 AND NOT is_resolved`
	if err := sqlx.GetContext(ctx, ext, &count, query, droneID); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *alertRepository) Resolve(ctx context.Context, ext sqlx.ExtContext, id int64) (bool, error) {
	const query = `UPDATE drone_alerts SET is_resolved = TRUE, resolved_at = NOW() WHERE id = $1`
	res, err := ext.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
