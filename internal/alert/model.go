package alert

import "time"

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

type Alert struct {
	ID         int64      `db:"id" json:"id"`
	DroneID    int64      `db:"drone_id" json:"drone_id"`
	AlertType  string     `db:"alert_type" json:"alert_type"`
	Severity   string     `db:"severity" json:"severity"`
	Message    *string    `db:"message" json:"message"`
	IsResolved bool       `db:"is_resolved" json:"is_resolved"`
	ResolvedAt *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
