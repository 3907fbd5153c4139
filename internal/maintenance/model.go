package maintenance

import "time"

const (
	TypeRoutine            = "routine"
	TypeRepair             = "repair"
	TypeBatteryReplacement = "battery_replacement"
	TypeMotorCheck         = "motor_check"
	TypeSoftwareUpdate     = "software_update"
)

var validTypes = map[string]bool{
	TypeRoutine:            true,
	TypeRepair:             true,
	TypeBatteryReplacement: true,
	TypeMotorCheck:         true,
	TypeSoftwareUpdate:     true,
}

func ValidType(t string) bool {
	return validTypes[t]
}

// Record is one scheduled or completed maintenance entry for a drone.
type Record struct {
	ID              int64      `db:"id" json:"id"`
	DroneID         int64      `db:"drone_id" json:"drone_id"`
	MaintenanceType string     `db:"maintenance_type" json:"maintenance_type"`
	ScheduledDate   time.Time  `db:"scheduled_date" json:"scheduled_date"`
	CompletedDate   *time.Time `db:"completed_date" json:"completed_date"`
	TechnicianID    *int64     `db:"technician_id" json:"technician_id"`
	Notes           *string    `db:"notes" json:"notes"`
	Cost            *float64   `db:"cost" json:"cost"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

func (r *Record) Completed() bool {
	return r.CompletedDate != nil
}
