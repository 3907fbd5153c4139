package fleet

import "testing"

func TestStatus_Valid(t *testing.T) {
	valid := []Status{
		StatusIdle, StatusCharging, StatusAssigned, StatusGoingToRestaurant,
		StatusPickingUp, StatusInDelivery, StatusReturning, StatusMaintenance,
		StatusError,
	}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("%q should be a valid status", s)
		}
	}
}

func TestStatus_Invalid(t *testing.T) {
	invalid := []Status{"", "flying", "IDLE", "in-delivery", "unknown"}
	for _, s := range invalid {
		if s.Valid() {
			t.Errorf("%q should not be a valid status", s)
		}
	}
}
