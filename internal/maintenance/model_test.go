package maintenance

import (
	"testing"
	"time"
)

func TestValidType(t *testing.T) {
	for _, typ := range []string{
		TypeRoutine, TypeRepair, TypeBatteryReplacement, TypeMotorCheck, TypeSoftwareUpdate,
	} {
		if !ValidType(typ) {
			t.Errorf("%q should be a valid maintenance type", typ)
		}
	}

	for _, typ := range []string{"", "inspection", "Routine", "battery"} {
		if ValidType(typ) {
			t.Errorf("%q should not be a valid maintenance type", typ)
		}
	}
}

func TestRecord_Completed(t *testing.T) {
	rec := Record{}
	if rec.Completed() {
		t.Error("record without completion date reported as completed")
	}

	now := time.Now()
	rec.CompletedDate = &now
	if !rec.Completed() {
		t.Error("record with completion date reported as pending")
	}
}
