package battery

import "testing"

func TestGrade_Buckets(t *testing.T) {
	cases := []struct {
		avg    float64
		status string
	}{
		{100, "excellent"},
		{90, "excellent"},
		{89.9, "good"},
		{75, "good"},
		{74.9, "fair"},
		{60, "fair"},
		{59.9, "poor"},
		{10, "poor"},
	}

	for _, tc := range cases {
		status, _ := grade(tc.avg)
		if status != tc.status {
			t.Errorf("grade(%f) = %q, want %q", tc.avg, status, tc.status)
		}
	}
}

func TestGrade_Recommendations(t *testing.T) {
	cases := []struct {
		avg  float64
		want string
	}{
		{95, "No action needed"},
		{80, "Monitor regularly"},
		{65, "Schedule replacement soon"},
		{40, "Replace immediately"},
	}

	for _, tc := range cases {
		_, rec := grade(tc.avg)
		if rec != tc.want {
			t.Errorf("grade(%f) recommendation = %q, want %q", tc.avg, rec, tc.want)
		}
	}
}
