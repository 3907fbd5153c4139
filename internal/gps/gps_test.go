package gps

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
)

type fakeRepo struct {
	samples []AccuracySample
}

func (f *fakeRepo) Insert(_ context.Context, _ sqlx.ExtContext, s *AccuracySample) error {
	s.ID = int64(len(f.samples) + 1)
	f.samples = append(f.samples, *s)
	return nil
}

func (f *fakeRepo) ListRecent(_ context.Context, _ sqlx.ExtContext, droneID int64, limit int) ([]AccuracySample, error) {
	out := []AccuracySample{}
	for i := len(f.samples) - 1; i >= 0 && len(out) < limit; i-- {
		if f.samples[i].DroneID == droneID {
			out = append(out, f.samples[i])
		}
	}
	return out, nil
}

func TestReport_Averages(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil)
	ctx := context.Background()

	readings := []struct {
		accuracy   float64
		satellites int
	}{
		{1.234, 7},
		{2.5, 8},
		{3.111, 10},
	}
	for _, r := range readings {
		err := svc.Log(ctx, &AccuracySample{
			DroneID:        1,
			Latitude:       10.76,
			Longitude:      106.66,
			AccuracyMeters: r.accuracy,
			SatelliteCount: r.satellites,
		})
		if err != nil {
			t.Fatalf("log failed: %v", err)
		}
	}

	report, err := svc.Report(ctx, 1, 10)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}

	if len(report.RecentLogs) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(report.RecentLogs))
	}
	// (1.234+2.5+3.111)/3 = 2.2816..., rounded to 2 decimals.
	if report.AverageAccuracyMeters == nil || *report.AverageAccuracyMeters != 2.28 {
		t.Errorf("average accuracy = %v, want 2.28", report.AverageAccuracyMeters)
	}
	// (7+8+10)/3 = 8.33..., rounded to 1 decimal.
	if report.AverageSatelliteCount == nil || *report.AverageSatelliteCount != 8.3 {
		t.Errorf("average satellites = %v, want 8.3", report.AverageSatelliteCount)
	}
	if report.Message != "" {
		t.Errorf("unexpected message: %q", report.Message)
	}
}

func TestReport_NoData(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil)

	report, err := svc.Report(context.Background(), 42, 10)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}

	if report.Message != "No GPS logs" {
		t.Errorf("message = %q, want a no-data marker", report.Message)
	}
	if report.AverageAccuracyMeters != nil || report.AverageSatelliteCount != nil {
		t.Error("averages should be absent with no logs")
	}
	if report.RecentLogs == nil || len(report.RecentLogs) != 0 {
		t.Error("recent logs should be an empty list, not null")
	}
}

func TestReport_LimitHonored(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, nil)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		err := svc.Log(ctx, &AccuracySample{DroneID: 1, AccuracyMeters: float64(i), SatelliteCount: 8})
		if err != nil {
			t.Fatalf("log failed: %v", err)
		}
	}

	report, err := svc.Report(ctx, 1, 10)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if len(report.RecentLogs) != 10 {
		t.Fatalf("expected 10 logs, got %d", len(report.RecentLogs))
	}
	// Newest first.
	if report.RecentLogs[0].AccuracyMeters != 14 {
		t.Errorf("first log accuracy = %f, want the newest", report.RecentLogs[0].AccuracyMeters)
	}
}
