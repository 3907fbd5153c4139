package sim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domainerrors "drone-tracking/internal/errors"
	"drone-tracking/internal/tracking"
)

type fakeStore struct {
	mu        sync.Mutex
	waypoints map[int64][]tracking.Waypoint
	samples   []tracking.PositionSample
	failAfter int // fail RecordSample once this many samples are stored; 0 = never
}

func (f *fakeStore) Waypoints(_ context.Context, orderID int64) ([]tracking.Waypoint, error) {
	wps, ok := f.waypoints[orderID]
	if !ok {
		return nil, domainerrors.RouteNotFound(orderID)
	}
	return wps, nil
}

func (f *fakeStore) RecordSample(_ context.Context, s *tracking.PositionSample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAfter > 0 && len(f.samples) >= f.failAfter {
		return errors.New("store down")
	}
	f.samples = append(f.samples, *s)
	return nil
}

func (f *fakeStore) recorded() []tracking.PositionSample {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tracking.PositionSample, len(f.samples))
	copy(out, f.samples)
	return out
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []tracking.PositionEvent
}

func (f *fakeBroadcaster) Publish(_ int64, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ev, ok := payload.(tracking.PositionEvent); ok {
		f.events = append(f.events, ev)
	}
}

func (f *fakeBroadcaster) published() []tracking.PositionEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]tracking.PositionEvent, len(f.events))
	copy(out, f.events)
	return out
}

type fakeAlerts struct {
	mu     sync.Mutex
	raised []string
}

func (f *fakeAlerts) Raise(_ context.Context, _ int64, alertType, severity, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.raised = append(f.raised, alertType+"/"+severity)
	return nil
}

func (f *fakeAlerts) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.raised)
}

func routeFixture(orderID, droneID int64, n int) []tracking.Waypoint {
	wps := make([]tracking.Waypoint, 0, n)
	for i := 0; i < n; i++ {
		wps = append(wps, tracking.Waypoint{
			OrderID:   orderID,
			DroneID:   droneID,
			Sequence:  i,
			Latitude:  10.76 + float64(i)*0.001,
			Longitude: 106.66 + float64(i)*0.002,
		})
	}
	return wps
}

func testConfig() Config {
	return Config{
		StepInterval:     time.Millisecond,
		BatteryStart:     100,
		BatteryStepDrain: 0.5,
		BatteryFloor:     0,
	}
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var de *domainerrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected domain error, got %v", err)
	}
	return de.Code
}

func TestStart_WalksEveryWaypoint(t *testing.T) {
	store := &fakeStore{waypoints: map[int64][]tracking.Waypoint{
		1: routeFixture(1, 42, 6),
	}}
	bc := &fakeBroadcaster{}
	alerts := &fakeAlerts{}
	m := NewManager(store, bc, alerts, testConfig())
	defer m.Close()

	run, err := m.Start(context.Background(), 1)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if run.OrderID != 1 || run.DroneID != 42 {
		t.Fatalf("unexpected run identity: %+v", run)
	}

	select {
	case <-run.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish")
	}

	samples := store.recorded()
	if len(samples) != 6 {
		t.Fatalf("expected 6 samples, got %d", len(samples))
	}

	for i, s := range samples {
		wantBattery := 100 - 0.5*float64(i)
		if s.BatteryLevel == nil || *s.BatteryLevel != wantBattery {
			t.Errorf("sample %d battery = %v, want %f", i, s.BatteryLevel, wantBattery)
		}
		wantStatus := tracking.StatusInFlight
		if i == len(samples)-1 {
			wantStatus = tracking.StatusLanding
		}
		if s.Status == nil || *s.Status != wantStatus {
			t.Errorf("sample %d status = %v, want %s", i, s.Status, wantStatus)
		}
		if s.Altitude != float64(50+i%10) {
			t.Errorf("sample %d altitude = %f", i, s.Altitude)
		}
		if s.Speed != float64(25+i%15) {
			t.Errorf("sample %d speed = %f", i, s.Speed)
		}
	}

	events := bc.published()
	if len(events) != 6 {
		t.Fatalf("expected 6 events, got %d", len(events))
	}
	for i, ev := range events {
		if ev.Waypoint != i+1 {
			t.Errorf("event %d waypoint = %d, want %d", i, ev.Waypoint, i+1)
		}
		if ev.TotalWaypoints != 6 {
			t.Errorf("event %d total = %d, want 6", i, ev.TotalWaypoints)
		}
		if ev.Type != tracking.EventTypePositionUpdate {
			t.Errorf("event %d type = %q", i, ev.Type)
		}
	}

	if alerts.count() != 0 {
		t.Errorf("no alerts expected on a healthy walk, got %d", alerts.count())
	}
}

func TestStart_DuplicateOrderRefused(t *testing.T) {
	cfg := testConfig()
	cfg.StepInterval = time.Hour // keep the first run parked

	store := &fakeStore{waypoints: map[int64][]tracking.Waypoint{
		1: routeFixture(1, 42, 4),
	}}
	m := NewManager(store, &fakeBroadcaster{}, &fakeAlerts{}, cfg)
	defer m.Close()

	if _, err := m.Start(context.Background(), 1); err != nil {
		t.Fatalf("first start failed: %v", err)
	}

	_, err := m.Start(context.Background(), 1)
	if err == nil {
		t.Fatal("expected second start to be refused")
	}
	if code := domainCode(t, err); code != domainerrors.ErrConflict {
		t.Fatalf("expected CONFLICT, got %s", code)
	}
}

func TestStart_UnknownRoute(t *testing.T) {
	m := NewManager(&fakeStore{waypoints: map[int64][]tracking.Waypoint{}},
		&fakeBroadcaster{}, &fakeAlerts{}, testConfig())
	defer m.Close()

	_, err := m.Start(context.Background(), 99)
	if err == nil {
		t.Fatal("expected error for unknown route")
	}
	if code := domainCode(t, err); code != domainerrors.ErrNotFound {
		t.Fatalf("expected NOT_FOUND, got %s", code)
	}
}

func TestStop_CancelsBeforeCompletion(t *testing.T) {
	cfg := testConfig()
	cfg.StepInterval = time.Hour

	store := &fakeStore{waypoints: map[int64][]tracking.Waypoint{
		1: routeFixture(1, 42, 10),
	}}
	m := NewManager(store, &fakeBroadcaster{}, &fakeAlerts{}, cfg)
	defer m.Close()

	run, err := m.Start(context.Background(), 1)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if err := m.Stop(1); err != nil {
		t.Fatalf("stop failed: %v", err)
	}

	select {
	case <-run.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled run did not exit")
	}

	if n := len(store.recorded()); n >= 10 {
		t.Fatalf("expected a truncated walk, got %d samples", n)
	}

	// The slot is free again once the goroutine exits.
	if _, err := m.Start(context.Background(), 1); err != nil {
		t.Fatalf("restart after stop failed: %v", err)
	}
}

func TestStop_NotRunning(t *testing.T) {
	m := NewManager(&fakeStore{waypoints: map[int64][]tracking.Waypoint{}},
		&fakeBroadcaster{}, &fakeAlerts{}, testConfig())
	defer m.Close()

	err := m.Stop(5)
	if err == nil {
		t.Fatal("expected error stopping an idle order")
	}
	if code := domainCode(t, err); code != domainerrors.ErrNotFound {
		t.Fatalf("expected NOT_FOUND, got %s", code)
	}
}

func TestWalk_BatteryFloorRaisesAlertOnce(t *testing.T) {
	cfg := testConfig()
	cfg.BatteryStart = 2
	cfg.BatteryStepDrain = 1
	cfg.BatteryFloor = 0

	store := &fakeStore{waypoints: map[int64][]tracking.Waypoint{
		1: routeFixture(1, 42, 6),
	}}
	alerts := &fakeAlerts{}
	m := NewManager(store, &fakeBroadcaster{}, alerts, cfg)
	defer m.Close()

	run, err := m.Start(context.Background(), 1)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	<-run.Done()

	samples := store.recorded()
	for i, s := range samples {
		if *s.BatteryLevel < 0 {
			t.Errorf("sample %d battery went below floor: %f", i, *s.BatteryLevel)
		}
	}

	if alerts.count() != 1 {
		t.Fatalf("expected exactly one depletion alert, got %d", alerts.count())
	}
	alerts.mu.Lock()
	raised := alerts.raised[0]
	alerts.mu.Unlock()
	if raised != "battery_depleted/critical" {
		t.Fatalf("unexpected alert: %s", raised)
	}
}

func TestWalk_PersistFailureAbortsRun(t *testing.T) {
	store := &fakeStore{
		waypoints: map[int64][]tracking.Waypoint{1: routeFixture(1, 42, 8)},
		failAfter: 3,
	}
	m := NewManager(store, &fakeBroadcaster{}, &fakeAlerts{}, testConfig())
	defer m.Close()

	run, err := m.Start(context.Background(), 1)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	select {
	case <-run.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("aborted run did not exit")
	}

	if n := len(store.recorded()); n != 3 {
		t.Fatalf("expected 3 samples before abort, got %d", n)
	}
}

func TestClose_DrainsRuns(t *testing.T) {
	cfg := testConfig()
	cfg.StepInterval = time.Hour

	store := &fakeStore{waypoints: map[int64][]tracking.Waypoint{
		1: routeFixture(1, 42, 10),
		2: routeFixture(2, 43, 10),
	}}
	m := NewManager(store, &fakeBroadcaster{}, &fakeAlerts{}, cfg)

	if _, err := m.Start(context.Background(), 1); err != nil {
		t.Fatalf("start 1 failed: %v", err)
	}
	if _, err := m.Start(context.Background(), 2); err != nil {
		t.Fatalf("start 2 failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		m.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("close did not drain the runs")
	}
}
