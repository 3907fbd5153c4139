package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	domainerrors "drone-tracking/internal/errors"
	"drone-tracking/internal/tracking"
)

type Config struct {
	StepInterval     time.Duration
	BatteryStart     float64
	BatteryStepDrain float64
	BatteryFloor     float64
}

// Store is the slice of the tracking service the simulator drives.
type Store interface {
	Waypoints(ctx context.Context, orderID int64) ([]tracking.Waypoint, error)
	RecordSample(ctx context.Context, s *tracking.PositionSample) error
}

// AlertRaiser lets a run flag a drained battery without importing the
// alert package.
type AlertRaiser interface {
	Raise(ctx context.Context, droneID int64, alertType, severity, message string) error
}

// Run is the handle returned to the spawning endpoint. Cancelling it
// stops the walk before the next step.
type Run struct {
	ID      uuid.UUID `json:"run_id"`
	OrderID int64     `json:"order_id"`
	DroneID int64     `json:"drone_id"`

	cancel context.CancelFunc
	done   chan struct{}
}

// Done is closed when the run's goroutine has exited.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Manager owns all simulation runs. At most one run per order_id at a
// time; duplicates are refused rather than racing on persistence order.
type Manager struct {
	store       Store
	broadcaster tracking.Broadcaster
	alerts      AlertRaiser
	cfg         Config

	rootCtx    context.Context
	rootCancel context.CancelFunc

	mu   sync.Mutex
	runs map[int64]*Run
	wg   sync.WaitGroup
}

func NewManager(store Store, broadcaster tracking.Broadcaster, alerts AlertRaiser, cfg Config) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		store:       store,
		broadcaster: broadcaster,
		alerts:      alerts,
		cfg:         cfg,
		rootCtx:     ctx,
		rootCancel:  cancel,
		runs:        make(map[int64]*Run),
	}
}

// Start loads the order's route and launches a background walk over it.
// The request context only covers the route lookup; the run itself lives
// under the manager's root context so it survives the HTTP request and
// dies with the process.
func (m *Manager) Start(ctx context.Context, orderID int64) (*Run, error) {
	waypoints, err := m.store.Waypoints(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(waypoints) == 0 {
		return nil, domainerrors.RouteNotFound(orderID)
	}

	runCtx, cancel := context.WithCancel(m.rootCtx)
	run := &Run{
		ID:      uuid.New(),
		OrderID: orderID,
		DroneID: waypoints[0].DroneID,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	m.mu.Lock()
	if _, exists := m.runs[orderID]; exists {
		m.mu.Unlock()
		cancel()
		return nil, domainerrors.SimulationAlreadyRunning(orderID)
	}
	m.runs[orderID] = run
	m.mu.Unlock()

	m.wg.Add(1)
	go m.walk(runCtx, run, waypoints)

	return run, nil
}

// Stop cancels the run for an order. The cancelled goroutine exits
// before its next persist/publish step.
func (m *Manager) Stop(orderID int64) error {
	m.mu.Lock()
	run, ok := m.runs[orderID]
	m.mu.Unlock()
	if !ok {
		return domainerrors.SimulationNotRunning(orderID)
	}
	run.cancel()
	return nil
}

// Close cancels every run and waits for the goroutines to drain.
func (m *Manager) Close() {
	m.rootCancel()
	m.wg.Wait()
}

func (m *Manager) walk(ctx context.Context, run *Run, waypoints []tracking.Waypoint) {
	defer func() {
		m.mu.Lock()
		delete(m.runs, run.OrderID)
		m.mu.Unlock()
		close(run.done)
		m.wg.Done()
	}()

	total := len(waypoints)
	depleted := false

	for i, wp := range waypoints {
		battery := m.cfg.BatteryStart - m.cfg.BatteryStepDrain*float64(i)
		if battery < m.cfg.BatteryFloor {
			battery = m.cfg.BatteryFloor
			if !depleted {
				depleted = true
				m.raiseDepleted(ctx, run)
			}
		}

		status := tracking.StatusInFlight
		if i == total-1 {
			status = tracking.StatusLanding
		}

		sample := &tracking.PositionSample{
			OrderID:      run.OrderID,
			DroneID:      run.DroneID,
			Latitude:     wp.Latitude,
			Longitude:    wp.Longitude,
			Altitude:     float64(50 + i%10),
			Speed:        float64(25 + i%15),
			BatteryLevel: &battery,
			Status:       &status,
		}

		// No retry and no compensating transaction: a failed persist
		// aborts the run.
		if err := m.store.RecordSample(ctx, sample); err != nil {
			slog.ErrorContext(ctx, "simulation aborted: persist failed",
				slog.Int64("order_id", run.OrderID),
				slog.String("run_id", run.ID.String()),
				slog.Int("waypoint", i),
				slog.String("error", err.Error()),
			)
			return
		}

		m.broadcaster.Publish(run.OrderID, tracking.PositionEvent{
			Type:           tracking.EventTypePositionUpdate,
			OrderID:        run.OrderID,
			DroneID:        run.DroneID,
			Latitude:       sample.Latitude,
			Longitude:      sample.Longitude,
			Altitude:       sample.Altitude,
			Speed:          sample.Speed,
			BatteryLevel:   sample.BatteryLevel,
			Status:         sample.Status,
			Waypoint:       i + 1,
			TotalWaypoints: total,
			Timestamp:      sample.Timestamp.Format(time.RFC3339Nano),
		})

		select {
		case <-time.After(m.cfg.StepInterval):
		case <-ctx.Done():
			slog.InfoContext(ctx, "simulation cancelled",
				slog.Int64("order_id", run.OrderID),
				slog.String("run_id", run.ID.String()),
				slog.Int("waypoint", i),
			)
			return
		}
	}

	slog.Info("simulation completed",
		slog.Int64("order_id", run.OrderID),
		slog.String("run_id", run.ID.String()),
		slog.Int("waypoints", total),
	)
}

func (m *Manager) raiseDepleted(ctx context.Context, run *Run) {
	err := m.alerts.Raise(ctx, run.DroneID, "battery_depleted", "critical",
		fmt.Sprintf("Simulated battery hit the floor during order %d", run.OrderID))
	if err != nil {
		slog.ErrorContext(ctx, "failed to raise depletion alert",
			slog.Int64("drone_id", run.DroneID),
			slog.String("error", err.Error()),
		)
	}
}
