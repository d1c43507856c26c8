package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"drone-dashboard/shared/monitoring"
)

type testMetrics string

func (m testMetrics) GetSummary() string { return string(m) }

type fakeAgent struct {
	runs atomic.Int32
	err  error
}

func (f *fakeAgent) Name() string      { return "Fake Agent" }
func (f *fakeAgent) Initialize() error { return nil }

func (f *fakeAgent) RunOnce(ctx context.Context, events *AgentEvents) error {
	f.runs.Add(1)
	if f.err != nil {
		return f.err
	}
	events.OnSuccess(testMetrics("all good"), time.Millisecond)
	return nil
}

func TestRunOnceSuccess(t *testing.T) {
	monitor := monitoring.NewMonitor()
	agent := &fakeAgent{}
	s := New("*/5 * * * *", agent, monitor)

	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if agent.runs.Load() != 1 {
		t.Errorf("expected 1 run, got %d", agent.runs.Load())
	}
	if !monitor.IsHealthy() {
		t.Error("monitor should be healthy")
	}
	if !strings.Contains(monitor.GetStatusSummary(), "all good") {
		t.Errorf("status summary = %q", monitor.GetStatusSummary())
	}
}

func TestRunOnceFailure(t *testing.T) {
	monitor := monitoring.NewMonitor()
	agent := &fakeAgent{err: errors.New("weather API returned status 500")}
	s := New("*/5 * * * *", agent, monitor)

	err := s.RunOnce(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Fake Agent run failed") {
		t.Errorf("error = %v", err)
	}
	if monitor.IsHealthy() {
		t.Error("monitor should be unhealthy after failure")
	}
}

func TestStartInvalidSchedule(t *testing.T) {
	s := New("not a schedule", &fakeAgent{}, monitoring.NewMonitor())

	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	s := New("0 9 * * *", &fakeAgent{}, monitoring.NewMonitor())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Start() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
