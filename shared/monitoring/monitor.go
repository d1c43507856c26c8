package monitoring

import (
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type Monitor struct {
	mu             sync.RWMutex
	lastRunSuccess bool
	lastRunTime    time.Time
	lastSummary    string
	lastError      string
	now            func() time.Time
}

func NewMonitor() *Monitor {
	return &Monitor{now: time.Now}
}

func (m *Monitor) RecordSuccess(summary string, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = true
	m.lastRunTime = m.now()
	m.lastSummary = summary
	m.lastError = ""
	m.mu.Unlock()

	log.WithField("duration", duration).Infof("✅ Run completed successfully - %s", summary)
}

func (m *Monitor) RecordPartialFailure(err error, duration time.Duration) {
	// Don't change health status for partial failures
	log.WithField("duration", duration).Warnf("⚠️  PARTIAL FAILURE: %s", err.Error())
}

func (m *Monitor) RecordCriticalFailure(err error, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = false
	m.lastRunTime = m.now()
	m.lastError = err.Error()
	m.mu.Unlock()

	log.WithField("duration", duration).Errorf("🚨 CRITICAL FAILURE: %s", err.Error())
}

func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return true // No runs yet, assume healthy
	}
	return m.lastRunSuccess
}

func (m *Monitor) GetStatusSummary() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return "No runs yet"
	}

	if m.lastRunSuccess {
		return fmt.Sprintf("✅ Last run: %s (%s)", m.lastRunTime.Format("Jan 2 15:04"), m.lastSummary)
	}
	return fmt.Sprintf("❌ Last run failed: %s (%s)", m.lastRunTime.Format("Jan 2 15:04"), m.lastError)
}
