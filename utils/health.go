package utils

import (
	"context"
	"sync"
	"time"
)

// Pinger is implemented by every external dependency the health monitor watches.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Services  map[string]bool `json:"services"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// Healthy reports whether every watched service answered its last ping.
func (h HealthStatus) Healthy() bool {
	for _, ok := range h.Services {
		if !ok {
			return false
		}
	}
	return true
}

// HealthMonitor keeps the latest health snapshot of the watched services.
type HealthMonitor struct {
	targets  map[string]Pinger
	interval time.Duration

	mu      sync.RWMutex
	current HealthStatus
}

func NewHealthMonitor(targets map[string]Pinger, interval time.Duration) *HealthMonitor {
	return &HealthMonitor{targets: targets, interval: interval}
}

// Status returns latest stored health snapshot.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Check pings every target once and stores the result.
func (m *HealthMonitor) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{Services: make(map[string]bool, len(m.targets)), CheckedAt: time.Now()}
	for name, target := range m.targets {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		status.Services[name] = target.Ping(pctx) == nil
		cancel()
	}

	m.mu.Lock()
	m.current = status
	m.mu.Unlock()
	return status
}

// Start performs an immediate check and then re-checks every interval until ctx is done.
func (m *HealthMonitor) Start(ctx context.Context) {
	m.Check(ctx)
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Check(ctx)
			}
		}
	}()
}
