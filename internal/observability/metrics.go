package observability

import (
	"fmt"
	"sync"
	"time"
)

// Metrics keeps per-route request and error counters in process memory.
type Metrics struct {
	mu       sync.Mutex
	requests map[string]int64
	errors   map[string]int64
}

// NewMetrics initializes empty counters.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]int64),
		errors:   make(map[string]int64),
	}
}

// RecordRequest counts a finished request under its method, path and status.
func (m *Metrics) RecordRequest(path, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	key := fmt.Sprintf("%s %s %d", method, path, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[key]++
}

// RecordError counts a translated error under its method, path and code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := fmt.Sprintf("%s %s %s", method, path, code)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[key]++
}
