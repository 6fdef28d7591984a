package observability

import (
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

// Metric names.
const (
	MetricOperationTotal    = "mindful.operation.total"
	MetricOperationDuration = "mindful.operation.duration"
	MetricOperationErrors   = "mindful.operation.errors"

	MetricHTTPRequests        = "mindful.http.requests"
	MetricHTTPRequestDuration = "mindful.http.request_duration"

	MetricNotificationsSent   = "mindful.notifications.sent"
	MetricNotificationsFailed = "mindful.notifications.failed"
)

// Metrics is the sink the application records to.
type Metrics interface {
	Counter(name string, value int64, tags ...Tag)
	Timing(name string, d time.Duration, tags ...Tag)
}

// Tag labels a metric.
type Tag struct {
	Key, Value string
}

func T(key, value string) Tag { return Tag{Key: key, Value: value} }

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) Counter(string, int64, ...Tag)        {}
func (NoopMetrics) Timing(string, time.Duration, ...Tag) {}

// InMemoryMetrics aggregates in process. The API serves Snapshot at
// /api/metrics and tests read values back.
type InMemoryMetrics struct {
	mu       sync.RWMutex
	counters map[string]int64
	timings  map[string][]time.Duration
}

func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{counters: map[string]int64{}, timings: map[string][]time.Duration{}}
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	k := seriesKey(name, tags)
	m.mu.Lock()
	m.counters[k] += value
	m.mu.Unlock()
}

func (m *InMemoryMetrics) Timing(name string, d time.Duration, tags ...Tag) {
	k := seriesKey(name, tags)
	m.mu.Lock()
	m.timings[k] = append(m.timings[k], d)
	m.mu.Unlock()
}

func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[seriesKey(name, tags)]
}

func (m *InMemoryMetrics) GetTimings(name string, tags ...Tag) []time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.timings[seriesKey(name, tags)])
}

// Snapshot copies all counters keyed by series.
func (m *InMemoryMetrics) Snapshot() map[string]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.counters)
}

// seriesKey renders name:k=v pairs in the order given.
func seriesKey(name string, tags []Tag) string {
	var b strings.Builder
	b.WriteString(name)
	for _, t := range tags {
		b.WriteByte(':')
		b.WriteString(t.Key)
		b.WriteByte('=')
		b.WriteString(t.Value)
	}
	return b.String()
}
