package qsynth

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Metrics tracks record throughput and latency for a worker pool.
type Metrics struct {
	mu           sync.RWMutex
	WorkerCount  int
	RecordCount  int64
	FailureCount int64
	TotalTime    time.Duration

	AverageLatency time.Duration
	P95Latency     time.Duration
	P99Latency     time.Duration
	SuccessRate    float64

	// Sliding window of the most recent latencies
	latencies  []time.Duration
	windowSize int
}

func NewMetrics() *Metrics {
	return &Metrics{
		latencies:  make([]time.Duration, 0, 1000),
		windowSize: 1000,
	}
}

func (m *Metrics) recordExecution(startTime time.Time, success bool) {
	duration := time.Since(startTime)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalTime += duration
	m.RecordCount++

	if !success {
		m.FailureCount++
	}
	m.SuccessRate = float64(m.RecordCount-m.FailureCount) / float64(m.RecordCount)

	m.updateLatencyPercentiles(duration)
}

func (m *Metrics) updateLatencyPercentiles(duration time.Duration) {
	m.AverageLatency = (m.AverageLatency*time.Duration(m.RecordCount-1) + duration) / time.Duration(m.RecordCount)

	m.latencies = append(m.latencies, duration)
	if len(m.latencies) > m.windowSize {
		m.latencies = m.latencies[len(m.latencies)-m.windowSize:]
	}

	window := make([]float64, len(m.latencies))
	for i, l := range m.latencies {
		window[i] = float64(l)
	}
	sort.Float64s(window)

	m.P95Latency = time.Duration(stat.Quantile(0.95, stat.Empirical, window, nil))
	m.P99Latency = time.Duration(stat.Quantile(0.99, stat.Empirical, window, nil))
}

func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"worker_count":  m.WorkerCount,
		"record_count":  m.RecordCount,
		"failure_count": m.FailureCount,
		"success_rate":  m.SuccessRate,
		"avg_latency":   m.AverageLatency.Microseconds(),
		"p95_latency":   m.P95Latency.Microseconds(),
		"p99_latency":   m.P99Latency.Microseconds(),
	}
}
