// Package hooks provides production-ready Hook, Logger, and
// MetricsCollector implementations; pipeline.Pipeline invokes registered
// Hooks around each filter step.
package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Logger is a minimal structured logging interface, unchanged in shape
// from the teacher's core.Logger.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// Hook is an optional observer invoked around graph-node execution,
// generalized from the teacher's core.Hook (BeforeStep/AfterStep over a
// single *ImageData) to a node name, plus the step's duration and error
// after it runs. pipeline.Pipeline is the caller.
type Hook interface {
	BeforeNode(ctx context.Context, nodeName string)
	AfterNode(ctx context.Context, nodeName string, d time.Duration, err error)
}

// MetricsCollector receives performance observations from the executor.
type MetricsCollector interface {
	RecordProcessingTime(nodeName string, d time.Duration)
	RecordThroughput(bytes int64)
	RecordError(nodeName string, kind string)
}

// ── Structured logger adapter ─────────────────────────────────────────────────

// SlogLogger wraps the standard library slog.Logger to satisfy Logger.
type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger creates a logger backed by slog.
func NewSlogLogger(l *slog.Logger) *SlogLogger { return &SlogLogger{log: l} }

func (s *SlogLogger) Debug(msg string, fields ...interface{}) {
	s.log.Debug(msg, toAttrs(fields)...)
}
func (s *SlogLogger) Info(msg string, fields ...interface{}) {
	s.log.Info(msg, toAttrs(fields)...)
}
func (s *SlogLogger) Warn(msg string, fields ...interface{}) {
	s.log.Warn(msg, toAttrs(fields)...)
}
func (s *SlogLogger) Error(msg string, fields ...interface{}) {
	s.log.Error(msg, toAttrs(fields)...)
}

func toAttrs(fields []interface{}) []any { return fields }

// ── Logging hook ──────────────────────────────────────────────────────────────

// LoggingHook logs before/after each node invocation.
type LoggingHook struct {
	logger Logger
}

// NewLoggingHook creates a LoggingHook.
func NewLoggingHook(l Logger) *LoggingHook { return &LoggingHook{logger: l} }

func (h *LoggingHook) BeforeNode(_ context.Context, nodeName string) {
	h.logger.Debug("graph.node.start", "node", nodeName)
}

func (h *LoggingHook) AfterNode(_ context.Context, nodeName string, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("graph.node.error",
			"node", nodeName,
			"duration_ms", d.Milliseconds(),
			"error", err.Error(),
		)
		return
	}
	h.logger.Debug("graph.node.done",
		"node", nodeName,
		"duration_ms", d.Milliseconds(),
	)
}

// ── In-memory metrics collector ───────────────────────────────────────────────

// InMemoryMetrics accumulates metrics atomically; safe for concurrent use.
type InMemoryMetrics struct {
	mu sync.RWMutex

	nodeDurationsMs map[string]int64 // cumulative ms per node
	nodeCalls       map[string]int64 // call count per node
	nodeErrors      map[string]int64

	totalThroughputB int64
}

// NewInMemoryMetrics creates an empty metrics store.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		nodeDurationsMs: make(map[string]int64),
		nodeCalls:       make(map[string]int64),
		nodeErrors:      make(map[string]int64),
	}
}

func (m *InMemoryMetrics) RecordProcessingTime(nodeName string, d time.Duration) {
	ms := d.Milliseconds()
	m.mu.Lock()
	m.nodeDurationsMs[nodeName] += ms
	m.nodeCalls[nodeName]++
	m.mu.Unlock()
}

func (m *InMemoryMetrics) RecordThroughput(bytes int64) {
	atomic.AddInt64(&m.totalThroughputB, bytes)
}

func (m *InMemoryMetrics) RecordError(nodeName string, _ string) {
	m.mu.Lock()
	m.nodeErrors[nodeName]++
	m.mu.Unlock()
}

// Snapshot returns a copy of current metrics.
func (m *InMemoryMetrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		NodeDurationsMs:  make(map[string]int64, len(m.nodeDurationsMs)),
		NodeCalls:        make(map[string]int64, len(m.nodeCalls)),
		NodeErrors:       make(map[string]int64, len(m.nodeErrors)),
		TotalThroughputB: atomic.LoadInt64(&m.totalThroughputB),
	}
	for k, v := range m.nodeDurationsMs {
		snap.NodeDurationsMs[k] = v
	}
	for k, v := range m.nodeCalls {
		snap.NodeCalls[k] = v
	}
	for k, v := range m.nodeErrors {
		snap.NodeErrors[k] = v
	}
	return snap
}

// MetricsSnapshot is an immutable point-in-time copy of metrics.
type MetricsSnapshot struct {
	NodeDurationsMs  map[string]int64
	NodeCalls        map[string]int64
	NodeErrors       map[string]int64
	TotalThroughputB int64
}

// ── Metrics hook ──────────────────────────────────────────────────────────────

// MetricsHook feeds executor events into a MetricsCollector.
type MetricsHook struct {
	collector MetricsCollector
}

// NewMetricsHook creates a MetricsHook.
func NewMetricsHook(c MetricsCollector) *MetricsHook { return &MetricsHook{collector: c} }

func (h *MetricsHook) BeforeNode(_ context.Context, _ string) {}

func (h *MetricsHook) AfterNode(_ context.Context, nodeName string, d time.Duration, err error) {
	h.collector.RecordProcessingTime(nodeName, d)
	if err != nil {
		h.collector.RecordError(nodeName, fmt.Sprintf("%v", err))
	}
}
