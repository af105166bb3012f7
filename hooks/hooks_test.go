package hooks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pixelforge/imagegraph/hooks"
)

func TestInMemoryMetrics_SnapshotAccumulates(t *testing.T) {
	m := hooks.NewInMemoryMetrics()
	m.RecordProcessingTime("blur", 10*time.Millisecond)
	m.RecordProcessingTime("blur", 5*time.Millisecond)
	m.RecordThroughput(1024)
	m.RecordError("blur", "invalid_argument")

	snap := m.Snapshot()
	if snap.NodeCalls["blur"] != 2 {
		t.Errorf("got NodeCalls[blur]=%d, want 2", snap.NodeCalls["blur"])
	}
	if snap.NodeDurationsMs["blur"] != 15 {
		t.Errorf("got NodeDurationsMs[blur]=%d, want 15", snap.NodeDurationsMs["blur"])
	}
	if snap.NodeErrors["blur"] != 1 {
		t.Errorf("got NodeErrors[blur]=%d, want 1", snap.NodeErrors["blur"])
	}
	if snap.TotalThroughputB != 1024 {
		t.Errorf("got TotalThroughputB=%d, want 1024", snap.TotalThroughputB)
	}
}

func TestMetricsHook_FeedsCollectorOnAfterNode(t *testing.T) {
	m := hooks.NewInMemoryMetrics()
	h := hooks.NewMetricsHook(m)

	h.BeforeNode(context.Background(), "resize")
	h.AfterNode(context.Background(), "resize", 3*time.Millisecond, nil)
	h.AfterNode(context.Background(), "resize", 2*time.Millisecond, errors.New("boom"))

	snap := m.Snapshot()
	if snap.NodeCalls["resize"] != 2 {
		t.Errorf("got NodeCalls[resize]=%d, want 2", snap.NodeCalls["resize"])
	}
	if snap.NodeErrors["resize"] != 1 {
		t.Errorf("got NodeErrors[resize]=%d, want 1", snap.NodeErrors["resize"])
	}
}

type recordingLogger struct {
	debugMsgs []string
	errorMsgs []string
}

func (l *recordingLogger) Debug(msg string, fields ...interface{}) { l.debugMsgs = append(l.debugMsgs, msg) }
func (l *recordingLogger) Info(msg string, fields ...interface{})  {}
func (l *recordingLogger) Warn(msg string, fields ...interface{})  {}
func (l *recordingLogger) Error(msg string, fields ...interface{}) { l.errorMsgs = append(l.errorMsgs, msg) }

func TestLoggingHook_LogsErrorOnFailure(t *testing.T) {
	rl := &recordingLogger{}
	h := hooks.NewLoggingHook(rl)

	h.BeforeNode(context.Background(), "threshold")
	h.AfterNode(context.Background(), "threshold", time.Millisecond, errors.New("bad input"))

	if len(rl.debugMsgs) != 1 {
		t.Errorf("got %d debug messages, want 1 (BeforeNode)", len(rl.debugMsgs))
	}
	if len(rl.errorMsgs) != 1 {
		t.Errorf("got %d error messages, want 1 (AfterNode with err)", len(rl.errorMsgs))
	}
}

func TestLoggingHook_LogsDebugOnSuccess(t *testing.T) {
	rl := &recordingLogger{}
	h := hooks.NewLoggingHook(rl)

	h.AfterNode(context.Background(), "threshold", time.Millisecond, nil)

	if len(rl.debugMsgs) != 1 {
		t.Errorf("got %d debug messages, want 1", len(rl.debugMsgs))
	}
	if len(rl.errorMsgs) != 0 {
		t.Errorf("got %d error messages, want 0", len(rl.errorMsgs))
	}
}
