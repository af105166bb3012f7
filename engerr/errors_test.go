package engerr_test

import (
	"errors"
	"testing"

	"github.com/pixelforge/imagegraph/engerr"
)

func TestNew_WrapsAndUnwraps(t *testing.T) {
	err := engerr.New(engerr.InvalidArgument, "resize.params", engerr.ErrInvalidDimensions)
	if !errors.Is(err, engerr.ErrInvalidDimensions) {
		t.Error("errors.Is should see through to the wrapped sentinel")
	}
	if err.Kind != engerr.InvalidArgument {
		t.Errorf("Kind = %s, want %s", err.Kind, engerr.InvalidArgument)
	}
}

func TestWrap_NilIsNil(t *testing.T) {
	if engerr.Wrap(engerr.CodecFailure, "op", nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestIs(t *testing.T) {
	err := engerr.New(engerr.GraphInvalid, "graph.validate", engerr.ErrCyclicGraph)
	if !engerr.Is(err, engerr.GraphInvalid) {
		t.Error("Is should report true for a matching Kind")
	}
	if engerr.Is(err, engerr.CodecFailure) {
		t.Error("Is should report false for a non-matching Kind")
	}
	if engerr.Is(errors.New("plain error"), engerr.GraphInvalid) {
		t.Error("Is should report false for a non-*Error")
	}
}

func TestIsRetryable(t *testing.T) {
	transient := engerr.Transient("storage.put", errors.New("timeout"))
	if !engerr.IsRetryable(transient) {
		t.Error("Transient errors should be retryable")
	}
	permanent := engerr.New(engerr.InvalidArgument, "resize.params", engerr.ErrInvalidDimensions)
	if engerr.IsRetryable(permanent) {
		t.Error("New errors should not be retryable by default")
	}
}
