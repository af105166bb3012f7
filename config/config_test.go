package config_test

import (
	"testing"

	"github.com/pixelforge/imagegraph/config"
)

func TestDefault_FieldsMatchBaseline(t *testing.T) {
	c := config.Default()
	if c.WorkerCount != 0 {
		t.Errorf("got WorkerCount %d, want 0 (NumCPU sentinel)", c.WorkerCount)
	}
	if c.QueueSize != 256 {
		t.Errorf("got QueueSize %d, want 256", c.QueueSize)
	}
	if c.MaxRetries != 3 {
		t.Errorf("got MaxRetries %d, want 3", c.MaxRetries)
	}
	if c.DefaultQuality != 85 {
		t.Errorf("got DefaultQuality %d, want 85", c.DefaultQuality)
	}
	if c.Storage != config.StorageLocal {
		t.Errorf("got Storage %v, want StorageLocal", c.Storage)
	}
	if c.Executor.Kind != config.ExecutorSequential {
		t.Errorf("got Executor.Kind %v, want ExecutorSequential", c.Executor.Kind)
	}
	if c.Parity.Tolerance != 0 {
		t.Errorf("got Parity.Tolerance %v, want 0", c.Parity.Tolerance)
	}
	if c.AdaptiveCompression.MinQuality >= c.AdaptiveCompression.MaxQuality {
		t.Errorf("default AdaptiveCompression range is inverted: min=%d max=%d",
			c.AdaptiveCompression.MinQuality, c.AdaptiveCompression.MaxQuality)
	}
}

func TestValidate_DefaultConfigPasses(t *testing.T) {
	if err := config.Validate(config.Default()); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

func TestValidate_RejectsOutOfRangeQuality(t *testing.T) {
	for _, q := range []int{0, -1, 101} {
		c := config.Default()
		c.DefaultQuality = q
		if err := config.Validate(c); err == nil {
			t.Errorf("DefaultQuality=%d: expected validation error, got nil", q)
		}
	}
}

func TestValidate_RejectsNonPositiveChunkSize(t *testing.T) {
	for _, sz := range []int{0, -32} {
		c := config.Default()
		c.ChunkSize = sz
		if err := config.Validate(c); err == nil {
			t.Errorf("ChunkSize=%d: expected validation error, got nil", sz)
		}
	}
}

func TestValidate_RejectsInvertedAdaptiveRangeWhenEnabled(t *testing.T) {
	c := config.Default()
	c.AdaptiveCompression.Enabled = true
	c.AdaptiveCompression.MinQuality = 90
	c.AdaptiveCompression.MaxQuality = 90
	if err := config.Validate(c); err == nil {
		t.Error("expected validation error for MinQuality >= MaxQuality when enabled")
	}
}

func TestValidate_IgnoresInvertedAdaptiveRangeWhenDisabled(t *testing.T) {
	c := config.Default()
	c.AdaptiveCompression.Enabled = false
	c.AdaptiveCompression.MinQuality = 90
	c.AdaptiveCompression.MaxQuality = 10
	if err := config.Validate(c); err != nil {
		t.Errorf("disabled adaptive compression should skip range check, got %v", err)
	}
}

func TestValidate_RejectsNonZeroParityTolerance(t *testing.T) {
	c := config.Default()
	c.Parity.Tolerance = 1
	if err := config.Validate(c); err == nil {
		t.Error("expected validation error for non-zero Parity.Tolerance")
	}
}
