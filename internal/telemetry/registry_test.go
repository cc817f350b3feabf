package telemetry

import (
	"context"
	"errors"
	"testing"
)

func TestPromOtelRegistryStartStop(t *testing.T) {
	t.Parallel()
	reg := NewPromOtelRegistry("limbblas-test")
	ctx, stop := reg.Start(context.Background(), LabelGemmComplete)
	if ctx == nil {
		t.Fatal("expected a non-nil context")
	}
	stop(nil)
	stop(errors.New("second call records an error status"))
}

func TestNoopRegistryDoesNothing(t *testing.T) {
	t.Parallel()
	var reg NoopRegistry
	ctx, stop := reg.Start(context.Background(), LabelSyrkComplete)
	if ctx == nil {
		t.Fatal("expected a non-nil context")
	}
	stop(nil)
}
