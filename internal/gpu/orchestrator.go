package gpu

import (
	"context"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/sdpb-go/limbblas/internal/errors"
)

// Orchestrator distributes the outer limb-index loop of a GEMM or SYRK
// convolution across a fleet of Devices. With zero Devices it is inert:
// callers should check Orchestrator.Enabled() and fall back to the host
// Convolution Engine.
type Orchestrator struct {
	Devices []Device
}

// Enabled reports whether the orchestrator has any device to dispatch to.
func (o *Orchestrator) Enabled() bool { return len(o.Devices) > 0 }

// AssignDevice returns which device limb index i of sc total output limbs
// should run on, using the fixed formula gpu_id = i*gpu_count/sc. Each
// device gets one contiguous block of limb indices, and the blocks differ
// in size by at most one index. The per-index cost grows with i, so the
// device with the highest id receives the most expensive indices.
func (o *Orchestrator) AssignDevice(i, sc int) (int, error) {
	if !o.Enabled() {
		return -1, apperrors.BackendFaultError{Op: "gpu.AssignDevice", Cause: errNoDevices}
	}
	if sc <= 0 {
		return -1, apperrors.NewDimensionMismatch("gpu.AssignDevice: sc must be positive, got %d", sc)
	}
	return i * len(o.Devices) / sc, nil
}

var errNoDevices = errDeviceless("no GPU devices configured")

type errDeviceless string

func (e errDeviceless) Error() string { return string(e) }

// BroadcastToDevices copies src to every device's mirror of the same
// buffer, in parallel, synchronizing all devices before returning.
func (o *Orchestrator) BroadcastToDevices(ctx context.Context, deviceBuffers [][]float64, src []float64) error {
	if len(deviceBuffers) != len(o.Devices) {
		return apperrors.NewDimensionMismatch("gpu.BroadcastToDevices: %d device buffers for %d devices", len(deviceBuffers), len(o.Devices))
	}
	g, _ := errgroup.WithContext(ctx)
	for i, dev := range o.Devices {
		dev, buf := dev, deviceBuffers[i]
		g.Go(func() error {
			dev.CopyToDevice(buf, src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return apperrors.WrapError(err, "gpu.BroadcastToDevices")
	}
	for _, dev := range o.Devices {
		dev.Synchronize()
	}
	return nil
}
