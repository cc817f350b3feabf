package convolution

import (
	"context"

	gblas "gonum.org/v2/gonum/blas"

	"golang.org/x/sync/errgroup"

	"github.com/sdpb-go/limbblas/internal/gpu"
	"github.com/sdpb-go/limbblas/internal/limb"
	"github.com/sdpb-go/limbblas/internal/telemetry"
)

// broadcastOperand mirrors src to every device in orch, returning one
// buffer per device, timed under the given label.
func broadcastOperand(ctx context.Context, registry telemetry.Registry, orch *gpu.Orchestrator, label string, src []float64) ([][]float64, error) {
	_, stop := registry.Start(ctx, label)
	bufs := make([][]float64, len(orch.Devices))
	for i := range bufs {
		bufs[i] = make([]float64, len(src))
	}
	err := orch.BroadcastToDevices(ctx, bufs, src)
	stop(err)
	if err != nil {
		return nil, err
	}
	return bufs, nil
}

// GemmDevice computes the same limb-index convolution as GemmSchoolbook,
// spreading the outer limb-index loop across orch's devices instead of
// running it on the host Provider. Each device owns a full mirror of a
// and b (broadcast once) and only ever computes the limb indices
// AssignDevice routes to it, so the per-device loops below never touch
// the same output plane and need no further synchronization.
func GemmDevice(ctx context.Context, registry telemetry.Registry, orch *gpu.Orchestrator, d Dims, a, b *limb.Matrix, sc int) (*limb.Matrix, error) {
	c := &limb.Matrix{Rows: d.M, Cols: d.N, S: sc, LimbWidth: a.LimbWidth, Exp: a.Exp + b.Exp - a.LimbWidth, Data: make([]float64, sc*d.M*d.N)}

	arows, acols := operandDims(d.TransA, d.M, d.K)
	brows, bcols := operandDims(d.TransB, d.K, d.N)

	devA, err := broadcastOperand(ctx, registry, orch, telemetry.LabelGemmGPUCopyForward, a.Data)
	if err != nil {
		return nil, err
	}
	devB, err := broadcastOperand(ctx, registry, orch, telemetry.LabelGemmGPUCopyForward, b.Data)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	for devID := range orch.Devices {
		devID := devID
		g.Go(func() error {
			dev := orch.Devices[devID]
			for i := 0; i < sc; i++ {
				assigned, err := orch.AssignDevice(i, sc)
				if err != nil {
					return err
				}
				if assigned != devID {
					continue
				}
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				cPlane := c.Plane(i)
				for j := 0; j <= i; j++ {
					ai := i - j
					if ai >= a.S || j >= b.S {
						continue
					}
					aPlane := devA[devID][ai*arows*acols : (ai+1)*arows*acols]
					bPlane := devB[devID][j*brows*bcols : (j+1)*brows*bcols]
					dev.Gemm(d.TransA, d.TransB, d.M, d.N, d.K, aPlane, acols, bPlane, bcols, cPlane, d.N)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	_, stopBack := registry.Start(ctx, telemetry.LabelGemmGPUCopyBack)
	for _, dev := range orch.Devices {
		dev.Synchronize()
	}
	stopBack(nil)

	return c, nil
}

// SyrkDevice computes the same limb-index convolution as SyrkSchoolbook,
// spreading the outer limb-index loop across orch's devices. Geam folds a
// device Gemm product and its transpose into the symmetric contribution a
// host Provider call gets from summing tmp with its own transpose.
func SyrkDevice(ctx context.Context, registry telemetry.Registry, orch *gpu.Orchestrator, d Dims, a *limb.Matrix, sc int) (*limb.Matrix, error) {
	c := &limb.Matrix{Rows: d.M, Cols: d.M, S: sc, LimbWidth: a.LimbWidth, Exp: 2*a.Exp - a.LimbWidth, Data: make([]float64, sc*d.M*d.M)}

	arows, acols := operandDims(d.TransA, d.M, d.K)

	devA, err := broadcastOperand(ctx, registry, orch, telemetry.LabelSyrkGPUCopyForward, a.Data)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	for devID := range orch.Devices {
		devID := devID
		g.Go(func() error {
			dev := orch.Devices[devID]
			for i := 0; i < sc; i++ {
				assigned, err := orch.AssignDevice(i, sc)
				if err != nil {
					return err
				}
				if assigned != devID {
					continue
				}
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				cPlane := c.Plane(i)
				tmp := make([]float64, d.M*d.M)

				pairs := i/2 + i%2
				for j := 0; j < pairs; j++ {
					ai := i - j
					if ai >= a.S || j >= a.S {
						continue
					}
					aj := devA[devID][j*arows*acols : (j+1)*arows*acols]
					aiP := devA[devID][ai*arows*acols : (ai+1)*arows*acols]
					for e := range tmp {
						tmp[e] = 0
					}
					dev.Gemm(d.TransA, transposeOf(d.TransA), d.M, d.M, d.K, aj, acols, aiP, acols, tmp, d.M)
					sym := make([]float64, d.M*d.M)
					dev.Geam(gblas.Trans, d.M, d.M, tmp, d.M, tmp, d.M, sym, d.M)
					for e := range cPlane {
						cPlane[e] += sym[e]
					}
				}

				if i%2 == 0 {
					mid := i / 2
					if mid < a.S {
						amid := devA[devID][mid*arows*acols : (mid+1)*arows*acols]
						dev.Syrk(true, d.TransA, d.M, d.K, amid, acols, cPlane, d.M)
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	_, stopBack := registry.Start(ctx, telemetry.LabelSyrkGPUCopyBack)
	for _, dev := range orch.Devices {
		dev.Synchronize()
	}
	stopBack(nil)

	return c, nil
}
