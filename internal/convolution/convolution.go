package convolution

import (
	"context"

	"github.com/sdpb-go/limbblas/internal/blas"
	"github.com/sdpb-go/limbblas/internal/gpu"
	"github.com/sdpb-go/limbblas/internal/limb"
	"github.com/sdpb-go/limbblas/internal/telemetry"
)

// Engine drives the Convolution Engine's GEMM and SYRK limb convolutions
// against a BLAS provider, selecting schoolbook or Karatsuba per call based
// on the output limb count. When Orch has devices configured, Gemm and
// Syrk dispatch to them instead of the host Provider.
type Engine struct {
	Provider         blas.Provider
	KaratsubaMin     int
	KaratsubaEnabled bool
	Workers          int
	Orch             *gpu.Orchestrator
	Registry         telemetry.Registry
}

func (e *Engine) registry() telemetry.Registry {
	if e.Registry != nil {
		return e.Registry
	}
	return telemetry.NoopRegistry{}
}

// Gemm computes the limb-index convolution C = tA(A)*tB(B). With GPU
// devices configured it runs the convolution across them; otherwise it
// chooses Karatsuba over schoolbook once the output limb count reaches
// KaratsubaMin, keeping both host algorithms available behind this one
// runtime selector rather than one replacing the other.
func (e *Engine) Gemm(ctx context.Context, d Dims, a, b *limb.Matrix, sc int) (*limb.Matrix, error) {
	if e.Orch != nil && e.Orch.Enabled() {
		return GemmDevice(ctx, e.registry(), e.Orch, d, a, b, sc)
	}
	if e.KaratsubaEnabled && sc >= e.KaratsubaMin {
		return GemmKaratsuba(ctx, e.Provider, d, a, b, sc, e.Workers)
	}
	return GemmSchoolbook(ctx, e.Provider, d, a, b, sc, e.Workers)
}

// Syrk computes the limb-index convolution of a symmetric rank-k update,
// C = tA(A)*tA(A)^T (or its transpose dual), writing only the upper
// triangle of each output plane and exploiting symmetry to halve the
// number of Gemm calls relative to a full Gemm-based convolution. With GPU
// devices configured it runs the convolution across them instead.
func (e *Engine) Syrk(ctx context.Context, d Dims, a *limb.Matrix, sc int) (*limb.Matrix, error) {
	if e.Orch != nil && e.Orch.Enabled() {
		return SyrkDevice(ctx, e.registry(), e.Orch, d, a, sc)
	}
	return SyrkSchoolbook(ctx, e.Provider, d, a, sc, e.Workers)
}
