// Package gpu implements the GPU Orchestrator: the abstract seam a
// multi-device accelerator backend plugs into, plus the fixed block
// limb-index assignment that spreads a convolution's outer
// loop across however many devices are configured. No concrete
// accelerator binding ships here — wiring a real one means implementing
// Device against that accelerator's Go or cgo bindings and handing it to
// Orchestrator.
package gpu

import (
	gblas "gonum.org/v2/gonum/blas"
)

// Device is the seam a single accelerator plugs into: BLAS primitives
// plus host/device transfer, everything the orchestrator needs to drive
// one limb-index's worth of work on one GPU. Geam is the transpose-add
// primitive the SYRK path uses to fold a Gemm product and its transpose
// into one symmetric contribution without computing the second Gemm.
//
// Gemm and Syrk accumulate (c += ...), matching blas.Provider's implicit
// alpha=1, beta=1 contract; uplo true means c's upper triangle.
type Device interface {
	Gemm(tA, tB gblas.Transpose, m, n, k int, a []float64, lda int, b []float64, ldb int, c []float64, ldc int)
	Syrk(uplo bool, tA gblas.Transpose, n, k int, a []float64, lda int, c []float64, ldc int)
	Geam(tA gblas.Transpose, m, n int, a []float64, lda int, b []float64, ldb int, c []float64, ldc int)
	CopyToDevice(dst, src []float64)
	CopyFromDevice(dst, src []float64)
	Synchronize()
}
