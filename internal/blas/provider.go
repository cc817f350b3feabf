// Package blas defines the engine's BLAS contract: the narrow subset of
// double-precision matrix routines the Convolution Engine drives per limb
// plane, and a gonum-backed implementation of it.
package blas

//go:generate mockgen -source=provider.go -destination=mocks/mock_provider.go -package=mocks

import (
	"gonum.org/v2/gonum/blas"
	"gonum.org/v2/gonum/blas/blas64"
)

// Provider is the BLAS contract the Convolution Engine and GPU Orchestrator
// are written against. It covers exactly the two routines the limb
// convolution needs: general matrix multiply and symmetric rank-k update,
// both with implicit alpha=1, beta=1.
type Provider interface {
	// Gemm computes c = tA(a)*tB(b) + c.
	Gemm(tA, tB blas.Transpose, a, b blas64.General, c blas64.General)

	// Syrk computes c = t(a)*a + c (t==blas.Trans) or c = a*t(a) + c
	// (t==blas.NoTrans), writing only the upper triangle of c.
	Syrk(t blas.Transpose, a blas64.General, c blas64.Symmetric)
}

// GonumProvider implements Provider against gonum's native Go BLAS
// implementation (gonum.org/v2/gonum/blas/blas64), which requires no cgo
// and no external BLAS library.
type GonumProvider struct{}

// Gemm implements Provider.
func (GonumProvider) Gemm(tA, tB blas.Transpose, a, b blas64.General, c blas64.General) {
	blas64.Gemm(tA, tB, 1, a, b, 1, c)
}

// Syrk implements Provider.
func (GonumProvider) Syrk(t blas.Transpose, a blas64.General, c blas64.Symmetric) {
	blas64.Syrk(t, 1, a, 1, c)
}
