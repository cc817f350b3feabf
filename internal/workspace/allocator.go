// Package workspace implements the engine's host buffer allocator: the A,
// B, C, and scratch T limb-plane buffers that every GEMM and SYRK call
// sizes, grown monotonically and never shrunk across calls on the same
// Engine. The Limb Codec and the Convolution Engine allocate their own
// limb-plane storage and do not read or write these buffers.
package workspace

import apperrors "github.com/sdpb-go/limbblas/internal/errors"

// Allocator owns four reusable host buffers, sized by GEMMReduced and
// SYRKReduced to each call's limb-plane requirements; nothing else reads
// or writes them. Ensure grows a buffer to at least the requested length,
// keeping the larger of its current and requested capacity; it never
// reallocates smaller, mirroring the monotone-growth discipline the
// teacher's FFT buffer pools apply per size class, specialized here to a
// single long-lived owner instead of a shared sync.Pool.
type Allocator struct {
	A []float64
	B []float64
	C []float64
	T []float64
}

// New returns an Allocator with all four buffers empty.
func New() *Allocator { return &Allocator{} }

func ensure(buf *[]float64, n uint64, name string) error {
	if n > uint64(maxSliceLen) {
		return apperrors.AllocationFailureError{Buffer: name, Requested: n}
	}
	if uint64(len(*buf)) >= n {
		return nil
	}
	grown := make([]float64, n)
	copy(grown, *buf)
	*buf = grown
	return nil
}

// maxSliceLen bounds how large a single buffer Ensure will attempt to
// grow to, guarding against a runaway allocation request turning into an
// out-of-memory crash instead of a reported AllocationFailureError.
const maxSliceLen = 1 << 34

// Ensure grows A, B, C, and the scratch buffer T (sized to the largest of
// the three) to at least the requested lengths. It never shrinks a buffer
// that is already large enough, so repeated calls across a growing
// sequence of operations amortize their allocations.
func (w *Allocator) Ensure(memA, memB, memC uint64) error {
	if err := ensure(&w.A, memA, "A"); err != nil {
		return err
	}
	if err := ensure(&w.B, memB, "B"); err != nil {
		return err
	}
	if err := ensure(&w.C, memC, "C"); err != nil {
		return err
	}
	scratch := memA
	if memB > scratch {
		scratch = memB
	}
	if memC > scratch {
		scratch = memC
	}
	return ensure(&w.T, scratch, "T")
}

// Reset zeroes the live prefix of A, B, C, and T without releasing their
// backing storage, so the next Ensure call can reuse it.
func (w *Allocator) Reset() {
	clear(w.A)
	clear(w.B)
	clear(w.C)
	clear(w.T)
}
