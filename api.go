package limbblas

import (
	"context"
	"math/big"

	gblas "gonum.org/v2/gonum/blas"

	"github.com/sdpb-go/limbblas/internal/convolution"
	apperrors "github.com/sdpb-go/limbblas/internal/errors"
	"github.com/sdpb-go/limbblas/internal/limb"
	"github.com/sdpb-go/limbblas/internal/logging"
	"github.com/sdpb-go/limbblas/internal/planner"
	"github.com/sdpb-go/limbblas/internal/scalar"
	"github.com/sdpb-go/limbblas/internal/telemetry"
)

// convDims is a local alias for the convolution package's operand shape
// descriptor, kept short since every Public API entry point builds one.
type convDims = convolution.Dims

// operandShape returns the stored (row-major) shape of an m x k logical
// operand once a transpose request is taken into account: transposed
// operands are physically stored as k x m.
func operandShape(t gblas.Transpose, m, k int) (rows, cols int) {
	if t == gblas.Trans {
		return k, m
	}
	return m, k
}

// BaseCaseMul multiplies two scalars exactly as far as their combined
// precision and guard limbs allow, by running them as 1x1 matrices through
// the limb encoder, the Convolution Engine and the decoder. Unlike
// GEMMReduced it plans with PlanBaseCase, which adds guard limbs, and
// returns a fresh result instead of accumulating into an output.
func (e *Engine) BaseCaseMul(ctx context.Context, a, b *big.Float) (*big.Float, error) {
	ctx, stop := e.startTimer(ctx, telemetry.LabelBaseCaseMultiply)
	var err error
	defer func() { stop(err) }()

	plan, perr := planner.PlanBaseCase(int(a.Prec()), int(b.Prec()))
	if perr != nil {
		err = perr
		return nil, err
	}

	aEnc, eerr := limb.Encode(ctx, []*big.Float{a}, 1, 1, plan.L, plan.Sa, 1)
	if eerr != nil {
		err = eerr
		return nil, err
	}
	bEnc, eerr := limb.Encode(ctx, []*big.Float{b}, 1, 1, plan.L, plan.Sb, 1)
	if eerr != nil {
		err = eerr
		return nil, err
	}

	cEnc, cerr := e.conv.Gemm(ctx, dimsOf(1, 1, 1, gblas.NoTrans, gblas.NoTrans), aEnc, bEnc, plan.Sc)
	if cerr != nil {
		err = cerr
		return nil, err
	}

	resultPrec := a.Prec()
	if b.Prec() > resultPrec {
		resultPrec = b.Prec()
	}
	out, derr := limb.Decode(ctx, cEnc, resultPrec, 1)
	if derr != nil {
		err = derr
		return nil, err
	}
	return out[0], nil
}

func dimsOf(m, n, k int, tA, tB gblas.Transpose) convDims {
	return convDims{M: m, N: n, K: k, TransA: tA, TransB: tB}
}

// GEMMReduced computes c := tA(a)*tB(b) + c (alpha=1, beta=1 always), for
// a, b, and c supplied as row-major, densely packed slices of
// arbitrary-precision scalars: a and b are stored in the physical shape
// their transpose flag implies (k x m if transA requests a transpose,
// m x k otherwise, and symmetrically for b), c is always m x n and must
// already have length m*n; nil entries of c are treated as zero.
func (e *Engine) GEMMReduced(ctx context.Context, layout Layout, transA, transB Transpose, m, n, k int, a, b []*big.Float, c []*big.Float) error {
	ctx, stop := e.startTimer(ctx, telemetry.LabelGemmComplete)
	var err error
	defer func() { stop(err) }()

	if m <= 0 || n <= 0 || k <= 0 {
		err = apperrors.NewDimensionMismatch("gemm_reduced: m=%d n=%d k=%d must all be positive", m, n, k)
		return err
	}
	if len(c) != m*n {
		err = apperrors.NewDimensionMismatch("gemm_reduced: len(c)=%d, want m*n=%d", len(c), m*n)
		return err
	}

	e.logger.Debug("starting gemm_reduced", logging.Int("m", m), logging.Int("n", n), logging.Int("k", k))
	defer e.logger.Debug("ending gemm_reduced", logging.Int("m", m), logging.Int("n", n), logging.Int("k", k))

	tA := resolveTranspose(layout, transA)
	tB := resolveTranspose(layout, transB)
	arows, acols := operandShape(tA, m, k)
	brows, bcols := operandShape(tB, k, n)
	if len(a) != arows*acols {
		err = apperrors.NewDimensionMismatch("gemm_reduced: len(a)=%d, want %d", len(a), arows*acols)
		return err
	}
	if len(b) != brows*bcols {
		err = apperrors.NewDimensionMismatch("gemm_reduced: len(b)=%d, want %d", len(b), brows*bcols)
		return err
	}

	_, stopPre := e.startTimer(ctx, telemetry.LabelGemmPrecalculations)
	plan, perr := planner.PlanGEMM(int(a[0].Prec()), int(b[0].Prec()), k)
	stopPre(perr)
	if perr != nil {
		err = perr
		return err
	}
	e.logger.Debug("precision plan", logging.Int("limb_width", plan.L), logging.Int("sa", plan.Sa), logging.Int("sb", plan.Sb), logging.Int("sc", plan.Sc))

	if aerr := e.ws.Ensure(uint64(plan.Sa*arows*acols), uint64(plan.Sb*brows*bcols), uint64((plan.Sc+e.GuardLimbs)*m*n)); aerr != nil {
		err = aerr
		return err
	}

	_, stopEnc := e.startTimer(ctx, telemetry.LabelGemmEncode)
	aEnc, eerr := limb.Encode(ctx, a, arows, acols, plan.L, plan.Sa, e.workers)
	if eerr == nil {
		var bEnc *limb.Matrix
		bEnc, eerr = limb.Encode(ctx, b, brows, bcols, plan.L, plan.Sb, e.workers)
		stopEnc(eerr)
		if eerr == nil {
			err = e.gemmMultiplyAndAccumulate(ctx, dimsOf(m, n, k, tA, tB), aEnc, bEnc, plan.Sc+e.GuardLimbs, c)
			return err
		}
	} else {
		stopEnc(eerr)
	}
	err = eerr
	return err
}

func (e *Engine) gemmMultiplyAndAccumulate(ctx context.Context, d convDims, aEnc, bEnc *limb.Matrix, sc int, c []*big.Float) error {
	_, stopMul := e.startTimer(ctx, telemetry.LabelGemmMultiplication)
	cEnc, merr := e.conv.Gemm(ctx, d, aEnc, bEnc, sc)
	stopMul(merr)
	if merr != nil {
		return merr
	}

	outPrec := maxPrec(c)
	_, stopDec := e.startTimer(ctx, telemetry.LabelGemmDecode)
	delta, derr := limb.Decode(ctx, cEnc, outPrec, e.workers)
	stopDec(derr)
	if derr != nil {
		return derr
	}
	accumulate(c, delta, outPrec)
	return nil
}

// SYRKReduced computes c := tA(a)*tA(a)^T + c (alpha=1, beta=1 always),
// writing a full symmetric m x m result into c (both triangles).
func (e *Engine) SYRKReduced(ctx context.Context, layout Layout, transA Transpose, m, k int, a []*big.Float, c []*big.Float) error {
	ctx, stop := e.startTimer(ctx, telemetry.LabelSyrkComplete)
	var err error
	defer func() { stop(err) }()

	if m <= 0 || k <= 0 {
		err = apperrors.NewDimensionMismatch("syrk_reduced: m=%d k=%d must both be positive", m, k)
		return err
	}
	if len(c) != m*m {
		err = apperrors.NewDimensionMismatch("syrk_reduced: len(c)=%d, want m*m=%d", len(c), m*m)
		return err
	}

	e.logger.Debug("starting syrk_reduced", logging.Int("m", m), logging.Int("k", k))
	defer e.logger.Debug("ending syrk_reduced", logging.Int("m", m), logging.Int("k", k))

	tA := resolveTranspose(layout, transA)
	arows, acols := operandShape(tA, m, k)
	if len(a) != arows*acols {
		err = apperrors.NewDimensionMismatch("syrk_reduced: len(a)=%d, want %d", len(a), arows*acols)
		return err
	}

	_, stopPre := e.startTimer(ctx, telemetry.LabelSyrkPrecalculations)
	plan, perr := planner.PlanSYRK(int(a[0].Prec()), k)
	stopPre(perr)
	if perr != nil {
		err = perr
		return err
	}
	e.logger.Debug("precision plan", logging.Int("limb_width", plan.L), logging.Int("sa", plan.Sa), logging.Int("sc", plan.Sc))

	sc := plan.Sc + e.GuardLimbs
	if aerr := e.ws.Ensure(uint64(plan.Sa*arows*acols), 0, uint64(sc*m*m)); aerr != nil {
		err = aerr
		return err
	}

	_, stopEnc := e.startTimer(ctx, telemetry.LabelSyrkEncode)
	aEnc, eerr := limb.Encode(ctx, a, arows, acols, plan.L, plan.Sa, e.workers)
	stopEnc(eerr)
	if eerr != nil {
		err = eerr
		return err
	}

	_, stopMul := e.startTimer(ctx, telemetry.LabelSyrkMultiplication)
	cEnc, merr := e.conv.Syrk(ctx, dimsOf(m, m, k, tA, tA), aEnc, sc)
	stopMul(merr)
	if merr != nil {
		err = merr
		return err
	}

	outPrec := maxPrec(c)
	_, stopDec := e.startTimer(ctx, telemetry.LabelSyrkDecode)
	delta, derr := limb.DecodeSymmetric(ctx, cEnc, outPrec, e.workers)
	stopDec(derr)
	if derr != nil {
		err = derr
		return err
	}
	accumulate(c, delta, outPrec)
	return nil
}

func maxPrec(c []*big.Float) uint {
	var prec uint
	for _, v := range c {
		if v != nil && v.Prec() > prec {
			prec = v.Prec()
		}
	}
	if prec == 0 {
		prec = scalar.CoarseGrainBits
	}
	return prec
}

func accumulate(c, delta []*big.Float, prec uint) {
	for i, d := range delta {
		if c[i] == nil {
			c[i] = new(big.Float).SetPrec(prec)
		}
		c[i].Add(c[i], d)
	}
}
