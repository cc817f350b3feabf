package planner

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/sdpb-go/limbblas/internal/errors"
)

// TestPlanGEMMSatisfiesMantissaBound verifies the mantissa-safety
// inequality holds for every plan the Precision Planner returns:
//
//	2L + ceil(log2(K*min(Sa,Sb))) <= 53
func TestPlanGEMMSatisfiesMantissaBound(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("every GEMM plan satisfies the mantissa-safety bound", prop.ForAll(
		func(pa, pb, k int) bool {
			plan, err := PlanGEMM(pa, pb, k)
			if err != nil {
				var underflow apperrors.PrecisionUnderflowError
				return errorsAs(err, &underflow)
			}
			minS := plan.Sa
			if plan.Sb < minS {
				minS = plan.Sb
			}
			bound := 2*plan.L + ceilLog2(float64(k)*float64(minS))
			return bound <= MantissaBits && plan.L > 0
		},
		gen.IntRange(8, 4096),
		gen.IntRange(8, 4096),
		gen.IntRange(1, 4096),
	))

	properties.TestingRun(t)
}

func TestPlanSYRKSatisfiesMantissaBound(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("every SYRK plan satisfies the mantissa-safety bound and Sc=Sa", prop.ForAll(
		func(pa, k int) bool {
			plan, err := PlanSYRK(pa, k)
			if err != nil {
				var underflow apperrors.PrecisionUnderflowError
				return errorsAs(err, &underflow)
			}
			bound := 2*plan.L + ceilLog2(float64(k)*float64(plan.Sa))
			return bound <= MantissaBits && plan.Sc == plan.Sa && plan.Sb == plan.Sa
		},
		gen.IntRange(8, 4096),
		gen.IntRange(1, 4096),
	))

	properties.TestingRun(t)
}

func TestPlanGEMMUnderflowsAtExtremeK(t *testing.T) {
	t.Parallel()
	_, err := PlanGEMM(64, 64, 1<<60)
	if err == nil {
		t.Fatal("expected a PrecisionUnderflowError for an implausibly large reduction dimension")
	}
	var underflow apperrors.PrecisionUnderflowError
	if !errorsAs(err, &underflow) {
		t.Fatalf("expected PrecisionUnderflowError, got %v (%T)", err, err)
	}
}

func TestPlanBaseCaseAddsGuardLimbs(t *testing.T) {
	t.Parallel()
	plan, err := PlanBaseCase(128, 128)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	minS := plan.Sa
	if plan.Sb < minS {
		minS = plan.Sb
	}
	if plan.Sc <= minS {
		t.Errorf("expected Sc to exceed min(Sa,Sb) with guard limbs, got Sc=%d min=%d", plan.Sc, minS)
	}
}

func TestCeilLog2(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   float64
		want int
	}{
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{1024, 10},
	}
	for _, c := range cases {
		if got := ceilLog2(c.in); got != c.want {
			t.Errorf("ceilLog2(%v) = %d, want %d", c.in, got, c.want)
		}
	}
	if ceilLog2(1025) != int(math.Ceil(math.Log2(1025))) {
		t.Error("ceilLog2 must match math.Log2 outside the hardcoded cases")
	}
}

// errorsAs avoids importing errors just for a single As call in this file.
func errorsAs(err error, target *apperrors.PrecisionUnderflowError) bool {
	if u, ok := err.(apperrors.PrecisionUnderflowError); ok {
		*target = u
		return true
	}
	return false
}
