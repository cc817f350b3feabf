package limbblas

import apperrors "github.com/sdpb-go/limbblas/internal/errors"

// The engine reports exactly four error kinds. PrecisionUnderflowError and
// AllocationFailureError and DimensionMismatchError are recoverable: the
// call that produced them failed, but the Engine remains usable.
// BackendFaultError is not: it signals that the BLAS provider or an
// accelerator device is in an unknown state, and callers should treat the
// process as unrecoverable.
type (
	PrecisionUnderflowError = apperrors.PrecisionUnderflowError
	AllocationFailureError  = apperrors.AllocationFailureError
	DimensionMismatchError  = apperrors.DimensionMismatchError
	BackendFaultError       = apperrors.BackendFaultError
)

// IsFatal reports whether err is, or wraps, a BackendFaultError.
func IsFatal(err error) bool { return apperrors.IsFatal(err) }
