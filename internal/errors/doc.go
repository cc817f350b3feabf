// Package apperrors defines the four error kinds of the limb-BLAS engine
// (PrecisionUnderflow, AllocationFailure, DimensionMismatch, BackendFault).
// The first three are recoverable by the caller.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// AllocationFailureError and BackendFaultError carry an underlying cause and
// implement Unwrap() so errors.Is() and errors.As() can reach it.
package apperrors
