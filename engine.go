// Package limbblas implements a limb-decomposition BLAS engine: dense
// matrix multiplication and symmetric rank-k updates on arbitrary-precision
// floating-point matrices, computed by decomposing each scalar into a
// stack of double-precision limb planes, convolving those planes with an
// ordinary double-precision BLAS, and recombining the result.
package limbblas

import (
	"context"
	"runtime"

	"github.com/sdpb-go/limbblas/internal/blas"
	"github.com/sdpb-go/limbblas/internal/config"
	"github.com/sdpb-go/limbblas/internal/convolution"
	"github.com/sdpb-go/limbblas/internal/gpu"
	"github.com/sdpb-go/limbblas/internal/logging"
	"github.com/sdpb-go/limbblas/internal/telemetry"
	"github.com/sdpb-go/limbblas/internal/workspace"
)

// Engine owns the state shared across every GEMM, SYRK, and base-case
// call: the host workspace, the BLAS provider, the GPU orchestrator (if
// any), the timer registry, and the logger.
type Engine struct {
	// GuardLimbs overrides the number of extra output limbs the matrix
	// paths keep beyond what the Precision Planner strictly requires. The
	// base-case path always keeps its own guard limbs regardless of this
	// field; see BaseCaseMul.
	GuardLimbs int

	provider blas.Provider
	conv     *convolution.Engine
	orch     *gpu.Orchestrator
	ws       *workspace.Allocator
	registry telemetry.Registry
	logger   logging.Logger
	workers  int
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithProvider overrides the BLAS provider (default: blas.GonumProvider).
func WithProvider(p blas.Provider) Option {
	return func(e *Engine) { e.provider = p }
}

// WithDevices enables the GPU Orchestrator with the given accelerator
// devices. With none configured (the default), every call runs on the
// host BLAS provider.
func WithDevices(devices []gpu.Device) Option {
	return func(e *Engine) { e.orch = &gpu.Orchestrator{Devices: devices} }
}

// WithRegistry overrides the timer registry (default:
// telemetry.NewPromOtelRegistry).
func WithRegistry(r telemetry.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithLogger overrides the logger (default: logging.NewDefaultLogger).
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithWorkers overrides the worker count used by the Limb Codec's
// parallel encode/decode loops and the Convolution Engine's outer
// limb-plane loop (default: config.ThreadCountOverride).
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// NewEngine constructs an Engine with adaptive, environment-overridable
// defaults: a pure-Go gonum BLAS provider, no GPU devices, zero guard
// limbs on the matrix paths, and GOMAXPROCS-sized codec parallelism.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		GuardLimbs: config.GuardLimbsOverride(0),
		provider:   blas.GonumProvider{},
		orch:       &gpu.Orchestrator{},
		ws:         workspace.New(),
		registry:   telemetry.NewPromOtelRegistry("limbblas"),
		logger:     logging.NewDefaultLogger(),
		workers:    config.ThreadCountOverride(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	e.conv = &convolution.Engine{
		Provider:         e.provider,
		KaratsubaMin:     config.KaratsubaMinLimbsOverride(),
		KaratsubaEnabled: true,
		Workers:          e.workers,
		Orch:             e.orch,
		Registry:         e.registry,
	}
	return e
}

func (e *Engine) startTimer(ctx context.Context, label string) (context.Context, func(error)) {
	return e.registry.Start(ctx, label)
}
