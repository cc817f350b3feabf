// Package config holds the environment-variable-driven tunables of the
// limb-BLAS engine: the worker thread count override, the number of guard
// limbs retained past the nominally justified count, and the Karatsuba
// crossover. Resolution order: explicit Engine field > environment
// variable > adaptive hardware-based default.
package config

import (
	"os"
	"runtime"
	"strconv"
)

// EnvPrefix namespaces every environment variable read by this package.
const EnvPrefix = "LIMBBLAS_"

// DefaultKaratsubaMinLimbs is the smallest Sc at which the Convolution
// Engine prefers the Karatsuba path over schoolbook, absent an override.
const DefaultKaratsubaMinLimbs = 8

// getEnvInt returns the value of the environment variable with the given
// key (prefixed with EnvPrefix) parsed as int, or defaultVal if unset or
// invalid.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// ThreadCountOverride returns the worker thread count the parallel loops
// (codec, convolution, GPU orchestrator) should use: the LIMBBLAS_THREADS
// environment variable if set, otherwise runtime.GOMAXPROCS(0).
func ThreadCountOverride() int {
	return getEnvInt("THREADS", runtime.GOMAXPROCS(0))
}

// GuardLimbsOverride returns the LIMBBLAS_GUARD_LIMBS environment variable,
// or defaultVal if unset. See the "guard limbs" Design Notes open question:
// the matrix paths carry zero guard limbs by default, unlike the base case.
func GuardLimbsOverride(defaultVal int) int {
	return getEnvInt("GUARD_LIMBS", defaultVal)
}

// KaratsubaMinLimbsOverride returns the LIMBBLAS_KARATSUBA_MIN environment
// variable, or DefaultKaratsubaMinLimbs if unset. Below this many output
// limbs the Convolution Engine always uses schoolbook: Karatsuba's
// recursion overhead is not worth it for small Sc.
func KaratsubaMinLimbsOverride() int {
	return getEnvInt("KARATSUBA_MIN", DefaultKaratsubaMinLimbs)
}
