// Package resonance defines the sweep vocabulary: the angular grid, the
// sweep specification, result records, the reflectance-model contract and
// the functional options of the locator.
package resonance

import (
	"errors"
	"fmt"

	"github.com/plasmonlab/sprsweep/optics"
)

// Sentinel errors returned by the resonance locator.
var (
	// ErrNilModel indicates that no reflectance model was supplied.
	ErrNilModel = errors.New("resonance: reflectance model is nil")

	// ErrBadSweep indicates a sweep specification with a non-positive
	// sample count or a target layer outside the stack bounds.
	ErrBadSweep = errors.New("resonance: invalid sweep specification")

	// ErrBadAngleRange indicates an angular grid with a non-positive
	// sample count, bounds outside the open interval (0°, 90°), or
	// min >= max.
	ErrBadAngleRange = errors.New("resonance: invalid angular grid")
)

// Model is the reflectance collaborator: a pure function returning the
// reflected intensity fraction for one (stack, angle, wavelength,
// polarization) tuple. optics.Reflectance satisfies it; tests substitute
// synthetic closures.
type Model func(pol optics.Polarization, stack optics.Stack, angleRad, wavelength float64) (float64, error)

// Grid is a linearly spaced angular search window, expressed in degrees.
// The window bounds are a required, explicit input of every run: different
// instruments legitimately search wide (60–90°) or refined (54–56°)
// windows, and no default is inferred.
type Grid struct {
	MinDeg  float64 // lower bound, exclusive of grazing incidence (> 0)
	MaxDeg  float64 // upper bound, exclusive of normal-to-surface (< 90)
	Samples int     // number of evenly spaced angles, >= 1
}

// Angles returns the grid as a slice of degrees in ascending order.
// Samples == 1 degenerates to {MinDeg}. A non-positive count yields nil.
func (g Grid) Angles() []float64 {
	if g.Samples < 1 {
		return nil
	}

	return linspace(g.MinDeg, g.MaxDeg, g.Samples)
}

// SweepSpec designates one layer whose refractive index is swept over
// Samples evenly spaced values in [Min, Max]. Samples == 1 evaluates Min
// only. Min > Max is permitted and yields descending values.
type SweepSpec struct {
	Layer   int     // index of the swept layer within the stack
	Min     float64 // first candidate refractive index
	Max     float64 // last candidate refractive index
	Samples int     // number of candidates, >= 1
}

// Values returns the candidate refractive indices in sweep order.
// A non-positive count yields nil.
func (sp SweepSpec) Values() []float64 {
	if sp.Samples < 1 {
		return nil
	}

	return linspace(sp.Min, sp.Max, sp.Samples)
}

// Record is one sweep result: the candidate refractive index, the angle of
// minimum reflectance in degrees and the reflectance at that angle.
type Record struct {
	Value       float64 // swept refractive index
	AngleDeg    float64 // resonance angle, degrees
	Reflectance float64 // reflectance at the dip
}

// ModelError wraps a reflectance-model failure with enough context to
// reproduce it: the sweep sample index, the swept value and the failing
// angle. Match the cause via errors.As / errors.Is on the wrapped error.
type ModelError struct {
	Sample   int     // sweep sample index, 0-based; -1 outside a sweep
	Value    float64 // swept refractive index of the failing sample
	AngleDeg float64 // incidence angle that triggered the failure, degrees
	Err      error   // underlying model error
}

// Error formats the failure with its reproduction context.
func (e *ModelError) Error() string {
	return fmt.Sprintf("resonance: model failed at sample %d (value=%.6g, angle=%.6g°): %v",
		e.Sample, e.Value, e.AngleDeg, e.Err)
}

// Unwrap exposes the underlying model error to errors.Is / errors.As.
func (e *ModelError) Unwrap() error { return e.Err }

// Options configures the resonance locator.
//
// Parallelism – number of goroutines evaluating the per-angle reflectance
// curve of one sample. 1 (default) reproduces the literal sequential scan;
// higher values are safe because the model is pure and results are indexed
// back into angle order.
//
// OnRecord – optional sink invoked with each record as soon as its sample
// completes, in sweep order. A non-nil return aborts the run.
type Options struct {
	Parallelism int
	OnRecord    func(Record) error
}

// Option is a functional option for configuring the locator.
type Option func(*Options)

// WithParallelism sets how many goroutines evaluate the angular grid of one
// sweep sample. Must be >= 1; nonsensical values panic (programmer error).
func WithParallelism(n int) Option {
	if n < 1 {
		panic("resonance: WithParallelism: n must be >= 1")
	}

	return func(o *Options) { o.Parallelism = n }
}

// WithOnRecord streams each completed record to fn before the sweep moves
// on. Records already emitted remain valid even if a later sample fails or
// the run is canceled.
func WithOnRecord(fn func(Record) error) Option {
	return func(o *Options) { o.OnRecord = fn }
}

// DefaultOptions returns the baseline configuration: a sequential scan with
// no streaming sink.
func DefaultOptions() Options {
	return Options{
		Parallelism: 1,
		OnRecord:    nil,
	}
}

// linspace returns n evenly spaced values from lo to hi inclusive.
// n == 1 yields {lo} without touching the spacing divisor.
func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo

		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}

	return out
}
