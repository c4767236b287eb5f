package resonance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/plasmonlab/sprsweep/optics"
)

// Validate checks a run before any reflectance work is performed: the stack
// must be well-formed, the sweep must target an existing layer with a
// positive sample count, and the angular window must lie strictly inside
// (0°, 90°) with MinDeg < MaxDeg.
//
// Callers that create output files should call Validate first, so that a
// rejected run leaves no file behind.
//
// Errors:
//   - optics.ErrLayerMismatch / optics.ErrTooFewLayers — malformed stack.
//   - ErrBadSweep — spec.Samples < 1 or spec.Layer outside the stack.
//   - ErrBadAngleRange — grid.Samples < 1, bounds outside (0°, 90°),
//     or MinDeg >= MaxDeg.
func Validate(stack optics.Stack, grid Grid, spec SweepSpec) error {
	if err := stack.Validate(); err != nil {
		return err
	}
	if spec.Samples < 1 {
		return fmt.Errorf("%w: sample count %d", ErrBadSweep, spec.Samples)
	}
	if spec.Layer < 0 || spec.Layer >= stack.Len() {
		return fmt.Errorf("%w: layer %d outside stack of %d layers", ErrBadSweep, spec.Layer, stack.Len())
	}

	return validateGrid(grid)
}

// validateGrid enforces the open-interval angular window on its own, so
// Curve and Dip can share the check without a sweep specification.
func validateGrid(grid Grid) error {
	if grid.Samples < 1 {
		return fmt.Errorf("%w: sample count %d", ErrBadAngleRange, grid.Samples)
	}
	if grid.MinDeg >= grid.MaxDeg {
		return fmt.Errorf("%w: min %.6g° >= max %.6g°", ErrBadAngleRange, grid.MinDeg, grid.MaxDeg)
	}
	if grid.MinDeg <= 0 || grid.MaxDeg >= 90 {
		return fmt.Errorf("%w: window [%.6g°, %.6g°] outside (0°, 90°)", ErrBadAngleRange, grid.MinDeg, grid.MaxDeg)
	}

	return nil
}

// Sweep runs the resonance locator: for each candidate value of the swept
// layer's refractive index it evaluates the reflectance curve over the
// angular grid and records the angle of minimum reflectance.
//
// Behavior:
//   - validation happens up front; no model call is made on bad input
//   - each sample evaluates a fresh copy-and-substitute stack
//   - the dip is the global minimum over the sampled grid, ties broken by
//     the lowest angle; no sub-grid interpolation
//   - records come back in sweep order, one per sample
//   - ctx is checked between samples; on cancellation the records finished
//     so far are returned together with the context error
//   - a model failure aborts the current sample and surfaces as *ModelError
//     with the sample index, value and angle attached; earlier records stay
//     valid
//
// Complexity: O(spec.Samples × grid.Samples) model evaluations.
func Sweep(ctx context.Context, model Model, stack optics.Stack, wavelength float64,
	pol optics.Polarization, grid Grid, spec SweepSpec, opts ...Option) ([]Record, error) {
	if model == nil {
		return nil, ErrNilModel
	}
	if err := Validate(stack, grid, spec); err != nil {
		return nil, err
	}

	o := DefaultOptions()
	for _, set := range opts {
		set(&o)
	}
	if o.Parallelism < 1 {
		o.Parallelism = 1
	}

	angles := grid.Angles()
	values := spec.Values()
	out := make([]Record, 0, len(values))

	for i, v := range values {
		select {
		case <-ctx.Done():
			return out, fmt.Errorf("resonance: sweep canceled after %d of %d samples: %w",
				len(out), len(values), ctx.Err())
		default:
		}

		sample, err := stack.WithIndex(spec.Layer, complex(v, 0))
		if err != nil {
			return out, err
		}

		curve, failAt, err := evalCurve(ctx, model, sample, wavelength, pol, angles, o.Parallelism)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return out, fmt.Errorf("resonance: sweep canceled after %d of %d samples: %w",
					len(out), len(values), err)
			}

			return out, &ModelError{Sample: i, Value: v, AngleDeg: failAt, Err: err}
		}

		dip := argmin(curve)
		rec := Record{Value: v, AngleDeg: angles[dip], Reflectance: curve[dip]}
		out = append(out, rec)

		if o.OnRecord != nil {
			if err = o.OnRecord(rec); err != nil {
				return out, fmt.Errorf("resonance: record sink failed at sample %d: %w", i, err)
			}
		}
	}

	return out, nil
}

// Dip locates the resonance angle of a single fixed stack: the angle of
// minimum reflectance over the grid, in degrees, plus the reflectance there.
func Dip(model Model, stack optics.Stack, wavelength float64,
	pol optics.Polarization, grid Grid) (angleDeg, reflectance float64, err error) {
	curve, err := Curve(model, stack, wavelength, pol, grid)
	if err != nil {
		return 0, 0, err
	}
	i := argmin(curve)

	return grid.Angles()[i], curve[i], nil
}

// Curve evaluates the reflectance of a fixed stack at every grid angle, in
// ascending angle order. It backs the plotting side channel and Dip.
func Curve(model Model, stack optics.Stack, wavelength float64,
	pol optics.Polarization, grid Grid) ([]float64, error) {
	if model == nil {
		return nil, ErrNilModel
	}
	if err := stack.Validate(); err != nil {
		return nil, err
	}
	if err := validateGrid(grid); err != nil {
		return nil, err
	}

	curve, failAt, err := evalCurve(context.Background(), model, stack, wavelength, pol, grid.Angles(), 1)
	if err != nil {
		return nil, &ModelError{Sample: -1, Value: math.NaN(), AngleDeg: failAt, Err: err}
	}

	return curve, nil
}

// evalCurve computes reflectance at each angle (degrees) of one stack.
// With par == 1 it is the literal sequential scan; otherwise par workers
// stride the grid and write into index slots, which keeps the result in
// angle order regardless of completion order. On failure it reports the
// lowest failing angle for deterministic diagnostics.
func evalCurve(ctx context.Context, model Model, stack optics.Stack, wavelength float64,
	pol optics.Polarization, anglesDeg []float64, par int) ([]float64, float64, error) {
	out := make([]float64, len(anglesDeg))

	if par == 1 {
		for i, deg := range anglesDeg {
			r, err := model(pol, stack, deg*math.Pi/180, wavelength)
			if err != nil {
				return nil, deg, err
			}
			out[i] = r
		}

		return out, 0, nil
	}

	if par > len(anglesDeg) {
		par = len(anglesDeg)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failed   atomic.Bool
		firstIdx = len(anglesDeg)
		firstErr error
	)
	wg.Add(par)
	for w := 0; w < par; w++ {
		go func(w int) {
			defer wg.Done()
			for i := w; i < len(anglesDeg); i += par {
				if failed.Load() || ctx.Err() != nil {
					return
				}
				r, err := model(pol, stack, anglesDeg[i]*math.Pi/180, wavelength)
				if err != nil {
					mu.Lock()
					if i < firstIdx {
						firstIdx, firstErr = i, err
					}
					mu.Unlock()
					failed.Store(true)

					return
				}
				out[i] = r
			}
		}(w)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, anglesDeg[firstIdx], firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	return out, 0, nil
}

// argmin returns the index of the smallest value; strict comparison keeps
// the first occurrence on ties.
func argmin(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] < xs[best] {
			best = i
		}
	}

	return best
}
