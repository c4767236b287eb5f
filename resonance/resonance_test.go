package resonance_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plasmonlab/sprsweep/optics"
	"github.com/plasmonlab/sprsweep/resonance"
)

// testStack builds a small prism/film/water stack whose layer 1 is swept.
func testStack(t *testing.T) optics.Stack {
	t.Helper()
	s, err := optics.NewStack(
		[]complex128{1.515, 1.45, 1.33},
		[]float64{optics.SemiInf, 2.5, optics.SemiInf},
	)
	require.NoError(t, err)

	return s
}

// trackingModel is a synthetic reflectance model whose dip angle moves
// linearly with the swept layer's refractive index:
// dip(v) = 45° + (v - 1.45)·1000. Pure and deterministic.
func trackingModel(_ optics.Polarization, s optics.Stack, angleRad, _ float64) (float64, error) {
	deg := angleRad * 180 / math.Pi
	dip := 45 + (real(s.Index(1))-1.45)*1000

	return math.Abs(deg - dip), nil
}

var wideGrid = resonance.Grid{MinDeg: 30, MaxDeg: 60, Samples: 601}

// TestSweep_RecordCountAndOrder verifies the core contract: one record per
// sample, values in ascending sweep order, dip angles inside the grid.
func TestSweep_RecordCountAndOrder(t *testing.T) {
	spec := resonance.SweepSpec{Layer: 1, Min: 1.45, Max: 1.4507, Samples: 8}

	recs, err := resonance.Sweep(context.Background(), trackingModel, testStack(t),
		632.8, optics.PolP, wideGrid, spec)
	require.NoError(t, err)
	require.Len(t, recs, 8, "one record per sweep sample")

	for i, r := range recs {
		assert.GreaterOrEqual(t, r.AngleDeg, wideGrid.MinDeg, "dip never extrapolates below the grid")
		assert.LessOrEqual(t, r.AngleDeg, wideGrid.MaxDeg, "dip never extrapolates above the grid")
		if i > 0 {
			assert.GreaterOrEqual(t, r.Value, recs[i-1].Value, "values ascend when Min <= Max")
		}
	}
	assert.InDelta(t, 1.45, recs[0].Value, 1e-12)
	assert.InDelta(t, 1.4507, recs[7].Value, 1e-12)
}

// TestSweep_SingleSample verifies the degenerate count == 1 case: exactly
// one record, evaluated at Min, no spacing division.
func TestSweep_SingleSample(t *testing.T) {
	spec := resonance.SweepSpec{Layer: 1, Min: 1.4502, Max: 1.9, Samples: 1}

	recs, err := resonance.Sweep(context.Background(), trackingModel, testStack(t),
		632.8, optics.PolP, wideGrid, spec)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 1.4502, recs[0].Value, "single sample evaluates Min only")
}

// TestSweep_DescendingRange verifies that Min > Max sweeps downward.
func TestSweep_DescendingRange(t *testing.T) {
	spec := resonance.SweepSpec{Layer: 1, Min: 1.46, Max: 1.45, Samples: 5}

	recs, err := resonance.Sweep(context.Background(), trackingModel, testStack(t),
		632.8, optics.PolP, wideGrid, spec)
	require.NoError(t, err)
	require.Len(t, recs, 5)
	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t, recs[i].Value, recs[i-1].Value)
	}
}

// TestSweep_TieBreakLowestAngle verifies that a flat reflectance curve
// reports the first (lowest) grid angle.
func TestSweep_TieBreakLowestAngle(t *testing.T) {
	flat := func(optics.Polarization, optics.Stack, float64, float64) (float64, error) {
		return 0.5, nil
	}
	spec := resonance.SweepSpec{Layer: 1, Min: 1.45, Max: 1.46, Samples: 3}

	recs, err := resonance.Sweep(context.Background(), flat, testStack(t),
		632.8, optics.PolP, wideGrid, spec)
	require.NoError(t, err)
	for _, r := range recs {
		assert.Equal(t, wideGrid.MinDeg, r.AngleDeg, "ties resolve to the lowest angle")
	}
}

// TestSweep_Idempotent verifies byte-identical output across reruns with a
// deterministic model.
func TestSweep_Idempotent(t *testing.T) {
	spec := resonance.SweepSpec{Layer: 1, Min: 1.45, Max: 1.4507, Samples: 8}

	a, err := resonance.Sweep(context.Background(), trackingModel, testStack(t),
		632.8, optics.PolP, wideGrid, spec)
	require.NoError(t, err)
	b, err := resonance.Sweep(context.Background(), trackingModel, testStack(t),
		632.8, optics.PolP, wideGrid, spec)
	require.NoError(t, err)

	assert.Equal(t, a, b, "identical inputs must reproduce identical records")
}

// TestSweep_ValidationBeforeModel verifies fail-fast semantics: invalid
// input errors out before a single model call.
func TestSweep_ValidationBeforeModel(t *testing.T) {
	calls := 0
	counting := func(optics.Polarization, optics.Stack, float64, float64) (float64, error) {
		calls++

		return 0, nil
	}
	stack := testStack(t)
	goodSpec := resonance.SweepSpec{Layer: 1, Min: 1.45, Max: 1.46, Samples: 2}

	cases := []struct {
		name string
		grid resonance.Grid
		spec resonance.SweepSpec
		want error
	}{
		{"zero sweep count", wideGrid, resonance.SweepSpec{Layer: 1, Min: 1.45, Max: 1.46, Samples: 0}, resonance.ErrBadSweep},
		{"negative sweep count", wideGrid, resonance.SweepSpec{Layer: 1, Min: 1.45, Max: 1.46, Samples: -3}, resonance.ErrBadSweep},
		{"layer out of range", wideGrid, resonance.SweepSpec{Layer: 7, Min: 1.45, Max: 1.46, Samples: 2}, resonance.ErrBadSweep},
		{"inverted window", resonance.Grid{MinDeg: 60, MaxDeg: 30, Samples: 100}, goodSpec, resonance.ErrBadAngleRange},
		{"window at grazing", resonance.Grid{MinDeg: 0, MaxDeg: 30, Samples: 100}, goodSpec, resonance.ErrBadAngleRange},
		{"window at normal", resonance.Grid{MinDeg: 30, MaxDeg: 90, Samples: 100}, goodSpec, resonance.ErrBadAngleRange},
		{"empty grid", resonance.Grid{MinDeg: 30, MaxDeg: 60, Samples: 0}, goodSpec, resonance.ErrBadAngleRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recs, err := resonance.Sweep(context.Background(), counting, stack,
				632.8, optics.PolP, tc.grid, tc.spec)
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, recs)
		})
	}
	assert.Zero(t, calls, "no model call may precede validation")

	// Malformed stacks cannot even be constructed; the zero Stack is the
	// closest runtime equivalent and is rejected the same way.
	_, err := resonance.Sweep(context.Background(), counting, optics.Stack{},
		632.8, optics.PolP, wideGrid, goodSpec)
	assert.ErrorIs(t, err, optics.ErrTooFewLayers)
	assert.Zero(t, calls)
}

// TestSweep_NilModel verifies the nil-model guard.
func TestSweep_NilModel(t *testing.T) {
	_, err := resonance.Sweep(context.Background(), nil, testStack(t),
		632.8, optics.PolP, wideGrid, resonance.SweepSpec{Layer: 1, Min: 1.45, Max: 1.46, Samples: 2})
	assert.ErrorIs(t, err, resonance.ErrNilModel)
}

// TestSweep_ModelErrorContext verifies that a mid-sweep model failure
// surfaces as *ModelError with the sample index, value and angle attached,
// while records from earlier samples remain valid.
func TestSweep_ModelErrorContext(t *testing.T) {
	boom := errors.New("detector saturated")
	failing := func(_ optics.Polarization, s optics.Stack, angleRad, _ float64) (float64, error) {
		// Fail once the third sample (v ~ 1.452) scans past 45 degrees.
		if real(s.Index(1)) >= 1.4515 && angleRad*180/math.Pi > 45 {
			return 0, boom
		}

		return 0.5, nil
	}
	spec := resonance.SweepSpec{Layer: 1, Min: 1.45, Max: 1.453, Samples: 4}

	recs, err := resonance.Sweep(context.Background(), failing, testStack(t),
		632.8, optics.PolP, wideGrid, spec)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom, "the cause must stay reachable via errors.Is")

	var me *resonance.ModelError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, 2, me.Sample)
	assert.InDelta(t, 1.452, me.Value, 1e-12)
	assert.Greater(t, me.AngleDeg, 45.0)

	assert.Len(t, recs, 2, "records emitted before the failure stay valid")
}

// TestSweep_ParallelMatchesSequential verifies that per-angle parallel
// evaluation reproduces the sequential records exactly.
func TestSweep_ParallelMatchesSequential(t *testing.T) {
	spec := resonance.SweepSpec{Layer: 1, Min: 1.45, Max: 1.46, Samples: 6}

	seq, err := resonance.Sweep(context.Background(), trackingModel, testStack(t),
		632.8, optics.PolP, wideGrid, spec)
	require.NoError(t, err)

	par, err := resonance.Sweep(context.Background(), trackingModel, testStack(t),
		632.8, optics.PolP, wideGrid, spec, resonance.WithParallelism(8))
	require.NoError(t, err)

	assert.Equal(t, seq, par, "parallel evaluation must preserve angle order and values")
}

// TestSweep_CancellationKeepsFinishedRecords verifies that cancellation
// between samples stops the run but hands back everything completed so far.
func TestSweep_CancellationKeepsFinishedRecords(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var streamed []resonance.Record
	sink := func(r resonance.Record) error {
		streamed = append(streamed, r)
		if len(streamed) == 2 {
			cancel() // abort mid-run, as an operator's Ctrl-C would
		}

		return nil
	}
	spec := resonance.SweepSpec{Layer: 1, Min: 1.45, Max: 1.46, Samples: 8}

	recs, err := resonance.Sweep(ctx, trackingModel, testStack(t),
		632.8, optics.PolP, wideGrid, spec, resonance.WithOnRecord(sink))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, recs, 2, "completed records survive cancellation")
	assert.Equal(t, recs, streamed, "sink saw exactly the completed records, in order")
}

// TestSweep_SinkErrorAborts verifies that a failing record sink stops the
// sweep and surfaces its error.
func TestSweep_SinkErrorAborts(t *testing.T) {
	full := errors.New("disk full")
	sink := func(resonance.Record) error { return full }
	spec := resonance.SweepSpec{Layer: 1, Min: 1.45, Max: 1.46, Samples: 4}

	recs, err := resonance.Sweep(context.Background(), trackingModel, testStack(t),
		632.8, optics.PolP, wideGrid, spec, resonance.WithOnRecord(sink))

	assert.ErrorIs(t, err, full)
	assert.Len(t, recs, 1)
}

// TestDip_TracksSweptIndex verifies Dip against the synthetic model: the
// located angle follows the model's analytic dip position to within one
// grid step.
func TestDip_TracksSweptIndex(t *testing.T) {
	stack := testStack(t)
	step := (wideGrid.MaxDeg - wideGrid.MinDeg) / float64(wideGrid.Samples-1)

	for _, v := range []float64{1.448, 1.45, 1.455} {
		mod, err := stack.WithIndex(1, complex(v, 0))
		require.NoError(t, err)

		angle, refl, err := resonance.Dip(trackingModel, mod, 632.8, optics.PolP, wideGrid)
		require.NoError(t, err)

		want := 45 + (v-1.45)*1000
		assert.InDelta(t, want, angle, step, "dip within one grid step of the analytic minimum")
		assert.LessOrEqual(t, refl, step, "reflectance at the dip is near the model minimum")
	}
}

// TestCurve_LengthAndOrder verifies the plotting helper: one value per grid
// angle, evaluated in ascending order.
func TestCurve_LengthAndOrder(t *testing.T) {
	grid := resonance.Grid{MinDeg: 40, MaxDeg: 50, Samples: 11}
	curve, err := resonance.Curve(trackingModel, testStack(t), 632.8, optics.PolP, grid)
	require.NoError(t, err)
	require.Len(t, curve, 11)

	// trackingModel at v=1.45 dips at 45 degrees: index 5 of this grid.
	assert.Equal(t, 5, indexOfMin(curve))
}

// TestGridAngles_Linspace pins down the grid sampling: endpoints included,
// even spacing, count == 1 degenerates to the minimum.
func TestGridAngles_Linspace(t *testing.T) {
	g := resonance.Grid{MinDeg: 60, MaxDeg: 90, Samples: 4}
	angles := g.Angles()
	require.Len(t, angles, 4)
	assert.InDelta(t, 60, angles[0], 1e-12)
	assert.InDelta(t, 70, angles[1], 1e-12)
	assert.InDelta(t, 80, angles[2], 1e-12)
	assert.InDelta(t, 90, angles[3], 1e-12)

	one := resonance.Grid{MinDeg: 54, MaxDeg: 56, Samples: 1}
	assert.Equal(t, []float64{54}, one.Angles())

	assert.Nil(t, resonance.Grid{Samples: 0}.Angles())
}

// TestSweepSpec_Values mirrors the grid test for the swept parameter.
func TestSweepSpec_Values(t *testing.T) {
	sp := resonance.SweepSpec{Min: 1.45, Max: 1.4507, Samples: 8}
	vals := sp.Values()
	require.Len(t, vals, 8)
	assert.InDelta(t, 1.45, vals[0], 1e-12)
	assert.InDelta(t, 1.4507, vals[7], 1e-12)
	for i := 1; i < len(vals); i++ {
		assert.Greater(t, vals[i], vals[i-1])
	}

	one := resonance.SweepSpec{Min: 1.45, Max: 1.9, Samples: 1}
	assert.Equal(t, []float64{1.45}, one.Values())
}

// TestWithParallelism_PanicsOnNonsense documents the option contract.
func TestWithParallelism_PanicsOnNonsense(t *testing.T) {
	assert.Panics(t, func() { resonance.WithParallelism(0) })
	assert.Panics(t, func() { resonance.WithParallelism(-4) })
}

// TestSweep_SPRStack is an end-to-end run against the real transfer-matrix
// model: a Kretschmann gold sensor swept over a thin adlayer's index. The
// dip must sit above the critical angle and drift upward as the adlayer
// gets optically denser.
func TestSweep_SPRStack(t *testing.T) {
	stack, err := optics.NewStack(
		[]complex128{1.515, 3.14 + 3.54i, 0.18 + 3.0i, 1.46, 1.45, 1.45, 1.33},
		[]float64{optics.SemiInf, 5, 45, 0.6, 2.5, 1.45, optics.SemiInf},
	)
	require.NoError(t, err)

	grid := resonance.Grid{MinDeg: 60, MaxDeg: 89.9, Samples: 1500}
	spec := resonance.SweepSpec{Layer: 5, Min: 1.45, Max: 1.4507, Samples: 8}

	recs, err := resonance.Sweep(context.Background(), optics.Reflectance, stack,
		632.8, optics.PolP, grid, spec)
	require.NoError(t, err)
	require.Len(t, recs, 8)

	for _, r := range recs {
		assert.Greater(t, r.AngleDeg, 62.0, "dip sits above the 1.33/1.515 critical angle")
		assert.Less(t, r.AngleDeg, 85.0, "dip stays inside the physical SPR band")
		assert.Less(t, r.Reflectance, 0.5, "the dip is a genuine reflectance collapse")
	}
	assert.GreaterOrEqual(t, recs[7].AngleDeg, recs[0].AngleDeg,
		"a denser adlayer never moves the dip down")
}

// indexOfMin is a local helper mirroring the locator's tie-break rule.
func indexOfMin(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] < xs[best] {
			best = i
		}
	}

	return best
}
