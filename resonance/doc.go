// Package resonance locates the angle of minimum reflectance (the
// resonance dip) of a multilayer stack while sweeping one refractive-index
// parameter, producing one (value, angle) record per sweep sample.
//
// 🚀 What is a resonance sweep?
//
//	SPR instruments read out molecular adsorption as a shift of the
//	angle where reflectance collapses. Given a base stack, an angular
//	window and a candidate range for one layer's refractive index, the
//	sweep answers: "where does the dip sit for each candidate value?"
//	Correlating the dip shift with the candidate range calibrates the
//	adsorbed volume.
//
// ✨ Key features:
//   - fail-fast validation before any reflectance work (exported Validate)
//   - copy-and-substitute stacks per sample: no shared mutable state
//   - deterministic dip search: global minimum over the sampled grid,
//     ties broken by the lowest angle
//   - optional per-angle parallel evaluation (WithParallelism) with
//     order-preserving results
//   - streaming emission of completed records (WithOnRecord) and
//     context cancellation between samples that keeps finished records
//
// ⚙️ Usage:
//
//	import "github.com/plasmonlab/sprsweep/resonance"
//
//	grid := resonance.Grid{MinDeg: 60, MaxDeg: 90, Samples: 1500}
//	spec := resonance.SweepSpec{Layer: 5, Min: 1.45, Max: 1.4507, Samples: 8}
//	recs, err := resonance.Sweep(ctx, optics.Reflectance, stack, 632.8,
//	    optics.PolP, grid, spec)
//
// The search resolution is exactly the grid density; no sub-grid
// interpolation is performed.
//
// Complexity: O(samples × angles) reflectance evaluations.
package resonance
