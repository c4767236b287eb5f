// Package sprsweep correlates surface-plasmon-resonance (SPR) dip shifts
// with the refractive index of an adsorbed molecular layer, using
// transfer-matrix optics on a multilayer thin-film stack.
//
// 🚀 What is sprsweep?
//
//	A small, deterministic toolkit for SPR sensor analysis:
//		• Optics: coherent N-layer transfer-matrix reflectance for "p"/"s" light
//		• Resonance: sweep one layer's refractive index, locate the angle of
//		  minimum reflectance per candidate value
//		• Report: CSV record stream, XLSX workbook, reflectance plots
//		• Instrument: per-wavelength run configurations, no global state
//
// ✨ Why sprsweep?
//
//   - Deterministic – identical inputs reproduce identical records, ties
//     resolve to the lowest angle
//   - Fail-fast – bad stacks, sweeps and windows are rejected before any
//     computation or file output
//   - Interruptible – long sweeps honor Ctrl-C and keep finished records
//   - Parallel-safe – per-angle evaluation can fan out because every sweep
//     sample works on its own immutable stack copy
//
// Everything is organized under four subpackages plus a CLI:
//
//	optics/     — layer stacks & transfer-matrix reflectance
//	resonance/  — the dip locator (sweep, curve, validation)
//	report/     — CSV / XLSX / PNG output collaborators
//	instrument/ — run configurations & presets
//	cmd/sprsweep — command-line runner
//
// Quick sketch of the measurement:
//
//	prism / Cr / Au / lipid bilayer / adlayer / water
//	         ↑ incidence angle swept, dip angle recorded per adlayer index
//
//	go get github.com/plasmonlab/sprsweep
package sprsweep
