// Package optics models coherent reflection from a multilayer thin-film
// stack via the transfer-matrix method (TMM).
//
// 🚀 What does it do?
//
//	Given a stack of layers — each with a complex refractive index
//	(real part = phase velocity factor, imaginary part = absorption)
//	and a thickness — it computes the fraction of light reflected at a
//	given incidence angle, wavelength and polarization. This is the
//	physical engine behind surface-plasmon-resonance (SPR) instruments:
//	the reflectance dip of a prism/metal/adlayer stack moves as material
//	adsorbs onto the sensor surface.
//
// ✨ Key features:
//   - N-layer coherent transfer-matrix reflectance for "p" and "s" light
//   - complex Snell angles with forward-decay branch selection, so
//     total internal reflection and absorbing metals are handled
//   - immutable Stack values: WithIndex returns a copy-and-substitute
//     stack, never a shared mutable array
//
// ⚙️ Usage:
//
//	import "github.com/plasmonlab/sprsweep/optics"
//
//	stack, err := optics.NewStack(
//	  []complex128{1.515, 0.18 + 3.0i, 1.33},   // prism / gold / water
//	  []float64{optics.SemiInf, 45, optics.SemiInf}, // nm
//	)
//	R, err := optics.Reflectance(optics.PolP, stack, 70*math.Pi/180, 632.8)
//
// Units: thicknesses and wavelength share one length unit (nm above);
// angles are radians. The first and last layers are the incident and
// substrate half-spaces; their thicknesses are ignored and conventionally
// set to SemiInf.
//
// Complexity: O(L) per reflectance evaluation for L layers.
package optics
