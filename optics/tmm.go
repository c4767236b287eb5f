package optics

import (
	"math"
	"math/cmplx"
)

// Reflectance — coherent transfer-matrix reflectance of a multilayer stack.
//
// Description:
//
//	Computes the reflected intensity fraction R ∈ [0,1] for a plane wave
//	hitting the stack from the first half-space at angleRad (radians),
//	with the given polarization and vacuum wavelength (same length unit
//	as the layer thicknesses).
//
// Algorithm Outline:
//  1. Propagate Snell's invariant q = n₀·sinθ₀ through every layer and
//     take cosθⱼ = sqrt(1 − (q/nⱼ)²) on the forward-decaying branch.
//  2. For each interface (j, j+1) form the Fresnel amplitude rⱼ and the
//     2×2 interface matrix [[1, rⱼ], [rⱼ, 1]].
//  3. For each internal layer j apply the phase matrix
//     diag(e^{−iδⱼ}, e^{+iδⱼ}) with δⱼ = 2π·nⱼ·cosθⱼ·dⱼ/λ.
//  4. r = M₁₀/M₀₀ of the accumulated matrix; R = |r|².
//
// The scalar 1/t transmission prefactors of the textbook formulation
// cancel in the ratio M₁₀/M₀₀ and are omitted.
//
// Errors:
//   - ErrLayerMismatch / ErrTooFewLayers — malformed stack.
//   - ErrPolarization — pol is neither PolP nor PolS.
//   - ErrWavelength — wavelength <= 0.
//
// Complexity: O(L) time, O(L) space for L layers.
func Reflectance(pol Polarization, s Stack, angleRad, wavelength float64) (float64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if pol != PolP && pol != PolS {
		return 0, ErrPolarization
	}
	if wavelength <= 0 || math.IsNaN(wavelength) {
		return 0, ErrWavelength
	}

	last := s.Len() - 1

	// Snell invariant q = n0·sinθ0, shared by every layer.
	q := s.Index(0) * complex(math.Sin(angleRad), 0)

	// cosθ per layer, forward-decaying branch.
	cos := make([]complex128, s.Len())
	for j := 0; j <= last; j++ {
		cos[j] = forwardCos(q, s.Index(j))
	}

	// Accumulate interface/phase matrices through the internal layers.
	r01 := fresnel(pol, s.Index(0), s.Index(1), cos[0], cos[1])
	m := mat2{1, r01, r01, 1}
	for j := 1; j < last; j++ {
		delta := 2 * math.Pi / wavelength * s.Thickness(j)
		phase := complex(delta, 0) * s.Index(j) * cos[j]
		// Clamp evanescent growth so e^{±iδ} stays finite for thick
		// absorbing layers; past ~e^35 the layer is opaque anyway.
		if im := imag(phase); im > 35 {
			phase = complex(real(phase), 35)
		}
		r := fresnel(pol, s.Index(j), s.Index(j+1), cos[j], cos[j+1])
		m = m.mul(mat2{cmplx.Exp(-1i * phase), 0, 0, cmplx.Exp(1i * phase)})
		m = m.mul(mat2{1, r, r, 1})
	}

	refl := m.c / m.a
	R := real(refl)*real(refl) + imag(refl)*imag(refl)

	return R, nil
}

// forwardCos returns cosθ for a layer of index n given the Snell invariant q,
// flipped onto the branch whose wave decays (or propagates forward) into the
// layer: Im(n·cosθ) ≥ 0, and Re(n·cosθ) ≥ 0 when purely propagating.
func forwardCos(q, n complex128) complex128 {
	sin := q / n
	cos := cmplx.Sqrt(1 - sin*sin)
	nc := n * cos
	if imag(nc) < 0 || (imag(nc) == 0 && real(nc) < 0) {
		cos = -cos
	}

	return cos
}

// fresnel returns the amplitude reflection coefficient of the (a → b)
// interface for the given polarization.
func fresnel(pol Polarization, na, nb, cosA, cosB complex128) complex128 {
	if pol == PolS {
		return (na*cosA - nb*cosB) / (na*cosA + nb*cosB)
	}

	return (nb*cosA - na*cosB) / (nb*cosA + na*cosB)
}

// mat2 is a 2×2 complex matrix [[a, b], [c, d]].
type mat2 struct{ a, b, c, d complex128 }

// mul returns the matrix product m·o.
func (m mat2) mul(o mat2) mat2 {
	return mat2{
		a: m.a*o.a + m.b*o.c,
		b: m.a*o.b + m.b*o.d,
		c: m.c*o.a + m.d*o.c,
		d: m.c*o.b + m.d*o.d,
	}
}
