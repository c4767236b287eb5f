package optics

import (
	"errors"
	"math"
)

// Sentinel errors returned by stack construction and reflectance evaluation.
var (
	// ErrLayerMismatch indicates that the refractive-index and thickness
	// sequences have different lengths.
	ErrLayerMismatch = errors.New("optics: refractive-index and thickness counts differ")

	// ErrTooFewLayers indicates that fewer than two layers were supplied;
	// at minimum an incident and a substrate half-space are required.
	ErrTooFewLayers = errors.New("optics: stack needs at least two layers")

	// ErrLayerIndex indicates that a layer index is outside the stack bounds.
	ErrLayerIndex = errors.New("optics: layer index out of range")

	// ErrPolarization indicates a polarization selector other than PolP or PolS.
	ErrPolarization = errors.New("optics: unknown polarization")

	// ErrWavelength indicates a non-positive illumination wavelength.
	ErrWavelength = errors.New("optics: wavelength must be positive")
)

// SemiInf is the conventional thickness of the incident and substrate
// half-spaces. The transfer-matrix computation never propagates through the
// outer layers, so any value works; SemiInf documents the intent.
var SemiInf = math.Inf(1)

// Polarization selects the electric-field orientation of the incident light.
type Polarization string

const (
	// PolP is p-polarized (TM) light; the SPR dip exists only for PolP.
	PolP Polarization = "p"

	// PolS is s-polarized (TE) light.
	PolS Polarization = "s"
)

// Stack is an immutable ordered multilayer description. The first layer is
// the incident half-space, the last is the substrate half-space. Construct
// via NewStack; derive variants via WithIndex.
type Stack struct {
	indices     []complex128
	thicknesses []float64
}

// NewStack builds a Stack from parallel index and thickness sequences.
// Both slices are copied, so later mutation of the arguments does not
// alias into the returned value.
//
// Errors:
//   - ErrLayerMismatch if len(indices) != len(thicknesses).
//   - ErrTooFewLayers if fewer than two layers are given.
func NewStack(indices []complex128, thicknesses []float64) (Stack, error) {
	if len(indices) != len(thicknesses) {
		return Stack{}, ErrLayerMismatch
	}
	if len(indices) < 2 {
		return Stack{}, ErrTooFewLayers
	}
	s := Stack{
		indices:     make([]complex128, len(indices)),
		thicknesses: make([]float64, len(thicknesses)),
	}
	copy(s.indices, indices)
	copy(s.thicknesses, thicknesses)

	return s, nil
}

// Len returns the number of layers, including both half-spaces.
func (s Stack) Len() int { return len(s.indices) }

// Index returns the complex refractive index of layer i.
func (s Stack) Index(i int) complex128 { return s.indices[i] }

// Thickness returns the thickness of layer i.
func (s Stack) Thickness(i int) float64 { return s.thicknesses[i] }

// Validate reports whether the stack is well-formed. The zero Stack is not.
func (s Stack) Validate() error {
	if len(s.indices) != len(s.thicknesses) {
		return ErrLayerMismatch
	}
	if len(s.indices) < 2 {
		return ErrTooFewLayers
	}

	return nil
}

// WithIndex returns a copy of the stack with the refractive index of layer i
// replaced by n. The receiver is left untouched, so concurrent evaluation of
// sweep samples never observes a partially-updated stack.
//
// Errors:
//   - ErrLayerIndex if i is outside [0, Len).
func (s Stack) WithIndex(i int, n complex128) (Stack, error) {
	if err := s.Validate(); err != nil {
		return Stack{}, err
	}
	if i < 0 || i >= len(s.indices) {
		return Stack{}, ErrLayerIndex
	}
	out := Stack{
		indices:     make([]complex128, len(s.indices)),
		thicknesses: make([]float64, len(s.thicknesses)),
	}
	copy(out.indices, s.indices)
	copy(out.thicknesses, s.thicknesses)
	out.indices[i] = n

	return out, nil
}
