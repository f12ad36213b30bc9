// Package geometry builds the airfoil cross-section and lofts it spanwise
// into the 3D wing surface mesh.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	NumSpanSections = 20   // Spanwise stations per half, root to tip
	NumChordPoints  = 50   // Samples along the normalized chord
	ThicknessRatio  = 0.12 // Half-thickness envelope peak as a fraction of chord
	MinChord        = 0.05 // Floor applied to the tapered chord at every station
)

// ProfileSource produces a closed 2D cross-section curve in normalized chord
// coordinates. Isolating the profile behind this interface lets a
// higher-fidelity source (e.g. a NACA table) replace the analytic one without
// touching the lofting algorithm
type ProfileSource interface {
	// Profile returns the x (chordwise) and z (thickness) traces of a closed
	// curve of 2*numPoints-1 points, starting and ending at the trailing edge
	Profile(numPoints int) (x, z []float64)
}

// SymmetricProfile is the analytic dataset-free airfoil: a symmetric
// half-thickness envelope z(x) = t*sqrt(4x(1-x)), zero at both edges and
// maximal at mid-chord. It trades aerodynamic fidelity for requiring no
// external airfoil geometry
type SymmetricProfile struct {
	Thickness float64 // Peak half-thickness as a fraction of chord
}

// Profile samples numPoints stations uniformly on x in [0,1] and assembles
// the closed loop: upper surface trailing->leading, then lower surface from
// just past the leading edge back to the trailing edge. Every interior x
// appears exactly twice (once upper, once lower); the leading-edge point is
// not duplicated
func (sp SymmetricProfile) Profile(numPoints int) (x, z []float64) {
	var (
		xc = floats.Span(make([]float64, numPoints), 0, 1)
		zu = make([]float64, numPoints)
	)
	for i, xv := range xc {
		zu[i] = sp.Thickness * math.Sqrt(4.*xv*(1.-xv))
	}
	x = make([]float64, 0, 2*numPoints-1)
	z = make([]float64, 0, 2*numPoints-1)
	for i := numPoints - 1; i >= 0; i-- { // Upper, TE -> LE
		x = append(x, xc[i])
		z = append(z, zu[i])
	}
	for i := 1; i < numPoints; i++ { // Lower, LE+1 -> TE
		x = append(x, xc[i])
		z = append(z, -zu[i])
	}
	return
}
