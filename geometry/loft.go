package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/skyforge/wingen/mesh"
	"github.com/skyforge/wingen/params"
)

// Lofter sweeps a cross-section profile across span stations to produce the
// wing surface. Section and chord-point counts are fixed configuration
// constants, not request-tunable, which bounds generation cost
type Lofter struct {
	Source   ProfileSource
	Sections int
	Points   int // Chordwise samples handed to the profile source
}

func NewLofter(src ProfileSource) *Lofter {
	if src == nil {
		src = SymmetricProfile{Thickness: ThicknessRatio}
	}
	return &Lofter{
		Source:   src,
		Sections: NumSpanSections,
		Points:   NumChordPoints,
	}
}

// ChordAt returns the linearly tapered chord at span position y, clamped to
// the minimum chord floor
func ChordAt(wp params.WingParameters, y float64) (chord float64) {
	chord = wp.RootChord * (1. - (1.-wp.TaperRatio)*(y/wp.SemiSpan))
	if chord < MinChord {
		chord = MinChord
	}
	return
}

// Build lofts the profile into a closed, mirrored wing mesh. The right half
// runs root->tip at positive y; the left half is its mirror with negated y
// and reversed winding so the outward convention survives the reflection.
// The two halves meet at y=0 without shared vertices - welding the root-plane
// seam is the sanitizer's job
func (l *Lofter) Build(wp params.WingParameters) (wm *mesh.WingMesh) {
	var (
		sweepRad  = wp.SweepAngleDeg * math.Pi / 180.
		yStations = floats.Span(make([]float64, l.Sections), 0, wp.SemiSpan)
		xProf, zProf = l.Source.Profile(l.Points)
		np           = len(xProf)
		nSec         = len(yStations)
	)
	wm = &mesh.WingMesh{
		Vertices: make([]r3.Vec, 0, 2*nSec*np),
		Faces:    make([][3]int, 0, 4*nSec*np),
	}

	// Right half sections, root -> tip
	for _, y := range yStations {
		var (
			chord = ChordAt(wp, y)
			xLE   = y * math.Tan(sweepRad)
		)
		for i := range xProf {
			wm.Vertices = append(wm.Vertices, r3.Vec{
				X: xProf[i]*chord + xLE,
				Y: y,
				Z: zProf[i] * chord,
			})
		}
	}
	// Left half mirrors the right about the root plane
	for i := 0; i < nSec*np; i++ {
		v := wm.Vertices[i]
		v.Y = -v.Y
		wm.Vertices = append(wm.Vertices, v)
	}

	// Quad strip between each pair of adjacent sections, split into two
	// triangles. The wrap pair (last profile point back to the first) closes
	// the trailing-edge seam
	emit := func(base int, reverse bool) {
		quad := func(v0, v1, v2, v3 int) {
			if reverse {
				wm.Faces = append(wm.Faces, [3]int{v2, v1, v0}, [3]int{v3, v1, v2})
			} else {
				wm.Faces = append(wm.Faces, [3]int{v0, v1, v2}, [3]int{v2, v1, v3})
			}
		}
		for sec := 0; sec < nSec-1; sec++ {
			var (
				cur = base + sec*np
				nxt = base + (sec+1)*np
			)
			for pt := 0; pt < np-1; pt++ {
				quad(cur+pt, nxt+pt, cur+pt+1, nxt+pt+1)
			}
			quad(cur+np-1, nxt+np-1, cur, nxt)
		}
	}
	emit(0, false)       // Right half, outward winding
	emit(nSec*np, true)  // Left half, reversed to stay outward after the mirror
	return
}
