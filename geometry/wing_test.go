package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyforge/wingen/mesh"
	"github.com/skyforge/wingen/params"
)

// Full loft -> sanitize pipeline on a representative wing
func TestSanitizedWing(t *testing.T) {
	var (
		wp = params.WingParameters{RootChord: 5, SemiSpan: 10, SweepAngleDeg: 25, TaperRatio: 0.5}
		np = 2*NumChordPoints - 1
	)
	wm, err := mesh.Sanitize(NewLofter(nil).Build(wp))
	require.NoError(t, err)

	{ // Welding collapses the trailing-edge seam within each section and the
		// root-plane seam between the mirrored halves
		var (
			uniquePerSection = np - 1                 // TE start and end weld together
			sections         = 2*NumSpanSections - 1 // root section shared by both halves
		)
		assert.Equal(t, uniquePerSection*sections, wm.NumVertices())
	}
	{ // The two zero-area wrap triangles per section pair are gone
		perPair := 2*(np-1) // two triangles per quad, wrap quad removed
		assert.Equal(t, perPair*(NumSpanSections-1)*2, wm.NumFaces())
	}
	{ // Exactly one ring of root-plane vertices remains
		var rootVerts int
		for _, v := range wm.Vertices {
			if v.Y == 0 {
				rootVerts++
			}
		}
		assert.Equal(t, np-1, rootVerts)
	}
	// Outward-consistent winding encloses positive volume
	assert.Greater(t, wm.SignedVolume(), 0.0)

	// All indices in range after compaction
	for _, tri := range wm.Faces {
		for _, v := range tri {
			assert.GreaterOrEqual(t, v, 0)
			assert.Less(t, v, wm.NumVertices())
		}
	}
}

func TestSanitizeWingIdempotent(t *testing.T) {
	wp := params.WingParameters{RootChord: 3, SemiSpan: 6, SweepAngleDeg: 15, TaperRatio: 0.8}
	once, err := mesh.Sanitize(NewLofter(nil).Build(wp))
	require.NoError(t, err)
	var (
		nv = once.NumVertices()
		nf = once.NumFaces()
	)
	twice, err := mesh.Sanitize(once)
	require.NoError(t, err)
	assert.Equal(t, nv, twice.NumVertices())
	assert.Equal(t, nf, twice.NumFaces())
}
