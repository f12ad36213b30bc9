// Package mesh holds the triangle surface mesh produced by the wing lofter
// and the sanitation pipeline that cleans it before serialization.
package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// Faces with less than this area are considered degenerate
	DegenerateAreaTol = 1.e-12
	// Vertices closer than this are considered coincident and merged
	MergeTol = 1.e-6
)

// WingMesh is a vertex buffer plus a triangle index buffer with consistent
// winding. It is owned exclusively by its producer until handed to Sanitize,
// which mutates it in place
type WingMesh struct {
	Vertices []r3.Vec
	Faces    [][3]int
}

func (wm *WingMesh) NumVertices() int { return len(wm.Vertices) }
func (wm *WingMesh) NumFaces() int    { return len(wm.Faces) }

// FaceNormal returns the unnormalized normal of face f - its length is twice
// the face area
func (wm *WingMesh) FaceNormal(f int) r3.Vec {
	var (
		tri    = wm.Faces[f]
		v0     = wm.Vertices[tri[0]]
		e1, e2 = r3.Sub(wm.Vertices[tri[1]], v0), r3.Sub(wm.Vertices[tri[2]], v0)
	)
	return r3.Cross(e1, e2)
}

// FaceArea returns the area of face f
func (wm *WingMesh) FaceArea(f int) float64 {
	return 0.5 * r3.Norm(wm.FaceNormal(f))
}

// VertexNormals computes area-weighted per-vertex normals from the current
// face winding
func (wm *WingMesh) VertexNormals() (normals []r3.Vec) {
	normals = make([]r3.Vec, len(wm.Vertices))
	for f := range wm.Faces {
		fn := wm.FaceNormal(f)
		for _, v := range wm.Faces[f] {
			normals[v] = r3.Add(normals[v], fn)
		}
	}
	for i, n := range normals {
		if l := r3.Norm(n); l > 0 {
			normals[i] = r3.Scale(1./l, n)
		}
	}
	return
}

// SignedVolume returns the volume enclosed by the mesh under the divergence
// theorem. Positive means the winding points outward
func (wm *WingMesh) SignedVolume() (vol float64) {
	for _, tri := range wm.Faces {
		var (
			a = wm.Vertices[tri[0]]
			b = wm.Vertices[tri[1]]
			c = wm.Vertices[tri[2]]
		)
		vol += r3.Dot(a, r3.Cross(b, c)) / 6.
	}
	return
}

func isFinite(v r3.Vec) bool {
	finite := func(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}
