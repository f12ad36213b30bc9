package mesh

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Sanitize cleans the mesh in place and returns it. The stages run in a fixed
// order because later stages depend on earlier ones having removed invalid
// geometry:
//
//  1. drop zero-area (degenerate) faces
//  2. drop exact duplicate faces
//  3. drop vertices with non-finite coordinates and faces referencing them
//  4. drop unreferenced vertices, compacting indices
//  5. reorient windings so every normal points outward consistently
//  6. merge coincident vertices (collapses the mirrored root-plane seam)
//
// The result is idempotent: sanitizing twice yields the same mesh as once.
// An error here indicates an internal generation fault, never a user error
func Sanitize(wm *WingMesh) (*WingMesh, error) {
	wm.removeDegenerateFaces()
	wm.removeDuplicateFaces()
	wm.removeNonFiniteVertices()
	wm.removeUnreferencedVertices()
	if err := wm.fixNormals(); err != nil {
		return nil, fmt.Errorf("normal reorientation failed: %w", err)
	}
	wm.mergeVertices(MergeTol)
	if len(wm.Faces) == 0 {
		return nil, fmt.Errorf("sanitization removed every face")
	}
	return wm, nil
}

func (wm *WingMesh) removeDegenerateFaces() {
	kept := wm.Faces[:0]
	for f, tri := range wm.Faces {
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
			continue
		}
		if wm.FaceArea(f) < DegenerateAreaTol {
			continue
		}
		kept = append(kept, tri)
	}
	wm.Faces = kept
}

func (wm *WingMesh) removeDuplicateFaces() {
	var (
		seen = make(map[[3]int]bool, len(wm.Faces))
		kept = wm.Faces[:0]
	)
	for _, tri := range wm.Faces {
		key := tri
		sort.Ints(key[:])
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, tri)
	}
	wm.Faces = kept
}

func (wm *WingMesh) removeNonFiniteVertices() {
	bad := make(map[int]bool)
	for i, v := range wm.Vertices {
		if !isFinite(v) {
			bad[i] = true
		}
	}
	if len(bad) == 0 {
		return
	}
	kept := wm.Faces[:0]
	for _, tri := range wm.Faces {
		if bad[tri[0]] || bad[tri[1]] || bad[tri[2]] {
			continue
		}
		kept = append(kept, tri)
	}
	wm.Faces = kept
	// The vertices themselves are culled by the unreferenced-vertex pass
}

func (wm *WingMesh) removeUnreferencedVertices() {
	var (
		remap    = make([]int, len(wm.Vertices))
		vertsOut []r3.Vec
		next     int
	)
	for i := range remap {
		remap[i] = -1
	}
	for _, tri := range wm.Faces {
		for _, v := range tri {
			if remap[v] == -1 {
				remap[v] = next
				vertsOut = append(vertsOut, wm.Vertices[v])
				next++
			}
		}
	}
	for f, tri := range wm.Faces {
		wm.Faces[f] = [3]int{remap[tri[0]], remap[tri[1]], remap[tri[2]]}
	}
	wm.Vertices = vertsOut
}

// fixNormals makes windings consistent per connected component via an
// edge-adjacency walk, then flips whole components whose enclosed volume is
// negative so the outward convention holds. This corrects residual winding
// inconsistency rather than trusting the lofter unconditionally
func (wm *WingMesh) fixNormals() error {
	type edgeRef struct {
		face    int
		forward bool // Edge direction as it appears in the face winding
	}
	var (
		nf    = len(wm.Faces)
		edges = make(map[[2]int][]edgeRef, 3*nf)
	)
	edgeKey := func(a, b int) ([2]int, bool) {
		if a < b {
			return [2]int{a, b}, true
		}
		return [2]int{b, a}, false
	}
	for f, tri := range wm.Faces {
		for i := 0; i < 3; i++ {
			k, fwd := edgeKey(tri[i], tri[(i+1)%3])
			edges[k] = append(edges[k], edgeRef{face: f, forward: fwd})
		}
	}

	var (
		visited = make([]bool, nf)
		flip    = make([]bool, nf)
	)
	for seed := 0; seed < nf; seed++ {
		if visited[seed] {
			continue
		}
		component := []int{seed}
		visited[seed] = true
		queue := []int{seed}
		for len(queue) > 0 {
			f := queue[0]
			queue = queue[1:]
			tri := wm.Faces[f]
			for i := 0; i < 3; i++ {
				k, fwd := edgeKey(tri[i], tri[(i+1)%3])
				myFwd := fwd != flip[f]
				for _, ref := range edges[k] {
					if ref.face == f || visited[ref.face] {
						continue
					}
					// Consistent winding traverses a shared edge in
					// opposite directions
					if ref.forward == myFwd {
						flip[ref.face] = true
					}
					visited[ref.face] = true
					component = append(component, ref.face)
					queue = append(queue, ref.face)
				}
			}
		}
		// Apply winding flips, then orient the whole component outward
		for _, f := range component {
			if flip[f] {
				tri := wm.Faces[f]
				wm.Faces[f] = [3]int{tri[0], tri[2], tri[1]}
				flip[f] = false
			}
		}
		var vol float64
		for _, f := range component {
			tri := wm.Faces[f]
			vol += r3.Dot(wm.Vertices[tri[0]],
				r3.Cross(wm.Vertices[tri[1]], wm.Vertices[tri[2]])) / 6.
		}
		if math.IsNaN(vol) {
			return fmt.Errorf("non-finite component volume over %d faces", len(component))
		}
		if vol < 0 {
			for _, f := range component {
				tri := wm.Faces[f]
				wm.Faces[f] = [3]int{tri[0], tri[2], tri[1]}
			}
		}
	}
	return nil
}

// mergeVertices welds vertices coincident within tol, remapping faces and
// dropping any face the weld collapses
func (wm *WingMesh) mergeVertices(tol float64) {
	var (
		cells    = make(map[[3]int64]int, len(wm.Vertices))
		remap    = make([]int, len(wm.Vertices))
		vertsOut []r3.Vec
	)
	quantize := func(v r3.Vec) [3]int64 {
		return [3]int64{
			int64(math.Round(v.X / tol)),
			int64(math.Round(v.Y / tol)),
			int64(math.Round(v.Z / tol)),
		}
	}
	for i, v := range wm.Vertices {
		key := quantize(v)
		if j, exists := cells[key]; exists {
			remap[i] = j
			continue
		}
		cells[key] = len(vertsOut)
		remap[i] = len(vertsOut)
		vertsOut = append(vertsOut, v)
	}
	kept := wm.Faces[:0]
	for _, tri := range wm.Faces {
		out := [3]int{remap[tri[0]], remap[tri[1]], remap[tri[2]]}
		if out[0] == out[1] || out[1] == out[2] || out[0] == out[2] {
			continue
		}
		kept = append(kept, out)
	}
	wm.Faces = kept
	wm.Vertices = vertsOut
}
