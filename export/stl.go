package export

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/skyforge/wingen/mesh"
)

const stlHeaderSize = 80

// stlTri is the 50-byte binary STL triangle record
type stlTri struct {
	N, V1, V2, V3 [3]float32
	_             uint16 // unused attribute byte count
}

// STL writes the mesh as little-endian binary STL. STL carries no index
// buffer, so each triangle record repeats its three vertex positions
func STL(wm *mesh.WingMesh) ([]byte, error) {
	var buf bytes.Buffer
	header := struct {
		_ [stlHeaderSize]uint8
		N uint32
	}{N: uint32(len(wm.Faces))}
	if err := binary.Write(&buf, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("error writing header: %v", err)
	}
	vec32 := func(v r3.Vec) [3]float32 {
		return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
	}
	for f, tri := range wm.Faces {
		n := wm.FaceNormal(f)
		if l := r3.Norm(n); l > 0 {
			n = r3.Scale(1./l, n)
		}
		rec := stlTri{
			N:  vec32(n),
			V1: vec32(wm.Vertices[tri[0]]),
			V2: vec32(wm.Vertices[tri[1]]),
			V3: vec32(wm.Vertices[tri[2]]),
		}
		if err := binary.Write(&buf, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("error writing triangle %d: %v", f, err)
		}
	}
	return buf.Bytes(), nil
}
