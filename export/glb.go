// Package export serializes a sanitized wing mesh to binary 3D interchange
// formats. The buffers are self-contained (vertex positions, normals and
// triangle indices) and suitable for direct transfer or storage.
package export

import (
	"bytes"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/skyforge/wingen/mesh"
)

type Format string

const (
	FormatGLB Format = "glb"
	FormatSTL Format = "stl"
)

// ParseFormat maps a user-supplied format name to a Format, defaulting to GLB
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "glb":
		return FormatGLB, nil
	case "stl":
		return FormatSTL, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want glb or stl)", s)
	}
}

// Ext returns the file extension for a format, with the dot
func (f Format) Ext() string { return "." + string(f) }

// Encode serializes the mesh in the requested format
func Encode(f Format, wm *mesh.WingMesh) ([]byte, error) {
	switch f {
	case FormatGLB:
		return GLB(wm)
	case FormatSTL:
		return STL(wm)
	default:
		return nil, fmt.Errorf("unsupported output format %q", f)
	}
}

// GLB packs the mesh into a single-primitive binary glTF document
func GLB(wm *mesh.WingMesh) ([]byte, error) {
	var (
		positions = make([][3]float32, len(wm.Vertices))
		normals   = make([][3]float32, len(wm.Vertices))
		indices   = make([]uint32, 0, 3*len(wm.Faces))
	)
	for i, v := range wm.Vertices {
		positions[i] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
	}
	for i, n := range wm.VertexNormals() {
		normals[i] = [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}
	}
	for _, tri := range wm.Faces {
		indices = append(indices, uint32(tri[0]), uint32(tri[1]), uint32(tri[2]))
	}

	doc := gltf.NewDocument()
	doc.Meshes = []*gltf.Mesh{{
		Name: "wing",
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: map[string]uint32{
				gltf.POSITION: modeler.WritePosition(doc, positions),
				gltf.NORMAL:   modeler.WriteNormal(doc, normals),
			},
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "wing", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("glb encode: %w", err)
	}
	return buf.Bytes(), nil
}
