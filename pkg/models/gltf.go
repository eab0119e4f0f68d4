package models

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/sculpt/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// CalculateNormals fills in smooth normals for triangle surfaces stored
	// without them.
	CalculateNormals bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
	}
}

// LoadGLB loads a binary GLTF (.glb) file.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file. Every primitive of every mesh in the
// document becomes one surface, in document order.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open gltf")
	}

	mesh := NewMesh(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, errors.Wrapf(err, "process mesh %q", m.Name)
		}
	}
	if mesh.SurfaceCount() == 0 {
		return nil, errors.Wrapf(ErrNoSurface, "%s has no primitives with positions", path)
	}
	return mesh, nil
}

// processMesh extracts geometry from a GLTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for pi, prim := range m.Primitives {
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		var s Surface
		switch prim.Mode {
		case gltf.PrimitiveTriangles:
			s.Primitive = PrimitiveTriangles
		case gltf.PrimitiveLines:
			s.Primitive = PrimitiveLines
		case gltf.PrimitivePoints:
			s.Primitive = PrimitivePoints
		default:
			// Strips and fans would need re-indexing.
			continue
		}

		var err error
		s.Vertices, err = readVec3Accessor(doc, posIdx)
		if err != nil {
			return errors.Wrap(err, "read positions")
		}

		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			s.Normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return errors.Wrap(err, "read normals")
			}
		}

		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			s.UVs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return errors.Wrap(err, "read uvs")
			}
		}

		if prim.Indices != nil {
			s.Indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return errors.Wrap(err, "read indices")
			}
		}

		if prim.Material != nil && *prim.Material < len(doc.Materials) {
			s.Material = doc.Materials[*prim.Material].Name
		}

		if l.CalculateNormals && len(s.Normals) == 0 && s.Primitive == PrimitiveTriangles {
			s.CalculateSmoothNormals()
		}

		if _, err := mesh.AddSurface(s); err != nil {
			return errors.Wrapf(err, "primitive %d", pi)
		}
	}

	return nil
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, errors.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, errors.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, errors.New("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}

	return result, nil
}

// readVec2Accessor reads Vec2 data from a GLTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, errors.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, errors.Errorf("expected VEC2, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][2]float32)
	if !ok {
		return nil, errors.New("unexpected data type for VEC2")
	}

	result := make([]math3d.Vec2, len(floats))
	for i, f := range floats {
		result[i] = math3d.V2(float64(f[0]), float64(f[1]))
	}

	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, errors.Errorf("accessor %d out of range", accessorIdx)
	}
	data, err := readAccessorData(doc, doc.Accessors[accessorIdx])
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []uint8:
		return widen(v), nil
	case []uint16:
		return widen(v), nil
	case []uint32:
		return widen(v), nil
	default:
		return nil, errors.Errorf("unexpected index type: %T", data)
	}
}

func widen[T uint8 | uint16 | uint32](v []T) []int {
	result := make([]int, len(v))
	for i, x := range v {
		result[i] = int(x)
	}
	return result
}

// readAccessorData reads raw data from a GLTF accessor.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, errors.New("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]

	if buffer.URI != "" && buffer.Data == nil {
		return nil, errors.New("external buffers are not supported")
	}
	bufData := buffer.Data
	if bufData == nil {
		return nil, errors.New("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count

	// need reports whether count elements of size bytes fit in the buffer.
	need := func(size int) bool {
		if count == 0 {
			return true
		}
		return start+(count-1)*stride+size <= len(bufData)
	}

	switch accessor.Type {
	case gltf.AccessorVec3:
		if stride == 0 {
			stride = 12 // 3 floats * 4 bytes
		}
		if !need(12) {
			return nil, errors.New("VEC3 accessor overruns its buffer")
		}
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorVec2:
		if stride == 0 {
			stride = 8 // 2 floats * 4 bytes
		}
		if !need(8) {
			return nil, errors.New("VEC2 accessor overruns its buffer")
		}
		result := make([][2]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 2 {
				result[i][j] = readFloat32(bufData[offset+j*4:])
			}
		}
		return result, nil

	case gltf.AccessorScalar:
		size := 0
		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			size = 1
		case gltf.ComponentUshort:
			size = 2
		case gltf.ComponentUint:
			size = 4
		}
		if size == 0 {
			break
		}
		if stride == 0 {
			stride = size
		}
		if !need(size) {
			return nil, errors.New("index accessor overruns its buffer")
		}

		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			result := make([]uint8, count)
			for i := range count {
				result[i] = bufData[start+i*stride]
			}
			return result, nil
		case gltf.ComponentUshort:
			result := make([]uint16, count)
			for i := range count {
				result[i] = binary.LittleEndian.Uint16(bufData[start+i*stride:])
			}
			return result, nil
		case gltf.ComponentUint:
			result := make([]uint32, count)
			for i := range count {
				result[i] = binary.LittleEndian.Uint32(bufData[start+i*stride:])
			}
			return result, nil
		}
	}

	return nil, errors.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// SaveGLB writes every surface of m to a binary GLTF file, one primitive per
// surface under a single mesh node.
func SaveGLB(m *Mesh, path string) error {
	doc := gltf.NewDocument()

	gm := &gltf.Mesh{Name: m.Name}
	materials := map[string]int{}
	for i := range m.SurfaceCount() {
		s, err := m.Surface(i)
		if err != nil {
			return err
		}
		if len(s.Vertices) == 0 {
			continue
		}

		positions := make([][3]float32, len(s.Vertices))
		for j, v := range s.Vertices {
			positions[j] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
		}
		attrs := map[string]int{gltf.POSITION: modeler.WritePosition(doc, positions)}

		if len(s.Normals) > 0 {
			normals := make([][3]float32, len(s.Normals))
			for j, n := range s.Normals {
				normals[j] = [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}
			}
			attrs[gltf.NORMAL] = modeler.WriteNormal(doc, normals)
		}

		if len(s.UVs) > 0 {
			uvs := make([][2]float32, len(s.UVs))
			for j, uv := range s.UVs {
				uvs[j] = [2]float32{float32(uv.X), float32(uv.Y)}
			}
			attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, uvs)
		}

		prim := &gltf.Primitive{Attributes: attrs, Mode: primitiveMode(s.Primitive)}

		if len(s.Indices) > 0 {
			indices := make([]uint32, len(s.Indices))
			for j, idx := range s.Indices {
				indices[j] = uint32(idx)
			}
			idx := modeler.WriteIndices(doc, indices)
			prim.Indices = &idx
		}

		if s.Material != "" {
			mi, ok := materials[s.Material]
			if !ok {
				doc.Materials = append(doc.Materials, &gltf.Material{Name: s.Material, DoubleSided: true})
				mi = len(doc.Materials) - 1
				materials[s.Material] = mi
			}
			prim.Material = &mi
		}

		gm.Primitives = append(gm.Primitives, prim)
	}
	if len(gm.Primitives) == 0 {
		return errors.Wrapf(ErrNoSurface, "save %s: mesh has no vertices", path)
	}

	doc.Meshes = append(doc.Meshes, gm)
	meshIdx := len(doc.Meshes) - 1
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: m.Name, Mesh: &meshIdx})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)

	if err := gltf.SaveBinary(doc, path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}

func primitiveMode(p PrimitiveType) gltf.PrimitiveMode {
	switch p {
	case PrimitiveLines:
		return gltf.PrimitiveLines
	case PrimitivePoints:
		return gltf.PrimitivePoints
	default:
		return gltf.PrimitiveTriangles
	}
}
