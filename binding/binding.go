// Package binding locates mesh groups and shader children inside an
// ntf.Tree, translates them to and from meshmodel's neutral
// representation, and recomputes bounding-box chunks on injection.
package binding

import (
	"math"

	"github.com/pkg/errors"

	"github.com/tw1tools/ntfcore/meshmodel"
	"github.com/tw1tools/ntfcore/ntf"
	"github.com/tw1tools/ntfcore/vertex"
)

// ExtractMeshGroups walks every top-level Child of type −254, decodes
// its vertex/index buffers and nested shader, and returns one
// MeshGroup per Child in tree order.
func ExtractMeshGroups(tree *ntf.Tree) ([]meshmodel.MeshGroup, error) {
	var groups []meshmodel.MeshGroup
	for _, child := range tree.ChildrenOfType(ntf.ChildTypeMesh) {
		g, err := extractOne(child)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func extractOne(c *ntf.Child) (meshmodel.MeshGroup, error) {
	var g meshmodel.MeshGroup

	nameChunk := c.FindChunk("Name")
	if nameChunk != nil {
		if s, ok := nameChunk.Value.(string); ok {
			g.Name = s
		}
	}

	formatChunk := c.FindChunk("VertexFormat")
	numVertChunk := c.FindChunk("NumVertexes")
	numFaceChunk := c.FindChunk("NumFaces")
	vertChunk := c.FindChunk("Vertexes")
	faceChunk := c.FindChunk("Faces")
	if formatChunk == nil || numVertChunk == nil || numFaceChunk == nil || vertChunk == nil || faceChunk == nil {
		return g, errors.Wrapf(ErrMissingRequiredChunk, "mesh group %q", g.Name)
	}

	format, ok := formatChunk.Value.(int32)
	if !ok {
		return g, errors.Errorf("mesh group %q: VertexFormat has unexpected type %T", g.Name, formatChunk.Value)
	}
	g.VertexFormat = format

	numVerts, ok := numVertChunk.Value.(uint32)
	if !ok {
		return g, errors.Errorf("mesh group %q: NumVertexes has unexpected type %T", g.Name, numVertChunk.Value)
	}
	numFaces, ok := numFaceChunk.Value.(uint32)
	if !ok {
		return g, errors.Errorf("mesh group %q: NumFaces has unexpected type %T", g.Name, numFaceChunk.Value)
	}
	if numFaces%3 != 0 {
		return g, errors.Wrapf(ErrIndexCountNotMultipleOfThree, "mesh group %q: NumFaces=%d", g.Name, numFaces)
	}

	vertRaw, ok := vertChunk.Value.([]byte)
	if !ok {
		return g, errors.Errorf("mesh group %q: Vertexes has unexpected type %T", g.Name, vertChunk.Value)
	}
	faceRaw, ok := faceChunk.Value.([]byte)
	if !ok {
		return g, errors.Errorf("mesh group %q: Faces has unexpected type %T", g.Name, faceChunk.Value)
	}

	decoded, err := vertex.Decode(format, vertRaw, int(numVerts))
	if err != nil {
		return g, errors.Wrapf(err, "mesh group %q", g.Name)
	}
	g.Vertices = make([]meshmodel.Vertex, len(decoded))
	for i, v := range decoded {
		g.Vertices[i] = fromVertexVertex(v)
	}

	if len(faceRaw) < int(numFaces)*2 {
		return g, errors.Errorf("mesh group %q: Faces buffer is %d bytes, need %d for NumFaces=%d", g.Name, len(faceRaw), int(numFaces)*2, numFaces)
	}
	numTriangles := int(numFaces) / 3
	g.Triangles = make([]meshmodel.Triangle, numTriangles)
	for i := 0; i < numTriangles; i++ {
		off := i * 6
		g.Triangles[i] = meshmodel.Triangle{
			readU16(faceRaw, off),
			readU16(faceRaw, off+2),
			readU16(faceRaw, off+4),
		}
	}

	if shaderChild := c.FirstChildOfType(ntf.ChildTypeShader); shaderChild != nil {
		mat, err := meshmodel.ExtractShader(shaderChild)
		if err != nil {
			return g, errors.Wrapf(err, "mesh group %q", g.Name)
		}
		g.Material = mat
	} else {
		return g, errors.Wrapf(ErrMissingRequiredChunk, "mesh group %q: no shader child", g.Name)
	}

	return g, nil
}

// InjectMeshGroups overwrites the mesh chunks of each −254 Child in
// tree, matched by position to groups, and recomputes bounding boxes.
// It is transactional: if any group fails validation, tree is left
// untouched.
func InjectMeshGroups(tree *ntf.Tree, groups []meshmodel.MeshGroup) error {
	children := tree.ChildrenOfType(ntf.ChildTypeMesh)
	if len(children) != len(groups) {
		return errors.Wrapf(ErrSkeletonMismatch, "tree has %d mesh groups, got %d", len(children), len(groups))
	}

	for _, g := range groups {
		if len(g.Vertices) > maxVertices {
			return errors.Wrapf(ErrTooManyVertices, "mesh group %q: %d vertices", g.Name, len(g.Vertices))
		}
	}

	for i, g := range groups {
		injectOne(children[i], g)
	}
	return nil
}

func injectOne(c *ntf.Child, g meshmodel.MeshGroup) {
	verts := make([]vertex.Vertex, len(g.Vertices))
	for i, v := range g.Vertices {
		verts[i] = toVertexVertex(v)
	}
	vertRaw := vertex.Encode(verts)

	numIndices := len(g.Triangles) * 3
	faceRaw := make([]byte, numIndices*2)
	for i, tri := range g.Triangles {
		off := i * 6
		writeU16(faceRaw, off, tri[0])
		writeU16(faceRaw, off+2, tri[1])
		writeU16(faceRaw, off+4, tri[2])
	}

	c.SetChunkValue("NumVertexes", uint32(len(g.Vertices)))
	c.SetChunkValue("NumFaces", uint32(numIndices))
	c.SetChunkValue("Vertexes", vertRaw)
	c.SetChunkValue("Faces", faceRaw)

	min, max := aabb(g.Vertices)
	c.SetChunkValue("BBoxMin", ntf.Vec4F{min[0], min[1], min[2], 1.0})
	c.SetChunkValue("BBoxMax", ntf.Vec4F{max[0], max[1], max[2], 1.0})
	if c.FindChunk("TMin") != nil {
		c.SetChunkValue("TMin", ntf.Vec4F{min[0], min[1], min[2], 1.0})
	}
	if c.FindChunk("TMax") != nil {
		c.SetChunkValue("TMax", ntf.Vec4F{max[0], max[1], max[2], 1.0})
	}
}

func aabb(verts []meshmodel.Vertex) (min, max [3]float32) {
	if len(verts) == 0 {
		return min, max
	}
	min = [3]float32{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	max = [3]float32{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	for _, v := range verts {
		for axis := 0; axis < 3; axis++ {
			if v.Position[axis] < min[axis] {
				min[axis] = v.Position[axis]
			}
			if v.Position[axis] > max[axis] {
				max[axis] = v.Position[axis]
			}
		}
	}
	return min, max
}

func fromVertexVertex(v vertex.Vertex) meshmodel.Vertex {
	return meshmodel.Vertex{
		Position: v.Position,
		Normal:   v.Normal,
		NormalW:  v.NormalW,
		Tangent:  v.Tangent,
		TangentW: v.TangentW,
		UV0:      v.UV0,
		UV1:      v.UV1,
	}
}

func toVertexVertex(v meshmodel.Vertex) vertex.Vertex {
	return vertex.Vertex{
		Position: v.Position,
		Normal:   v.Normal,
		NormalW:  v.NormalW,
		Tangent:  v.Tangent,
		TangentW: v.TangentW,
		UV0:      v.UV0,
		UV1:      v.UV1,
	}
}

func readU16(b []byte, off int) uint16 {
	return uint16(b[off]) | uint16(b[off+1])<<8
}

func writeU16(b []byte, off int, v uint16) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
}
