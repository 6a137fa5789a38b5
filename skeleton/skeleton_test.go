package skeleton

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/tw1tools/ntfcore/binding"
	"github.com/tw1tools/ntfcore/meshmodel"
	"github.com/tw1tools/ntfcore/ntf"
	"github.com/tw1tools/ntfcore/vertex"
)

func buildMeshTree(name string, vertexes, faces []byte) *ntf.Tree {
	child := &ntf.Child{
		Type: ntf.ChildTypeMesh,
		Entries: []ntf.Entry{
			ntf.EntryChunk(&ntf.Chunk{Name: "Name", Type: ntf.ChunkString, Value: name}),
			ntf.EntryChunk(&ntf.Chunk{Name: "NumVertexes", Type: ntf.ChunkUint32, Value: uint32(len(vertexes) / 36)}),
			ntf.EntryChunk(&ntf.Chunk{Name: "NumFaces", Type: ntf.ChunkUint32, Value: uint32(len(faces) / 2)}),
			ntf.EntryChunk(&ntf.Chunk{Name: "Vertexes", Type: ntf.ChunkRaw, Value: vertexes}),
			ntf.EntryChunk(&ntf.Chunk{Name: "Faces", Type: ntf.ChunkRaw, Value: faces}),
			ntf.EntryChunk(&ntf.Chunk{Name: "AniFileName", Type: ntf.ChunkString, Value: "walk.ani"}),
		},
	}
	return &ntf.Tree{Entries: []ntf.Entry{ntf.EntryChild(child)}}
}

func TestEmitBlanksMeshChunks(t *testing.T) {
	tree := buildMeshTree("T", bytes.Repeat([]byte{1}, 72), []byte{0, 0, 1, 0, 2, 0})
	skelBytes := Emit(tree)

	skel, err := Restore(skelBytes)
	if err != nil {
		t.Fatal(err)
	}
	child := skel.Entries[0].Child
	if v := child.FindChunk("NumVertexes").Value.(uint32); v != 0 {
		t.Fatalf("NumVertexes = %d, want 0", v)
	}
	if v := child.FindChunk("NumFaces").Value.(uint32); v != 0 {
		t.Fatalf("NumFaces = %d, want 0", v)
	}
	if len(child.FindChunk("Vertexes").Value.([]byte)) != 0 {
		t.Fatal("Vertexes not emptied")
	}
	// Unrelated chunk must survive untouched.
	if child.FindChunk("AniFileName").Value.(string) != "walk.ani" {
		t.Fatal("unrelated chunk was not preserved")
	}
}

func TestEmitDoesNotMutateOriginal(t *testing.T) {
	tree := buildMeshTree("T", bytes.Repeat([]byte{1}, 72), []byte{0, 0, 1, 0, 2, 0})
	_ = Emit(tree)
	child := tree.Entries[0].Child
	if len(child.FindChunk("Vertexes").Value.([]byte)) != 72 {
		t.Fatal("Emit mutated the original tree")
	}
}

func TestEmitBase64RoundTrip(t *testing.T) {
	tree := buildMeshTree("T", bytes.Repeat([]byte{1}, 72), []byte{0, 0, 1, 0, 2, 0})
	encoded := EmitBase64(tree)
	skel, err := RestoreBase64(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if skel.Entries[0].Child.FindChunk("Name").Value.(string) != "T" {
		t.Fatal("base64 round-trip lost data")
	}
}

func buildMeshChildForTransplant(verts []meshmodel.Vertex, tris []meshmodel.Triangle, mat meshmodel.Shader) *ntf.Child {
	vv := make([]vertex.Vertex, len(verts))
	for i, v := range verts {
		vv[i] = vertex.Vertex{
			Position: v.Position, Normal: v.Normal, NormalW: v.NormalW,
			Tangent: v.Tangent, TangentW: v.TangentW, UV0: v.UV0, UV1: v.UV1,
		}
	}
	vertRaw := vertex.Encode(vv)

	numIndices := len(tris) * 3
	faceRaw := make([]byte, numIndices*2)
	for i, tri := range tris {
		off := i * 6
		faceRaw[off] = byte(tri[0])
		faceRaw[off+1] = byte(tri[0] >> 8)
		faceRaw[off+2] = byte(tri[1])
		faceRaw[off+3] = byte(tri[1] >> 8)
		faceRaw[off+4] = byte(tri[2])
		faceRaw[off+5] = byte(tri[2] >> 8)
	}

	return &ntf.Child{
		Type: ntf.ChildTypeMesh,
		Entries: []ntf.Entry{
			ntf.EntryChunk(&ntf.Chunk{Name: "Name", Type: ntf.ChunkString, Value: "Body"}),
			ntf.EntryChunk(&ntf.Chunk{Name: "VertexFormat", Type: ntf.ChunkInt32, Value: int32(1)}),
			ntf.EntryChunk(&ntf.Chunk{Name: "NumVertexes", Type: ntf.ChunkUint32, Value: uint32(len(verts))}),
			ntf.EntryChunk(&ntf.Chunk{Name: "NumFaces", Type: ntf.ChunkUint32, Value: uint32(numIndices)}),
			ntf.EntryChunk(&ntf.Chunk{Name: "Vertexes", Type: ntf.ChunkRaw, Value: vertRaw}),
			ntf.EntryChunk(&ntf.Chunk{Name: "Faces", Type: ntf.ChunkRaw, Value: faceRaw}),
			ntf.EntryChunk(&ntf.Chunk{Name: "BBoxMin", Type: ntf.ChunkVec4, Value: ntf.Vec4F{0, 0, 0, 1}}),
			ntf.EntryChunk(&ntf.Chunk{Name: "BBoxMax", Type: ntf.ChunkVec4, Value: ntf.Vec4F{0, 0, 0, 1}}),
			ntf.EntryChild(meshmodel.BuildShaderChild(mat)),
		},
	}
}

// TestSkeletonTransplant exercises the skeleton transplant of spec.md §8
// scenario 5: Emit a skeleton, edit the geometry externally (simulated
// here by replacing the triangle via binding.InjectMeshGroups rather
// than round-tripping through an actual OBJ editor), Restore it, and
// confirm the result keeps the original non-mesh data (the top-level
// AniFileName chunk, the locator, the shader name and texture) while
// carrying the new geometry. Values are compared, not serialized bytes.
func TestSkeletonTransplant(t *testing.T) {
	origVerts := []meshmodel.Vertex{
		{Position: mgl32.Vec3{0, 0, 0}, Normal: mgl32.Vec3{0, 0, 1}, NormalW: 255, Tangent: mgl32.Vec3{1, 0, 0}, TangentW: 255},
		{Position: mgl32.Vec3{1, 0, 0}, Normal: mgl32.Vec3{0, 0, 1}, NormalW: 255, Tangent: mgl32.Vec3{1, 0, 0}, TangentW: 255},
		{Position: mgl32.Vec3{0, 1, 0}, Normal: mgl32.Vec3{0, 0, 1}, NormalW: 255, Tangent: mgl32.Vec3{1, 0, 0}, TangentW: 255},
	}
	origTris := []meshmodel.Triangle{{0, 1, 2}}
	mat := meshmodel.Shader{Name: "mat0", ShaderName: "buildings_lmap", TexS0: "A.dds"}
	meshChild := buildMeshChildForTransplant(origVerts, origTris, mat)

	locator := meshmodel.BuildLocatorChild(meshmodel.Locator{
		IsLocator: 1,
		LPos:      ntf.Vec4I{1, 2, 3, 4},
		LDir:      ntf.Vec4F{0, 1, 0, 0},
	})

	tree := &ntf.Tree{Entries: []ntf.Entry{
		ntf.EntryChunk(&ntf.Chunk{Name: "AniFileName", Type: ntf.ChunkString, Value: "walk.ani"}),
		ntf.EntryChild(locator),
		ntf.EntryChild(meshChild),
	}}

	skelBytes := Emit(tree)

	// Simulate an external mesh edit: a new, larger triangle.
	editedVerts := make([]meshmodel.Vertex, len(origVerts))
	copy(editedVerts, origVerts)
	editedVerts[1].Position = mgl32.Vec3{9, 0, 0}
	editedVerts[2].Position = mgl32.Vec3{0, 9, 0}
	editedGroup := meshmodel.MeshGroup{
		Name:      "Body",
		Vertices:  editedVerts,
		Triangles: origTris,
		Material:  mat,
	}

	skel, err := Restore(skelBytes)
	if err != nil {
		t.Fatal(err)
	}
	if err := binding.InjectMeshGroups(skel, []meshmodel.MeshGroup{editedGroup}); err != nil {
		t.Fatal(err)
	}

	// Non-mesh top-level chunk survives byte-identical.
	if got := skel.FindChunk("AniFileName").Value.(string); got != "walk.ani" {
		t.Fatalf("AniFileName = %q, want %q", got, "walk.ani")
	}

	// Locator survives untouched.
	restoredLocator, err := meshmodel.ExtractLocator(skel.Entries[1].Child)
	if err != nil {
		t.Fatal(err)
	}
	wantLocator := meshmodel.Locator{IsLocator: 1, LPos: ntf.Vec4I{1, 2, 3, 4}, LDir: ntf.Vec4F{0, 1, 0, 0}}
	if restoredLocator != wantLocator {
		t.Fatalf("locator = %+v, want %+v", restoredLocator, wantLocator)
	}

	groups, err := binding.ExtractMeshGroups(skel)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 {
		t.Fatalf("got %d mesh groups, want 1", len(groups))
	}
	got := groups[0]

	// Shader assignment survives the transplant untouched.
	if got.Material.ShaderName != mat.ShaderName || got.Material.TexS0 != mat.TexS0 {
		t.Fatalf("material = %+v, want %+v", got.Material, mat)
	}

	// Geometry reflects the new mesh, not the original.
	if got.Vertices[1].Position != editedVerts[1].Position {
		t.Fatalf("vertex[1].Position = %v, want the edited position %v", got.Vertices[1].Position, editedVerts[1].Position)
	}
	if got.Vertices[2].Position != editedVerts[2].Position {
		t.Fatalf("vertex[2].Position = %v, want the edited position %v", got.Vertices[2].Position, editedVerts[2].Position)
	}
	if got.Vertices[1].Position == origVerts[1].Position {
		t.Fatal("geometry still matches the original mesh; transplant did not take effect")
	}
}
