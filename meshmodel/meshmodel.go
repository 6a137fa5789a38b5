// Package meshmodel is the neutral mesh-exchange model that sits
// between the NTF tree and the textual interchange format: positions,
// normals, tangents, two UV channels, and per-group material
// references, independent of how either side serializes them.
package meshmodel

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/tw1tools/ntfcore/ntf"
	"github.com/tw1tools/ntfcore/utils"
)

// Triangle is three indices into a MeshGroup's Vertices, drawn from
// the flat index buffer in groups of three.
type Triangle [3]uint16

// Vertex is one neutral-model vertex. NormalW/TangentW carry the
// opaque 4th UBYTE4N byte through, same as vertex.Vertex, so a group
// extracted then re-injected without edits round-trips exactly.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	NormalW  uint8
	Tangent  mgl32.Vec3
	TangentW uint8
	UV0      mgl32.Vec2
	UV1      mgl32.Vec2
}

// MeshGroup is the logical view of a Child of type −254: a
// material-contiguous sub-mesh.
type MeshGroup struct {
	Name         string
	VertexFormat int32
	Vertices     []Vertex
	Triangles    []Triangle
	Material     Shader
}

// Shader is the logical view of a Child of type −253 nested inside a
// MeshGroup. Extra holds every chunk not covered by a named field,
// in original on-disk order, so a group extracted and re-injected
// without material edits preserves unknown fields losslessly.
type Shader struct {
	Name       string
	ShaderName string
	TexS0      string
	TexS1      string
	TexS2      string
	DestColor  utils.ColorFloat
	SpecColor  utils.ColorFloat
	Alpha      float32
	NearRange  float32
	FarRange   float32
	Extra      []ntf.Chunk
}

// PreviewRGBA quantizes DestColor down to 8-bit-per-channel RGBA, the
// form a swatch preview wants; objbridge.WriteMTL emits it as a
// comment alongside the Kd line it was derived from.
func (s Shader) PreviewRGBA() (r, g, b, a uint8) {
	rr, gg, bb, aa := s.DestColor.RGBA()
	return uint8(rr >> 8), uint8(gg >> 8), uint8(bb >> 8), uint8(aa >> 8)
}

// Locator is the logical view of a Child of type 5.
type Locator struct {
	IsLocator int32
	LPos      ntf.Vec4I
	LDir      ntf.Vec4F
}

// DefaultLocator returns the locator the reference toolkit fabricates
// when building a fresh metadata record from scratch: flagged active,
// positioned at the origin.
func DefaultLocator() Locator {
	return Locator{
		IsLocator: 1,
		LPos:      ntf.Vec4I{0, 0, 0, 0},
		LDir:      ntf.Vec4F{0, 0, 0, 0},
	}
}
