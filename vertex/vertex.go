// Package vertex decodes and re-encodes Vertex Format 1, the only
// vertex layout this toolkit fully understands: 36 bytes per vertex,
// position + packed normal/tangent + two UV channels.
package vertex

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const Stride = 36

// Format1 ≠ 1 is not an error to decode per se — the caller decides
// whether to ask for mesh decoding at all; ErrUnsupportedVertexFormat
// is returned only when decoding is actually requested for a format
// other than 1 (other formats can still be passed through verbatim
// as raw bytes by callers that never call Decode).
var ErrUnsupportedVertexFormat = errors.New("unsupported vertex format")

// Vertex is one decoded Format-1 vertex.
type Vertex struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	NormalW   uint8
	Tangent   mgl32.Vec3
	TangentW  uint8
	UV0       mgl32.Vec2
	UV1       mgl32.Vec2
}

// DecodeUBYTE4N unpacks the 4 raw bytes of a packed normal/tangent.
// The 4th byte ("W") is opaque and returned verbatim; spec.md §4.4
// requires it survive round-trip untouched.
func DecodeUBYTE4N(b [4]byte) (v mgl32.Vec3, w uint8) {
	f := func(x byte) float32 { return (float32(x) - 128.0) / 127.0 }
	return mgl32.Vec3{f(b[0]), f(b[1]), f(b[2])}, b[3]
}

// EncodeUBYTE4N packs a unit vector plus opaque W byte back to 4 bytes.
// The asymmetric (center 128, divide by 127) quantization is
// load-bearing: the engine's own decoder uses this exact rule, and a
// symmetric scheme would drift the neutral vector off byte 128.
func EncodeUBYTE4N(v mgl32.Vec3, w uint8) [4]byte {
	q := func(f float32) byte {
		r := f*127.0 + 128.0
		if r < 0 {
			r = 0
		}
		if r > 255 {
			r = 255
		}
		return byte(r + 0.5)
	}
	return [4]byte{q(v[0]), q(v[1]), q(v[2]), w}
}

// Decode unpacks a Format-1 vertex buffer. format must be 1; any other
// value is ErrUnsupportedVertexFormat, since this is the only layout
// this package understands how to interpret (spec.md Non-goals).
func Decode(format int32, raw []byte, count int) ([]Vertex, error) {
	if format != 1 {
		return nil, errors.Wrapf(ErrUnsupportedVertexFormat, "format %d", format)
	}
	if len(raw) < count*Stride {
		return nil, errors.Errorf("vertex buffer too short: have %d bytes, need %d for %d vertices", len(raw), count*Stride, count)
	}
	out := make([]Vertex, count)
	for i := 0; i < count; i++ {
		off := i * Stride
		v := Vertex{}
		v.Position = mgl32.Vec3{
			readF32(raw, off+0),
			readF32(raw, off+4),
			readF32(raw, off+8),
		}
		var nb [4]byte
		copy(nb[:], raw[off+12:off+16])
		v.Normal, v.NormalW = DecodeUBYTE4N(nb)

		var tb [4]byte
		copy(tb[:], raw[off+16:off+20])
		v.Tangent, v.TangentW = DecodeUBYTE4N(tb)

		v.UV0 = mgl32.Vec2{readF32(raw, off+20), readF32(raw, off+24)}
		v.UV1 = mgl32.Vec2{readF32(raw, off+28), readF32(raw, off+32)}
		out[i] = v
	}
	return out, nil
}

// Encode packs Format-1 vertices back into a 36-byte/vertex buffer.
func Encode(verts []Vertex) []byte {
	out := make([]byte, len(verts)*Stride)
	for i, v := range verts {
		off := i * Stride
		writeF32(out, off+0, v.Position[0])
		writeF32(out, off+4, v.Position[1])
		writeF32(out, off+8, v.Position[2])

		nb := EncodeUBYTE4N(v.Normal, v.NormalW)
		copy(out[off+12:off+16], nb[:])
		tb := EncodeUBYTE4N(v.Tangent, v.TangentW)
		copy(out[off+16:off+20], tb[:])

		writeF32(out, off+20, v.UV0[0])
		writeF32(out, off+24, v.UV0[1])
		writeF32(out, off+28, v.UV1[0])
		writeF32(out, off+32, v.UV1[1])
	}
	return out
}

func readF32(b []byte, off int) float32 {
	u := uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24
	return math.Float32frombits(u)
}

func writeF32(b []byte, off int, f float32) {
	u := math.Float32bits(f)
	b[off] = byte(u)
	b[off+1] = byte(u >> 8)
	b[off+2] = byte(u >> 16)
	b[off+3] = byte(u >> 24)
}
