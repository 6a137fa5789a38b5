package ntf

import (
	"github.com/pkg/errors"

	"github.com/tw1tools/ntfcore/utils"
)

// IsLPos reports whether a chunk name resolves tag 20 to the vec4-int
// variant. This is the ONLY place that branch is decided; both the
// decoder and the encoder call it so they can never disagree.
func IsLPos(name string) bool {
	return name == lposChunkName
}

// decodeChunkPayload turns the raw payload bytes (already isolated to
// exactly this chunk's span) into a typed Value, per spec.md §4.2/§3.
func decodeChunkPayload(name string, tag ChunkType, payload []byte) (interface{}, error) {
	c := NewCursor(payload)
	switch tag {
	case ChunkInt32:
		if len(payload) != 4 {
			return nil, errors.Wrapf(ErrCorruptNode, "chunk %q: int32 payload is %d bytes, want 4", name, len(payload))
		}
		v, err := c.ReadI32()
		return v, err
	case ChunkUint32:
		if len(payload) != 4 {
			return nil, errors.Wrapf(ErrCorruptNode, "chunk %q: uint32 payload is %d bytes, want 4", name, len(payload))
		}
		v, err := c.ReadU32()
		return v, err
	case ChunkFloat32:
		if len(payload) != 4 {
			return nil, errors.Wrapf(ErrCorruptNode, "chunk %q: float32 payload is %d bytes, want 4", name, len(payload))
		}
		v, err := c.ReadF32()
		return v, err
	case ChunkVec4:
		if len(payload) != 16 {
			return nil, errors.Wrapf(ErrCorruptNode, "chunk %q: vec4 payload is %d bytes, want 16", name, len(payload))
		}
		if IsLPos(name) {
			var v Vec4I
			for i := range v {
				n, err := c.ReadI32()
				if err != nil {
					return nil, err
				}
				v[i] = n
			}
			return v, nil
		}
		var v Vec4F
		for i := range v {
			f, err := c.ReadF32()
			if err != nil {
				return nil, err
			}
			v[i] = f
		}
		return v, nil
	case ChunkMat4:
		if len(payload) != 64 {
			return nil, errors.Wrapf(ErrCorruptNode, "chunk %q: mat4 payload is %d bytes, want 64", name, len(payload))
		}
		var v [16]float32
		for i := range v {
			f, err := c.ReadF32()
			if err != nil {
				return nil, err
			}
			v[i] = f
		}
		return v, nil
	case ChunkString:
		return utils.BytesToString(payload), nil
	case ChunkRaw:
		b := make([]byte, len(payload))
		copy(b, payload)
		return b, nil
	default:
		return nil, errors.Wrapf(ErrUnknownChunkTag, "chunk %q: tag %d", name, tag)
	}
}

// encodeChunkPayload is the inverse of decodeChunkPayload. It trusts
// Value's dynamic type to match Type (TreeCodec.write callers always
// produce matching pairs); a mismatched type is a programming error,
// not a malformed-input error, so it panics rather than returning one
// of the parse-time error kinds.
func encodeChunkPayload(name string, tag ChunkType, value interface{}) []byte {
	c := NewWriteCursor()
	switch tag {
	case ChunkInt32:
		c.WriteI32(mustInt32(value))
	case ChunkUint32:
		c.WriteU32(mustUint32(value))
	case ChunkFloat32:
		c.WriteF32(mustFloat32(value))
	case ChunkVec4:
		if IsLPos(name) {
			v := mustVec4I(value)
			for _, n := range v {
				c.WriteI32(n)
			}
		} else {
			v := mustVec4F(value)
			for _, f := range v {
				c.WriteF32(f)
			}
		}
	case ChunkMat4:
		v := mustMat4(value)
		for _, f := range v {
			c.WriteF32(f)
		}
	case ChunkString:
		c.Write(utils.StringToBytes(mustString(value)))
	case ChunkRaw:
		c.Write(mustBytes(value))
	default:
		panic("ntf: encodeChunkPayload: unknown chunk tag")
	}
	return c.Bytes()
}

func mustInt32(v interface{}) int32 {
	switch x := v.(type) {
	case int32:
		return x
	case int:
		return int32(x)
	}
	panic("ntf: expected int32 chunk value")
}

func mustUint32(v interface{}) uint32 {
	switch x := v.(type) {
	case uint32:
		return x
	case int:
		return uint32(x)
	}
	panic("ntf: expected uint32 chunk value")
}

func mustFloat32(v interface{}) float32 {
	switch x := v.(type) {
	case float32:
		return x
	case float64:
		return float32(x)
	}
	panic("ntf: expected float32 chunk value")
}

func mustVec4F(v interface{}) Vec4F {
	switch x := v.(type) {
	case Vec4F:
		return x
	case [4]float32:
		return Vec4F{x[0], x[1], x[2], x[3]}
	}
	panic("ntf: expected vec4-float chunk value")
}

func mustVec4I(v interface{}) Vec4I {
	switch x := v.(type) {
	case Vec4I:
		return x
	case [4]int32:
		return Vec4I(x)
	}
	panic("ntf: expected vec4-int chunk value")
}

func mustMat4(v interface{}) [16]float32 {
	if x, ok := v.([16]float32); ok {
		return x
	}
	panic("ntf: expected mat4 chunk value")
}

func mustString(v interface{}) string {
	if x, ok := v.(string); ok {
		return x
	}
	panic("ntf: expected string chunk value")
}

func mustBytes(v interface{}) []byte {
	if x, ok := v.([]byte); ok {
		return x
	}
	panic("ntf: expected []byte chunk value")
}

// schema is the name-to-ChunkType lookup. parseChunkBody consults it as
// a soft sanity check: a mismatch between a chunk's on-disk tag and its
// schema tag is recorded in Tree.SchemaWarnings, never failed on —
// engine-private fields may legitimately disagree (spec.md §9).
// meshmodel.BuildShaderChild/BuildLocatorChild treat it as authoritative
// when constructing a fresh chunk for a known field name.
var schema = map[string]ChunkType{
	"Name":        ChunkString,
	"ShaderName":  ChunkString,
	"TexS0":       ChunkString,
	"TexS1":       ChunkString,
	"TexS2":       ChunkString,
	"AniFileName": ChunkString,
	"NumVertexes": ChunkUint32,
	"NumFaces":    ChunkUint32,
	"Vertexes":    ChunkRaw,
	"Faces":       ChunkRaw,
	"VertexFormat": ChunkInt32,
	"Type":        ChunkInt32,
	"IsLocator":   ChunkInt32,
	"Alpha":       ChunkFloat32,
	"NearRange":   ChunkFloat32,
	"FarRange":    ChunkFloat32,
	"DestColor":   ChunkVec4,
	"SpecColor":   ChunkVec4,
	"LDir":        ChunkVec4,
	"BBoxMin":     ChunkVec4,
	"BBoxMax":     ChunkVec4,
	"TMin":        ChunkVec4,
	"TMax":        ChunkVec4,
	"LPos":        ChunkVec4,
}

// SchemaType reports the expected ChunkType for a well-known chunk
// name, or false if the name carries no schema binding (most engine-
// private fields fall in this bucket and pass through untouched).
func SchemaType(name string) (ChunkType, bool) {
	t, ok := schema[name]
	return t, ok
}
