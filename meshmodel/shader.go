package meshmodel

import (
	"github.com/pkg/errors"

	"github.com/tw1tools/ntfcore/ntf"
	"github.com/tw1tools/ntfcore/utils"
)

// ExtractShader reads a −253 Child's chunks into a Shader record,
// folding every chunk without a dedicated field into Extra, in the
// order it appears, per SPEC_FULL.md §10's shader pass-through bag.
func ExtractShader(c *ntf.Child) (Shader, error) {
	var s Shader
	for _, e := range c.Entries {
		if !e.IsChunk() {
			continue
		}
		chunk := e.Chunk
		switch chunk.Name {
		case "Name":
			v, ok := chunk.Value.(string)
			if !ok {
				return s, errors.Errorf("shader Name: unexpected value type %T", chunk.Value)
			}
			s.Name = v
		case "ShaderName":
			v, ok := chunk.Value.(string)
			if !ok {
				return s, errors.Errorf("shader ShaderName: unexpected value type %T", chunk.Value)
			}
			s.ShaderName = v
		case "TexS0":
			s.TexS0, _ = chunk.Value.(string)
		case "TexS1":
			s.TexS1, _ = chunk.Value.(string)
		case "TexS2":
			s.TexS2, _ = chunk.Value.(string)
		case "DestColor":
			v, ok := chunk.Value.(ntf.Vec4F)
			if !ok {
				return s, errors.Errorf("shader DestColor: unexpected value type %T", chunk.Value)
			}
			s.DestColor = utils.NewColorFloatA(v[:])
		case "SpecColor":
			v, ok := chunk.Value.(ntf.Vec4F)
			if !ok {
				return s, errors.Errorf("shader SpecColor: unexpected value type %T", chunk.Value)
			}
			s.SpecColor = utils.NewColorFloatA(v[:])
		case "Alpha":
			v, ok := chunk.Value.(float32)
			if !ok {
				return s, errors.Errorf("shader Alpha: unexpected value type %T", chunk.Value)
			}
			s.Alpha = v
		case "NearRange":
			v, ok := chunk.Value.(float32)
			if !ok {
				return s, errors.Errorf("shader NearRange: unexpected value type %T", chunk.Value)
			}
			s.NearRange = v
		case "FarRange":
			v, ok := chunk.Value.(float32)
			if !ok {
				return s, errors.Errorf("shader FarRange: unexpected value type %T", chunk.Value)
			}
			s.FarRange = v
		default:
			s.Extra = append(s.Extra, *chunk)
		}
	}
	return s, nil
}

// schemaTag looks up name's authoritative tag in ntf.SchemaType, falling
// back to fallback only for a name the schema doesn't cover — which
// none of this package's construction helpers ever pass, since they
// only build chunks for names spec.md §3 binds to a fixed ChunkType.
func schemaTag(name string, fallback ntf.ChunkType) ntf.ChunkType {
	if t, ok := ntf.SchemaType(name); ok {
		return t
	}
	return fallback
}

// BuildShaderChild serializes a Shader back into a −253 Child,
// emitting the named fields first in the teacher's canonical order
// and then Extra verbatim, preserving its original relative order.
func BuildShaderChild(s Shader) *ntf.Child {
	entries := []ntf.Entry{
		ntf.EntryChunk(&ntf.Chunk{Name: "Name", Type: schemaTag("Name", ntf.ChunkString), Value: s.Name}),
		ntf.EntryChunk(&ntf.Chunk{Name: "ShaderName", Type: schemaTag("ShaderName", ntf.ChunkString), Value: s.ShaderName}),
		ntf.EntryChunk(&ntf.Chunk{Name: "TexS0", Type: schemaTag("TexS0", ntf.ChunkString), Value: s.TexS0}),
		ntf.EntryChunk(&ntf.Chunk{Name: "TexS1", Type: schemaTag("TexS1", ntf.ChunkString), Value: s.TexS1}),
		ntf.EntryChunk(&ntf.Chunk{Name: "TexS2", Type: schemaTag("TexS2", ntf.ChunkString), Value: s.TexS2}),
		ntf.EntryChunk(&ntf.Chunk{Name: "DestColor", Type: schemaTag("DestColor", ntf.ChunkVec4), Value: ntf.Vec4F(s.DestColor)}),
		ntf.EntryChunk(&ntf.Chunk{Name: "SpecColor", Type: schemaTag("SpecColor", ntf.ChunkVec4), Value: ntf.Vec4F(s.SpecColor)}),
		ntf.EntryChunk(&ntf.Chunk{Name: "Alpha", Type: schemaTag("Alpha", ntf.ChunkFloat32), Value: s.Alpha}),
		ntf.EntryChunk(&ntf.Chunk{Name: "NearRange", Type: schemaTag("NearRange", ntf.ChunkFloat32), Value: s.NearRange}),
		ntf.EntryChunk(&ntf.Chunk{Name: "FarRange", Type: schemaTag("FarRange", ntf.ChunkFloat32), Value: s.FarRange}),
	}
	for i := range s.Extra {
		extra := s.Extra[i]
		entries = append(entries, ntf.EntryChunk(&extra))
	}
	return &ntf.Child{Type: ntf.ChildTypeShader, Entries: entries}
}

// ExtractLocator reads a type-5 Child's chunks into a Locator.
func ExtractLocator(c *ntf.Child) (Locator, error) {
	var loc Locator
	if chunk := c.FindChunk("IsLocator"); chunk != nil {
		v, ok := chunk.Value.(int32)
		if !ok {
			return loc, errors.Errorf("locator IsLocator: unexpected value type %T", chunk.Value)
		}
		loc.IsLocator = v
	}
	if chunk := c.FindChunk("LPos"); chunk != nil {
		v, ok := chunk.Value.(ntf.Vec4I)
		if !ok {
			return loc, errors.Errorf("locator LPos: unexpected value type %T", chunk.Value)
		}
		loc.LPos = v
	}
	if chunk := c.FindChunk("LDir"); chunk != nil {
		v, ok := chunk.Value.(ntf.Vec4F)
		if !ok {
			return loc, errors.Errorf("locator LDir: unexpected value type %T", chunk.Value)
		}
		loc.LDir = v
	}
	return loc, nil
}

// BuildLocatorChild serializes a Locator back into a type-5 Child.
func BuildLocatorChild(loc Locator) *ntf.Child {
	return &ntf.Child{
		Type: ntf.ChildTypeLocator,
		Entries: []ntf.Entry{
			ntf.EntryChunk(&ntf.Chunk{Name: "IsLocator", Type: schemaTag("IsLocator", ntf.ChunkInt32), Value: loc.IsLocator}),
			ntf.EntryChunk(&ntf.Chunk{Name: "LPos", Type: schemaTag("LPos", ntf.ChunkVec4), Value: loc.LPos}),
			ntf.EntryChunk(&ntf.Chunk{Name: "LDir", Type: schemaTag("LDir", ntf.ChunkVec4), Value: loc.LDir}),
		},
	}
}
