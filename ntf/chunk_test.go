package ntf

import (
	"bytes"
	"testing"
)

func TestChunkScalarRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tag  ChunkType
		val  interface{}
	}{
		{"VertexFormat", ChunkInt32, int32(1)},
		{"NumVertexes", ChunkUint32, uint32(3)},
		{"Alpha", ChunkFloat32, float32(0.5)},
		{"DestColor", ChunkVec4, Vec4F{0.1, 0.2, 0.3, 1}},
		{"LPos", ChunkVec4, Vec4I{1, 2, 3, 4}},
		{"Name", ChunkString, "buildings_lmap"},
		{"Vertexes", ChunkRaw, []byte{1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		enc := encodeChunkPayload(tt.name, tt.tag, tt.val)
		dec, err := decodeChunkPayload(tt.name, tt.tag, enc)
		if err != nil {
			t.Fatalf("%s: decode: %v", tt.name, err)
		}
		switch tt.tag {
		case ChunkRaw:
			if !bytes.Equal(dec.([]byte), tt.val.([]byte)) {
				t.Fatalf("%s: got %v, want %v", tt.name, dec, tt.val)
			}
		default:
			if dec != tt.val {
				t.Fatalf("%s: got %v, want %v", tt.name, dec, tt.val)
			}
		}
	}
}

func TestUnknownChunkTag(t *testing.T) {
	_, err := decodeChunkPayload("Foo", ChunkType(99), []byte{1, 2, 3, 4})
	if err == nil {
		t.Fatal("expected error for unknown tag")
	}
}

func TestSchemaTypeKnownNames(t *testing.T) {
	tests := []struct {
		name string
		want ChunkType
	}{
		{"VertexFormat", ChunkInt32},
		{"NumVertexes", ChunkUint32},
		{"Alpha", ChunkFloat32},
		{"DestColor", ChunkVec4},
		{"Name", ChunkString},
	}
	for _, tt := range tests {
		got, ok := SchemaType(tt.name)
		if !ok {
			t.Fatalf("%s: expected schema binding", tt.name)
		}
		if got != tt.want {
			t.Fatalf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSchemaTypeUnknownName(t *testing.T) {
	if _, ok := SchemaType("SomeEnginePrivateField"); ok {
		t.Fatal("expected no schema binding for an unrecognized name")
	}
}

func TestMat4RoundTrip(t *testing.T) {
	var m [16]float32
	for i := range m {
		m[i] = float32(i)
	}
	enc := encodeChunkPayload("Transform", ChunkMat4, m)
	if len(enc) != 64 {
		t.Fatalf("mat4 payload len = %d, want 64", len(enc))
	}
	dec, err := decodeChunkPayload("Transform", ChunkMat4, enc)
	if err != nil {
		t.Fatal(err)
	}
	if dec.([16]float32) != m {
		t.Fatalf("got %v, want %v", dec, m)
	}
}
