package vertex

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestUBYTE4NByteRoundTrip(t *testing.T) {
	for b := 0; b <= 255; b++ {
		v, w := DecodeUBYTE4N([4]byte{byte(b), byte(b), byte(b), 0x77})
		back := EncodeUBYTE4N(v, w)
		if back[0] != byte(b) || back[1] != byte(b) || back[2] != byte(b) {
			t.Fatalf("byte %d: round-trip got %v", b, back)
		}
		if back[3] != 0x77 {
			t.Fatalf("byte %d: W byte not preserved, got %x", b, back[3])
		}
	}
}

func TestUBYTE4NFloatGridRoundTrip(t *testing.T) {
	for k := -127; k <= 127; k++ {
		f := float32(k) / 127.0
		b := EncodeUBYTE4N(mgl32.Vec3{f, 0, 0}, 1)
		v, _ := DecodeUBYTE4N(b)
		if v[0] != f {
			t.Fatalf("k=%d: got %v, want %v (byte=%d)", k, v[0], f, b[0])
		}
	}
}

func TestDecodeEncodeVertexBuffer(t *testing.T) {
	verts := []Vertex{
		{
			Position: mgl32.Vec3{0, 0, 0},
			Normal:   mgl32.Vec3{0, 0, 1},
			NormalW:  255,
			Tangent:  mgl32.Vec3{1, 0, 0},
			TangentW: 255,
			UV0:      mgl32.Vec2{0, 0},
			UV1:      mgl32.Vec2{0, 0},
		},
		{
			Position: mgl32.Vec3{1, 0, 0},
			Normal:   mgl32.Vec3{0, 0, 1},
			NormalW:  255,
			Tangent:  mgl32.Vec3{1, 0, 0},
			TangentW: 255,
			UV0:      mgl32.Vec2{1, 0},
			UV1:      mgl32.Vec2{0, 0},
		},
	}
	raw := Encode(verts)
	if len(raw) != len(verts)*Stride {
		t.Fatalf("encoded len = %d, want %d", len(raw), len(verts)*Stride)
	}
	decoded, err := Decode(1, raw, len(verts))
	if err != nil {
		t.Fatal(err)
	}
	for i := range verts {
		if decoded[i].Position != verts[i].Position {
			t.Fatalf("vertex %d position: got %v, want %v", i, decoded[i].Position, verts[i].Position)
		}
	}
}

func TestDecodeUnsupportedFormat(t *testing.T) {
	_, err := Decode(2, make([]byte, Stride), 1)
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestSingleTriangleVertexEncoding(t *testing.T) {
	// spec.md §8 scenario 2: normal (0,0,1) encodes to [128,128,255,255].
	v := Vertex{Normal: mgl32.Vec3{0, 0, 1}, NormalW: 255}
	b := EncodeUBYTE4N(v.Normal, v.NormalW)
	want := [4]byte{128, 128, 255, 255}
	if b != want {
		t.Fatalf("got %v, want %v", b, want)
	}
}
