package ntf

import "github.com/go-gl/mathgl/mgl32"

// ChunkType is the stable numeric tag on disk for a chunk's payload
// shape. Tag 20 is overloaded: vec4-float for every chunk name except
// "LPos", which is vec4-int (see chunk.go).
type ChunkType uint8

const (
	ChunkInt32   ChunkType = 17
	ChunkUint32  ChunkType = 18
	ChunkFloat32 ChunkType = 19
	ChunkVec4    ChunkType = 20 // float or int variant, keyed on name
	ChunkMat4    ChunkType = 21
	ChunkString  ChunkType = 22
	ChunkRaw     ChunkType = 23
)

func (t ChunkType) Valid() bool {
	return t >= ChunkInt32 && t <= ChunkRaw
}

// lposChunkName is the one chunk name that flips tag 20 from
// vec4-float to vec4-int. Keyed on name equality only, per spec.
const lposChunkName = "LPos"

// ChildType is the signed 32-bit type tag on a Child node.
type ChildType int32

const (
	ChildTypeLocator ChildType = 5
	ChildTypeShader  ChildType = -253
	ChildTypeMesh    ChildType = -254
)

// Chunk is a named, typed leaf entry.
type Chunk struct {
	Name    string
	Type    ChunkType
	Value   interface{} // int32, uint32, float32, Vec4F (mgl32.Vec4), Vec4I, [16]float32, string, or []byte
}

// Child is a named-by-type container entry holding its own ordered
// entries.
type Child struct {
	Type    ChildType
	Entries []Entry
}

// Entry is either a *Chunk or a *Child. Order within a Root or Child's
// Entries slice must be preserved verbatim across parse/write.
type Entry struct {
	Chunk *Chunk
	Child *Child
}

func EntryChunk(c *Chunk) Entry { return Entry{Chunk: c} }
func EntryChild(c *Child) Entry { return Entry{Child: c} }

func (e Entry) IsChunk() bool { return e.Chunk != nil }
func (e Entry) IsChild() bool { return e.Child != nil }

// Tree is the in-memory model of a parsed NTF file: an ordered top
// level sequence of Entries, no wrapping node of its own.
type Tree struct {
	Entries []Entry

	// SchemaWarnings collects non-fatal mismatches Parse found between
	// a chunk's on-disk tag and its expected tag per SchemaType, per
	// spec.md §9's "soft sanity check on parse" design note. Empty for
	// a Tree built fresh rather than parsed. Never affects Parse's
	// success or Write's output — engine-private fields routinely
	// disagree with the schema and must still pass through untouched.
	SchemaWarnings []string
}

func NewTree() *Tree {
	return &Tree{}
}

// UnwrapSingleChild returns t unchanged unless its top level holds
// exactly one entry and that entry is a Child, in which case that
// Child's Entries become the new top level; repeated while the
// pattern holds. This mirrors the reference toolkit's presentational
// root-collapsing behavior; it is never applied inside Parse/Write and
// must not be, since collapsing would break the byte-identical
// round-trip law (see SPEC_FULL.md §10).
func UnwrapSingleChild(t *Tree) *Tree {
	cur := t
	for len(cur.Entries) == 1 && cur.Entries[0].IsChild() {
		cur = &Tree{Entries: cur.Entries[0].Child.Entries}
	}
	return cur
}

// FindChunk returns the first Chunk entry at this level with the given
// name, or nil.
func entriesFindChunk(entries []Entry, name string) *Chunk {
	for _, e := range entries {
		if e.IsChunk() && e.Chunk.Name == name {
			return e.Chunk
		}
	}
	return nil
}

func (t *Tree) FindChunk(name string) *Chunk {
	return entriesFindChunk(t.Entries, name)
}

func (c *Child) FindChunk(name string) *Chunk {
	return entriesFindChunk(c.Entries, name)
}

// SetChunkValue overwrites the value of the first chunk with this name
// at this level, returning false if absent.
func setChunkValue(entries []Entry, name string, value interface{}) bool {
	for _, e := range entries {
		if e.IsChunk() && e.Chunk.Name == name {
			e.Chunk.Value = value
			return true
		}
	}
	return false
}

func (t *Tree) SetChunkValue(name string, value interface{}) bool {
	return setChunkValue(t.Entries, name, value)
}

func (c *Child) SetChunkValue(name string, value interface{}) bool {
	return setChunkValue(c.Entries, name, value)
}

// ChildrenOfType returns every top-level Child entry with the given type, in
// order.
func (t *Tree) ChildrenOfType(ct ChildType) []*Child {
	var out []*Child
	for _, e := range t.Entries {
		if e.IsChild() && e.Child.Type == ct {
			out = append(out, e.Child)
		}
	}
	return out
}

func (c *Child) ChildrenOfType(ct ChildType) []*Child {
	var out []*Child
	for _, e := range c.Entries {
		if e.IsChild() && e.Child.Type == ct {
			out = append(out, e.Child)
		}
	}
	return out
}

// FirstChildOfType returns the first immediate child of the given type,
// or nil.
func (c *Child) FirstChildOfType(ct ChildType) *Child {
	for _, e := range c.Entries {
		if e.IsChild() && e.Child.Type == ct {
			return e.Child
		}
	}
	return nil
}

// Clone deep-copies a Tree: entries, chunk values (including byte-slice
// and vec payloads), and nested children.
func (t *Tree) Clone() *Tree {
	var warnings []string
	if t.SchemaWarnings != nil {
		warnings = append([]string(nil), t.SchemaWarnings...)
	}
	return &Tree{Entries: cloneEntries(t.Entries), SchemaWarnings: warnings}
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		switch {
		case e.IsChunk():
			out[i] = EntryChunk(e.Chunk.clone())
		case e.IsChild():
			out[i] = EntryChild(&Child{
				Type:    e.Child.Type,
				Entries: cloneEntries(e.Child.Entries),
			})
		}
	}
	return out
}

func (c *Chunk) clone() *Chunk {
	nc := &Chunk{Name: c.Name, Type: c.Type}
	switch v := c.Value.(type) {
	case []byte:
		b := make([]byte, len(v))
		copy(b, v)
		nc.Value = b
	case [16]float32:
		nc.Value = v
	case [4]int32:
		nc.Value = v
	default:
		nc.Value = v
	}
	return nc
}

// Vec4F and Vec4I are the decoded payload shapes for tag 20.
type Vec4F = mgl32.Vec4

type Vec4I [4]int32
