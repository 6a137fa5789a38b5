package ntf

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/tw1tools/ntfcore/utils"
)

// Magic is the 4-byte file header: 0xF6 0x66 0x99 0x9F on disk, which
// reads as 0xF666999F little-endian.
var Magic = [4]byte{0xF6, 0x66, 0x99, 0x9F}

const MagicU32 uint32 = 0xF666999F

const (
	flagChunk uint8 = 1
	flagChild uint8 = 2
)

// minimum size-field value: for a Chunk it must at least cover its own
// 4 bytes; §4.3 states a size field under 4 is CorruptNode regardless
// of node kind.
const minSizeField = 4

// minChildSizeField is the floor for a Child node specifically: beyond
// its own 4-byte size field it must also have room for the mandatory
// 4-byte ChildType, or there is nothing for flagChild to read.
const minChildSizeField = 8

// parser carries state across one Parse call: the cursor position
// alone isn't enough once schema mismatches need to be collected
// without failing the parse (§9's "soft sanity check").
type parser struct {
	warnings []string
}

// Parse decodes a full NTF byte stream into a Tree. It does not
// mutate data; the returned Tree owns independently allocated copies
// of variable-length payloads.
func Parse(data []byte) (*Tree, error) {
	if len(data) < 4 || data[0] != Magic[0] || data[1] != Magic[1] || data[2] != Magic[2] || data[3] != Magic[3] {
		return nil, ErrNotAnNtfFile
	}
	p := &parser{}
	entries, err := p.parseEntries(data[4:], len(data)-4)
	if err != nil {
		return nil, err
	}
	return &Tree{Entries: entries, SchemaWarnings: p.warnings}, nil
}

// parseEntries parses a flat run of entries until budget bytes have
// been consumed from buf (buf may be longer; only the first budget
// bytes are this level's territory).
func (p *parser) parseEntries(buf []byte, budget int) ([]Entry, error) {
	c := NewCursor(buf[:budget])
	var entries []Entry
	for c.Remaining() > 0 {
		e, err := p.parseEntry(c)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (p *parser) parseEntry(c *Cursor) (Entry, error) {
	start := c.Pos()
	flag, err := c.ReadU8()
	if err != nil {
		return Entry{}, err
	}
	sizeField, err := c.ReadU32()
	if err != nil {
		return Entry{}, err
	}
	if sizeField < minSizeField {
		return Entry{}, errors.Wrapf(ErrCorruptNode, "offset %d: size field %d below minimum %d", start, sizeField, minSizeField)
	}
	if flag == flagChild && sizeField < minChildSizeField {
		return Entry{}, errors.Wrapf(ErrCorruptNode, "offset %d: child node size %d too small for a ChildType", start, sizeField)
	}
	// sizeField counts itself (4 bytes) plus everything else in the
	// node's payload; the node therefore ends at (position after
	// reading the field) - 4 + sizeField.
	sizeFieldPos := start + 1
	nodeEnd := sizeFieldPos + int(sizeField)
	if nodeEnd > c.Len() {
		return Entry{}, errors.Wrapf(ErrUnexpectedEof, "offset %d: node of size %d exceeds remaining budget %d", start, sizeField, c.Len()-sizeFieldPos)
	}

	switch flag {
	case flagChunk:
		chunk, err := p.parseChunkBody(c, nodeEnd)
		if err != nil {
			return Entry{}, err
		}
		return EntryChunk(chunk), nil
	case flagChild:
		childType, err := c.ReadI32()
		if err != nil {
			return Entry{}, err
		}
		childEntries, err := p.parseEntries(c.Bytes()[c.Pos():nodeEnd], nodeEnd-c.Pos())
		if err != nil {
			return Entry{}, err
		}
		c.Seek(nodeEnd)
		return EntryChild(&Child{Type: ChildType(childType), Entries: childEntries}), nil
	default:
		return Entry{}, errors.Wrapf(ErrCorruptNode, "offset %d: unknown flag %d", start, flag)
	}
}

func (p *parser) parseChunkBody(c *Cursor, nodeEnd int) (*Chunk, error) {
	tagByte, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	nameLen, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	if c.Pos()+int(nameLen) > nodeEnd {
		return nil, errors.Wrapf(ErrCorruptNode, "offset %d: implausible name length %d", c.Pos(), nameLen)
	}
	nameBytes, err := c.Read(int(nameLen))
	if err != nil {
		return nil, err
	}
	name := decodeName(nameBytes)

	tag := ChunkType(tagByte)
	if !tag.Valid() {
		return nil, errors.Wrapf(ErrUnknownChunkTag, "chunk %q: tag %d", name, tagByte)
	}
	if expected, ok := SchemaType(name); ok && expected != tag {
		p.warnings = append(p.warnings, fmt.Sprintf("chunk %q: on-disk tag %d disagrees with schema tag %d", name, tag, expected))
	}

	payload, err := c.Read(nodeEnd - c.Pos())
	if err != nil {
		return nil, err
	}
	val, err := decodeChunkPayload(name, tag, payload)
	if err != nil {
		return nil, err
	}
	return &Chunk{Name: name, Type: tag, Value: val}, nil
}

// Write serializes a Tree back to bytes. Entry order is preserved
// exactly; for an unmodified Tree this reproduces the original file
// byte-for-byte (the round-trip law, spec.md §8).
func Write(t *Tree) []byte {
	out := make([]byte, 0, 4+estimateSize(t.Entries))
	out = append(out, Magic[:]...)
	out = append(out, writeEntries(t.Entries)...)
	return out
}

func estimateSize(entries []Entry) int {
	n := 0
	for _, e := range entries {
		switch {
		case e.IsChunk():
			n += 64
			if b, ok := e.Chunk.Value.([]byte); ok {
				n += len(b)
			}
		case e.IsChild():
			n += 9 + estimateSize(e.Child.Entries)
		}
	}
	return n
}

func writeEntries(entries []Entry) []byte {
	c := NewWriteCursor()
	for _, e := range entries {
		switch {
		case e.IsChunk():
			writeChunkEntry(c, e.Chunk)
		case e.IsChild():
			writeChildEntry(c, e.Child)
		}
	}
	return c.Bytes()
}

func writeChunkEntry(c *Cursor, chunk *Chunk) {
	body := NewWriteCursor()
	body.WriteU8(uint8(chunk.Type))
	nameBytes := encodeName(chunk.Name)
	body.WriteU32(uint32(len(nameBytes)))
	body.Write(nameBytes)
	body.Write(encodeChunkPayload(chunk.Name, chunk.Type, chunk.Value))

	c.WriteU8(flagChunk)
	c.WriteU32(uint32(len(body.Bytes())) + 4)
	c.Write(body.Bytes())
}

func writeChildEntry(c *Cursor, child *Child) {
	body := writeEntries(child.Entries)

	// size field counts itself (4), the ChildType (4), and body.
	c.WriteU8(flagChild)
	c.WriteU32(uint32(8 + len(body)))
	c.WriteI32(int32(child.Type))
	c.Write(body)
}

func decodeName(b []byte) string {
	return utils.BytesToString(b)
}

func encodeName(s string) []byte {
	return utils.StringToBytes(s)
}
