package ntf

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// Cursor is a random-access byte buffer with little-endian typed
// read/write and bounds-checked slicing, in the spirit of the teacher's
// utils.BufStack: a flat []byte plus a cursor position, with absolute
// and relative addressing and a mark/return idiom for self-inclusive
// size fields.
type Cursor struct {
	buf []byte
	pos int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

func NewWriteCursor() *Cursor {
	return &Cursor{buf: make([]byte, 0, 256)}
}

func (c *Cursor) Bytes() []byte { return c.buf }
func (c *Cursor) Pos() int      { return c.pos }
func (c *Cursor) Len() int      { return len(c.buf) }
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

func (c *Cursor) Seek(pos int) {
	c.pos = pos
}

func (c *Cursor) Skip(n int) {
	c.pos += n
}

// Mark returns the current position so a caller can come back later
// (after writing a payload) and patch a size field in place.
func (c *Cursor) Mark() int { return c.pos }

func (c *Cursor) require(n int) error {
	if c.pos+n > len(c.buf) {
		return errors.Wrapf(ErrUnexpectedEof, "need %d bytes at offset %d, have %d", n, c.pos, len(c.buf))
	}
	return nil
}

func (c *Cursor) Read(n int) ([]byte, error) {
	if err := c.require(n); err != nil {
		return nil, err
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

func (c *Cursor) ReadF32() (float32, error) {
	v, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// Write* extend the buffer; Cursor used as a writer never fails.
func (c *Cursor) Write(b []byte) {
	c.buf = append(c.buf, b...)
	c.pos += len(b)
}

func (c *Cursor) WriteU8(v uint8) {
	c.Write([]byte{v})
}

func (c *Cursor) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	c.Write(b[:])
}

func (c *Cursor) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	c.Write(b[:])
}

func (c *Cursor) WriteI32(v int32) {
	c.WriteU32(uint32(v))
}

func (c *Cursor) WriteF32(v float32) {
	c.WriteU32(math.Float32bits(v))
}

// PatchU32 overwrites the 4 bytes at an earlier Mark without moving pos.
func (c *Cursor) PatchU32(at int, v uint32) {
	binary.LittleEndian.PutUint32(c.buf[at:at+4], v)
}
