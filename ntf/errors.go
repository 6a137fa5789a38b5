package ntf

import "github.com/pkg/errors"

// Sentinel error kinds. Callers match with errors.Is; messages produced
// by the package wrap these with positional detail via errors.Wrapf.
var (
	ErrNotAnNtfFile   = errors.New("not an ntf file")
	ErrUnexpectedEof  = errors.New("unexpected end of buffer")
	ErrCorruptNode    = errors.New("corrupt node")
	ErrUnknownChunkTag = errors.New("unknown chunk tag")
)
