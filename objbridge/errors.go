package objbridge

import "github.com/pkg/errors"

var (
	ErrMalformedDirective = errors.New("malformed interchange directive")
	ErrIndexOutOfRange    = errors.New("face index out of range")
)
