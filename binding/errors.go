package binding

import "github.com/pkg/errors"

var (
	ErrIndexCountNotMultipleOfThree = errors.New("index count not a multiple of three")
	ErrTooManyVertices              = errors.New("mesh group exceeds 65535 vertices")
	ErrMissingRequiredChunk         = errors.New("missing required chunk")
	ErrSkeletonMismatch             = errors.New("skeleton mesh-group count mismatch")
)

const maxVertices = 65535
