package decoder

import (
	"errors"
	"fmt"
)

// ErrMalformedHypothesis is returned when a hypothesis carries no usable
// token or timing information.
var ErrMalformedHypothesis = errors.New("malformed hypothesis")

// DecodingError reports a tokenizer failure.
type DecodingError struct {
	IDs []int
	Err error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decode ids %v: %v", e.IDs, e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }
