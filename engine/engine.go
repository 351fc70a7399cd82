// Package engine talks to the external recognition engine and normalizes
// its output into typed hypotheses.
package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ieee0824/reazonspeech-go/decoder"
)

// Options mirrors the arguments of the engine's transcribe call.
type Options struct {
	BatchSize        int
	ReturnHypotheses bool
	Verbose          bool
}

// Hypotheses is the engine output for one batch, one entry per waveform.
type Hypotheses []decoder.Hypothesis

// ParseHypotheses decodes engine output. Depending on its version the engine
// returns either a list of hypotheses or a tuple whose first element is that
// list; both arrive here as JSON arrays. A single hypothesis object is also
// accepted.
func ParseHypotheses(data []byte) (Hypotheses, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty engine output", decoder.ErrMalformedHypothesis)
	}

	switch data[0] {
	case '{':
		var h decoder.Hypothesis
		if err := json.Unmarshal(data, &h); err != nil {
			return nil, wrap(err)
		}
		return Hypotheses{h}, nil

	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return nil, wrap(err)
		}
		if len(elems) > 0 {
			if first := bytes.TrimSpace(elems[0]); len(first) > 0 && first[0] == '[' {
				// tuple form
				data = first
			}
		}
		var hyps Hypotheses
		if err := json.Unmarshal(data, &hyps); err != nil {
			return nil, wrap(err)
		}
		return hyps, nil

	default:
		return nil, fmt.Errorf("%w: unexpected engine output prefix %q", decoder.ErrMalformedHypothesis, data[0])
	}
}

func wrap(err error) error {
	if errors.Is(err, decoder.ErrMalformedHypothesis) {
		return err
	}
	return fmt.Errorf("%w: %v", decoder.ErrMalformedHypothesis, err)
}
