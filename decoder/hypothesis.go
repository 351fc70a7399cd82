package decoder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Hypothesis is one recognition result as emitted by the engine.
//
// TokenIDs starts with the synthetic start token the search prepends; it is
// dropped by Decode. Timing[i] belongs to TokenIDs[i+1].
type Hypothesis struct {
	TokenIDs []int
	Timing   Timing
	Score    float64
}

// wireHypothesis is the JSON form of a Hypothesis. Older engines report
// "timestep" frame indices; newer ones report "timestamp", either as a list
// of seconds or as an object holding a "timestep" list.
type wireHypothesis struct {
	YSequence []int           `json:"y_sequence"`
	Timestep  json.RawMessage `json:"timestep,omitempty"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
	Score     float64         `json:"score,omitempty"`
}

// UnmarshalJSON resolves the timing convention of the wire form.
// "timestep" takes precedence when both fields are present.
func (h *Hypothesis) UnmarshalJSON(data []byte) error {
	var w wireHypothesis
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedHypothesis, err)
	}
	if w.YSequence == nil {
		return fmt.Errorf("%w: missing y_sequence", ErrMalformedHypothesis)
	}

	var (
		timing Timing
		err    error
	)
	switch {
	case present(w.Timestep):
		timing, err = parseSteps(w.Timestep)
	case present(w.Timestamp):
		timing, err = parseTimestamp(w.Timestamp)
	default:
		return fmt.Errorf("%w: neither timestep nor timestamp present", ErrMalformedHypothesis)
	}
	if err != nil {
		return err
	}

	*h = Hypothesis{TokenIDs: w.YSequence, Timing: timing, Score: w.Score}
	return nil
}

// MarshalJSON writes the field name matching the timing convention.
func (h Hypothesis) MarshalJSON() ([]byte, error) {
	w := wireHypothesis{YSequence: h.TokenIDs, Score: h.Score}
	if w.YSequence == nil {
		w.YSequence = []int{}
	}
	var err error
	switch t := h.Timing.(type) {
	case StepIndices:
		w.Timestep, err = json.Marshal([]int(t))
	case Seconds:
		w.Timestamp, err = json.Marshal([]float64(t))
	default:
		return nil, fmt.Errorf("%w: no timing", ErrMalformedHypothesis)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

func present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// parseSteps accepts integral numbers in int32 range only. Some serializers
// write 7.0.
func parseSteps(raw json.RawMessage) (StepIndices, error) {
	var vals []float64
	if err := json.Unmarshal(raw, &vals); err != nil {
		return nil, fmt.Errorf("%w: timestep: %v", ErrMalformedHypothesis, err)
	}
	steps := make(StepIndices, len(vals))
	for i, v := range vals {
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("%w: timestep[%d] = %v is not a frame index", ErrMalformedHypothesis, i, v)
		}
		if v > math.MaxInt32 || v < math.MinInt32 {
			return nil, fmt.Errorf("%w: timestep[%d] = %v is out of range", ErrMalformedHypothesis, i, v)
		}
		steps[i] = int(v)
	}
	return steps, nil
}

func parseTimestamp(raw json.RawMessage) (Timing, error) {
	raw = bytes.TrimSpace(raw)
	if raw[0] == '{' {
		var obj struct {
			Timestep json.RawMessage `json:"timestep"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("%w: timestamp: %v", ErrMalformedHypothesis, err)
		}
		if !present(obj.Timestep) {
			return nil, fmt.Errorf("%w: timestamp object without timestep", ErrMalformedHypothesis)
		}
		return parseSteps(obj.Timestep)
	}
	var secs Seconds
	if err := json.Unmarshal(raw, &secs); err != nil {
		return nil, fmt.Errorf("%w: timestamp: %v", ErrMalformedHypothesis, err)
	}
	return secs, nil
}
