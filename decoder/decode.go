package decoder

import (
	"fmt"
	"strings"
)

// Tokenizer maps token ids back to text.
type Tokenizer interface {
	IDsToText(ids []int) (string, error)
}

// Decode converts a hypothesis into a Result.
func Decode(tok Tokenizer, hyp Hypothesis, cfg Config) (*Result, error) {
	result, _, err := DecodeWithInfo(tok, hyp, cfg)
	return result, err
}

// DecodeWithInfo is like Decode and also reports how many tokens were left
// out of the subword sequence.
func DecodeWithInfo(tok Tokenizer, hyp Hypothesis, cfg Config) (*Result, Info, error) {
	var info Info
	if hyp.Timing == nil {
		return nil, info, fmt.Errorf("%w: no timing", ErrMalformedHypothesis)
	}

	// The search prepends a blank start token to every hypothesis.
	var ids []int
	if len(hyp.TokenIDs) > 0 {
		ids = hyp.TokenIDs[1:]
	}
	result := &Result{Subwords: []Subword{}, Segments: []Segment{}}
	if len(ids) == 0 {
		return result, info, nil
	}

	text, err := tok.IDsToText(ids)
	if err != nil {
		return nil, info, &DecodingError{IDs: ids, Err: err}
	}
	result.Text = text

	n := pairCount(ids, hyp.Timing)
	info.Truncated = len(ids) - n

	for i := 0; i < n; i++ {
		piece, err := tok.IDsToText(ids[i : i+1])
		if err != nil {
			return nil, info, &DecodingError{IDs: ids[i : i+1], Err: err}
		}
		// Word boundary markers decode to nothing.
		if piece == "" {
			info.Empty++
			continue
		}
		result.Subwords = append(result.Subwords, Subword{
			TokenID: ids[i],
			Token:   piece,
			Seconds: hyp.Timing.At(i, cfg),
		})
	}

	for _, sp := range Spans(result.Subwords, cfg) {
		result.Segments = append(result.Segments, assemble(result.Subwords[sp.Start:sp.End+1], cfg))
	}
	return result, info, nil
}

func assemble(subwords []Subword, cfg Config) Segment {
	var sb strings.Builder
	for _, sw := range subwords {
		sb.WriteString(sw.Token)
	}
	return Segment{
		StartSeconds: subwords[0].Seconds,
		EndSeconds:   subwords[len(subwords)-1].Seconds + cfg.StepSeconds,
		Text:         sb.String(),
	}
}
