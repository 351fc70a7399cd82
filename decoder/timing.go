package decoder

import "math"

// Timing is the per-token time information carried by a hypothesis.
// It is either StepIndices or Seconds, depending on the engine version.
type Timing interface {
	// Len returns the number of timed tokens.
	Len() int
	// At returns the onset of the token at position index, in seconds
	// since the start of the unpadded clip. The result is never negative.
	At(index int, cfg Config) float64

	isTiming()
}

// StepIndices holds the encoder frame index at which each token was emitted.
type StepIndices []int

// Seconds holds the emission time of each token in seconds, pad included.
type Seconds []float64

func (s StepIndices) Len() int { return len(s) }

// At corrects the one-frame-per-token skew of the frame-synchronous search
// and removes the leading pad.
func (s StepIndices) At(index int, cfg Config) float64 {
	t := cfg.StepSeconds*float64(s[index]-index-cfg.StepSkew) - cfg.PadSeconds
	return math.Max(t, 0)
}

func (s StepIndices) isTiming() {}

func (s Seconds) Len() int { return len(s) }

// At removes the leading pad.
func (s Seconds) At(index int, cfg Config) float64 {
	return math.Max(s[index]-cfg.PadSeconds, 0)
}

func (s Seconds) isTiming() {}

// pairCount returns how many tokens can be materialized. Engines sometimes
// report fewer timing values than tokens; trailing tokens without a timing
// value are left out of the subword sequence.
func pairCount(ids []int, timing Timing) int {
	if timing == nil {
		return 0
	}
	return min(len(ids), timing.Len())
}
