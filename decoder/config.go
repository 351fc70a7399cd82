package decoder

import "slices"

// Config holds timestamp and segmentation parameters.
type Config struct {
	StepSeconds        float64 // duration of one encoder frame
	StepSkew           int     // per-token emission skew subtracted from step indices
	PadSeconds         float64 // leading silence added before inference
	SubwordsPerSegment int     // minimum run before a comma or pause may break
	PhonemicBreak      float64 // pause (seconds) treated as a phrase boundary
	SentenceEnds       []string
	Commas             []string
}

// DefaultConfig returns the parameters used with the ReazonSpeech RNN-T model.
func DefaultConfig() Config {
	return Config{
		StepSeconds:        0.08,
		StepSkew:           1,
		PadSeconds:         0.5,
		SubwordsPerSegment: 10,
		PhonemicBreak:      0.5,
		SentenceEnds:       []string{"。", "?", "!"},
		Commas:             []string{"、", ","},
	}
}

func (c Config) isSentenceEnd(tok string) bool { return slices.Contains(c.SentenceEnds, tok) }
func (c Config) isComma(tok string) bool { return slices.Contains(c.Commas, tok) }
func (c Config) isPunct(tok string) bool { return c.isSentenceEnd(tok) || c.isComma(tok) }
