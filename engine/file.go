package engine

import (
	"context"
	"fmt"
	"os"
)

// File replays hypotheses previously saved from the engine. The waveforms
// passed to Transcribe are ignored.
type File struct {
	Path string
}

func (f File) Transcribe(ctx context.Context, waveforms [][]float64, opts Options) (Hypotheses, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read hypotheses: %w", err)
	}
	return ParseHypotheses(data)
}
