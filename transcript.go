package transcript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/ieee0824/reazonspeech-go/audio"
	"github.com/ieee0824/reazonspeech-go/decoder"
	"github.com/ieee0824/reazonspeech-go/engine"
)

// ErrNoEngine is returned by Transcribe when the Transcriber has no Model.
var ErrNoEngine = errors.New("no engine configured")

// Model is the recognition engine. Implementations return one hypothesis
// per waveform.
type Model interface {
	Transcribe(ctx context.Context, waveforms [][]float64, opts engine.Options) (engine.Hypotheses, error)
}

// Config holds per-call transcription settings.
type Config struct {
	Verbose       bool // forward verbose output from the engine and log decode details
	RawHypothesis bool // attach the engine hypothesis to the result
}

// Transcriber is the top-level speech transcriber.
type Transcriber struct {
	Model     Model
	Tokenizer decoder.Tokenizer
	Config    Config
	DecCfg    decoder.Config
	logger    *log.Logger
}

// Option configures a Transcriber.
type Option func(*Transcriber)

// WithConfig sets the transcription settings.
func WithConfig(cfg Config) Option {
	return func(t *Transcriber) {
		t.Config = cfg
	}
}

// WithDecoderConfig sets custom timestamp and segmentation parameters.
func WithDecoderConfig(cfg decoder.Config) Option {
	return func(t *Transcriber) {
		t.DecCfg = cfg
	}
}

// WithVerbose enables or disables verbose output.
func WithVerbose(enabled bool) Option {
	return func(t *Transcriber) {
		t.Config.Verbose = enabled
	}
}

// WithRawHypothesis enables or disables attaching the engine hypothesis.
func WithRawHypothesis(enabled bool) Option {
	return func(t *Transcriber) {
		t.Config.RawHypothesis = enabled
	}
}

// WithLogger sets the logger used for verbose output.
func WithLogger(l *log.Logger) Option {
	return func(t *Transcriber) {
		t.logger = l
	}
}

// NewTranscriber creates a Transcriber from an initialized engine and tokenizer.
// model may be nil when only DecodeHypothesis is used.
func NewTranscriber(model Model, tok decoder.Tokenizer, opts ...Option) *Transcriber {
	t := &Transcriber{
		Model:     model,
		Tokenizer: tok,
		DecCfg:    decoder.DefaultConfig(),
		logger:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TranscribeFile runs transcription on a WAV file.
func (t *Transcriber) TranscribeFile(ctx context.Context, wavPath string) (*decoder.Result, error) {
	data, _, err := audio.ReadWAVFile(wavPath)
	if err != nil {
		return nil, fmt.Errorf("read WAV: %w", err)
	}
	return t.Transcribe(ctx, data)
}

// Transcribe runs the engine on audio and decodes its best hypothesis.
func (t *Transcriber) Transcribe(ctx context.Context, data audio.Data) (*decoder.Result, error) {
	if t.Model == nil {
		return nil, ErrNoEngine
	}
	data = audio.Pad(audio.Normalize(data), t.DecCfg.PadSeconds)

	hyps, err := t.Model.Transcribe(ctx, [][]float64{data.Samples}, engine.Options{
		BatchSize:        1,
		ReturnHypotheses: true,
		Verbose:          t.Config.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	if len(hyps) == 0 {
		return nil, fmt.Errorf("transcribe: %w: engine returned no hypotheses", decoder.ErrMalformedHypothesis)
	}
	return t.DecodeHypothesis(hyps[0])
}

// DecodeHypothesis decodes an engine hypothesis without running the engine.
func (t *Transcriber) DecodeHypothesis(hyp decoder.Hypothesis) (*decoder.Result, error) {
	result, info, err := decoder.DecodeWithInfo(t.Tokenizer, hyp, t.DecCfg)
	if err != nil {
		return nil, err
	}
	if t.Config.Verbose {
		t.logger.Printf("decoded %d subwords into %d segments", len(result.Subwords), len(result.Segments))
		if info.Truncated > 0 {
			t.logger.Printf("%d tokens have no timing and were left out", info.Truncated)
		}
	}
	if t.Config.RawHypothesis {
		result.Hypothesis = &hyp
	}
	return result, nil
}
