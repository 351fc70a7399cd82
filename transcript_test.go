package transcript

import (
	"bytes"
	"context"
	"errors"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/ieee0824/reazonspeech-go/audio"
	"github.com/ieee0824/reazonspeech-go/decoder"
	"github.com/ieee0824/reazonspeech-go/engine"
	"github.com/ieee0824/reazonspeech-go/tokenizer"
)

// fakeModel returns fixed hypotheses and records its inputs.
type fakeModel struct {
	hyps      engine.Hypotheses
	err       error
	waveforms [][]float64
	opts      engine.Options
}

func (m *fakeModel) Transcribe(ctx context.Context, waveforms [][]float64, opts engine.Options) (engine.Hypotheses, error) {
	m.waveforms = waveforms
	m.opts = opts
	return m.hyps, m.err
}

func testVocab() *tokenizer.Vocab {
	return tokenizer.NewVocab([]tokenizer.Piece{
		{Text: "<blk>"},
		{Text: "▁"},
		{Text: "今日"},
		{Text: "は"},
		{Text: "晴れ"},
		{Text: "。"},
		{Text: "明日"},
		{Text: "雨"},
	})
}

func testHypothesis() decoder.Hypothesis {
	// frames 10, 12, 14, 16, 23, 25, 27, 29, 31 after the skew correction;
	// the lone marker at index 4 is filtered out
	return decoder.Hypothesis{
		TokenIDs: []int{0, 2, 3, 4, 5, 1, 6, 3, 7, 5},
		Timing:   decoder.StepIndices{11, 14, 17, 20, 28, 31, 34, 37, 40},
	}
}

func TestTranscribe(t *testing.T) {
	model := &fakeModel{hyps: engine.Hypotheses{testHypothesis()}}
	tr := NewTranscriber(model, testVocab())

	// one second of stereo 8kHz audio
	data := audio.Data{Samples: make([]float64, 2*8000), NumChannels: 2, SampleRate: 8000}
	result, err := tr.Transcribe(context.Background(), data)
	if err != nil {
		t.Fatalf("Transcribe error: %v", err)
	}

	if len(model.waveforms) != 1 {
		t.Fatalf("engine got %d waveforms, want 1", len(model.waveforms))
	}
	// 16000 samples plus 0.5s of padding on each side
	if got := len(model.waveforms[0]); got != 32000 {
		t.Errorf("waveform length = %d, want 32000", got)
	}
	if model.opts.BatchSize != 1 || !model.opts.ReturnHypotheses {
		t.Errorf("engine options = %+v", model.opts)
	}

	if result.Text != "今日は晴れ。 明日は雨。" {
		t.Errorf("Text = %q", result.Text)
	}
	if len(result.Subwords) != 8 {
		t.Errorf("len(Subwords) = %d, want 8", len(result.Subwords))
	}
	if len(result.Segments) != 2 {
		t.Fatalf("len(Segments) = %d, want 2", len(result.Segments))
	}
	if result.Segments[0].Text != "今日は晴れ。" || result.Segments[1].Text != "明日は雨。" {
		t.Errorf("Segments = %+v", result.Segments)
	}
	// 明日 is at index 5 of the timed sequence: step 31 -> frame 25
	if got := result.Segments[1].StartSeconds; math.Abs(got-1.5) > 1e-9 {
		t.Errorf("Segments[1].StartSeconds = %f, want 1.5", got)
	}
	if result.Hypothesis != nil {
		t.Error("raw hypothesis attached without RawHypothesis")
	}
}

func TestTranscribe_RawHypothesis(t *testing.T) {
	model := &fakeModel{hyps: engine.Hypotheses{testHypothesis()}}
	tr := NewTranscriber(model, testVocab(), WithRawHypothesis(true))

	result, err := tr.Transcribe(context.Background(), audio.Mono(make([]float64, 1600), 16000))
	if err != nil {
		t.Fatalf("Transcribe error: %v", err)
	}
	if result.Hypothesis == nil {
		t.Fatal("raw hypothesis not attached")
	}
	if len(result.Hypothesis.TokenIDs) != 10 {
		t.Errorf("len(TokenIDs) = %d, want 10", len(result.Hypothesis.TokenIDs))
	}
}

func TestTranscribe_Verbose(t *testing.T) {
	hyp := testHypothesis()
	hyp.Timing = decoder.StepIndices{11, 14}
	model := &fakeModel{hyps: engine.Hypotheses{hyp}}

	var buf bytes.Buffer
	tr := NewTranscriber(model, testVocab(), WithVerbose(true), WithLogger(log.New(&buf, "", 0)))
	if _, err := tr.Transcribe(context.Background(), audio.Mono(nil, 16000)); err != nil {
		t.Fatalf("Transcribe error: %v", err)
	}
	if !model.opts.Verbose {
		t.Error("verbose not forwarded to engine")
	}
	if !strings.Contains(buf.String(), "7 tokens have no timing") {
		t.Errorf("log = %q", buf.String())
	}
}

func TestTranscribe_Errors(t *testing.T) {
	ctx := context.Background()
	clip := audio.Mono(make([]float64, 160), 16000)

	_, err := NewTranscriber(&fakeModel{}, testVocab()).Transcribe(ctx, clip)
	if !errors.Is(err, decoder.ErrMalformedHypothesis) {
		t.Errorf("no hypotheses: err = %v, want ErrMalformedHypothesis", err)
	}

	engineErr := errors.New("cuda out of memory")
	_, err = NewTranscriber(&fakeModel{err: engineErr}, testVocab()).Transcribe(ctx, clip)
	if !errors.Is(err, engineErr) {
		t.Errorf("engine failure: err = %v, want %v", err, engineErr)
	}

	_, err = NewTranscriber(nil, testVocab()).Transcribe(ctx, clip)
	if !errors.Is(err, ErrNoEngine) {
		t.Errorf("no engine: err = %v, want ErrNoEngine", err)
	}

	bad := decoder.Hypothesis{TokenIDs: []int{0, 42}, Timing: decoder.Seconds{1}}
	_, err = NewTranscriber(&fakeModel{hyps: engine.Hypotheses{bad}}, testVocab()).Transcribe(ctx, clip)
	var de *decoder.DecodingError
	if !errors.As(err, &de) {
		t.Errorf("bad id: err = %v, want *decoder.DecodingError", err)
	}
}

func TestDecodeHypothesis_CustomConfig(t *testing.T) {
	cfg := decoder.DefaultConfig()
	cfg.PadSeconds = 0
	tr := NewTranscriber(nil, testVocab(), WithDecoderConfig(cfg))

	result, err := tr.DecodeHypothesis(testHypothesis())
	if err != nil {
		t.Fatalf("DecodeHypothesis error: %v", err)
	}
	if got := result.Subwords[0].Seconds; math.Abs(got-0.8) > 1e-9 {
		t.Errorf("Subwords[0].Seconds = %f, want 0.8", got)
	}
}
