package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	transcript "github.com/ieee0824/reazonspeech-go"
	"github.com/ieee0824/reazonspeech-go/audio"
	"github.com/ieee0824/reazonspeech-go/decoder"
	"github.com/ieee0824/reazonspeech-go/engine"
	"github.com/ieee0824/reazonspeech-go/tokenizer"
)

const hypJSON = `{"y_sequence":[0,2,3,4,5],"timestamp":[0.6,0.8,1.0,1.2]}`

type replayModel struct {
	hyps engine.Hypotheses
}

func (m replayModel) Transcribe(ctx context.Context, waveforms [][]float64, opts engine.Options) (engine.Hypotheses, error) {
	return m.hyps, nil
}

func newTestServer(model transcript.Model) *Server {
	vocab := tokenizer.NewVocab([]tokenizer.Piece{
		{Text: "<blk>"}, {Text: "▁"}, {Text: "今日"}, {Text: "は"}, {Text: "晴れ"}, {Text: "。"},
	})
	tr := transcript.NewTranscriber(model, vocab)
	return New(tr, log.New(io.Discard, "", 0))
}

func do(t *testing.T, s *Server, method, path string, body []byte) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("%s %s: decode response: %v", method, path, err)
	}
	return resp.StatusCode, out
}

func TestHealthz(t *testing.T) {
	status, out := do(t, newTestServer(nil), http.MethodGet, "/healthz", nil)
	if status != http.StatusOK || out["status"] != "ok" {
		t.Errorf("GET /healthz = %d %v", status, out)
	}
}

func TestDecode(t *testing.T) {
	s := newTestServer(nil)
	for _, body := range []string{hypJSON, "[" + hypJSON + "]", "[[" + hypJSON + "]]"} {
		status, out := do(t, s, http.MethodPost, "/decode", []byte(body))
		if status != http.StatusOK {
			t.Fatalf("POST /decode %s = %d %v", body, status, out)
		}
		if out["text"] != "今日は晴れ。" {
			t.Errorf("text = %v, want 今日は晴れ。", out["text"])
		}
		segs, _ := out["segments"].([]any)
		if len(segs) != 1 {
			t.Errorf("segments = %v, want 1 segment", out["segments"])
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	s := newTestServer(nil)
	tests := []struct {
		body   string
		status int
	}{
		{`not json`, http.StatusBadRequest},
		{`[]`, http.StatusBadRequest},
		{`{"y_sequence":[0,2]}`, http.StatusBadRequest},
		{`{"y_sequence":[0,77],"timestep":[9]}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		status, out := do(t, s, http.MethodPost, "/decode", []byte(tt.body))
		if status != tt.status {
			t.Errorf("POST /decode %s = %d, want %d", tt.body, status, tt.status)
		}
		if msg, _ := out["error"].(string); msg == "" {
			t.Errorf("POST /decode %s: missing error message", tt.body)
		}
	}
}

func wavBody(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := audio.WriteWAV(&buf, make([]float64, 1600), 16000); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestTranscribe(t *testing.T) {
	var hyp decoder.Hypothesis
	if err := json.Unmarshal([]byte(hypJSON), &hyp); err != nil {
		t.Fatal(err)
	}
	s := newTestServer(replayModel{hyps: engine.Hypotheses{hyp}})

	status, out := do(t, s, http.MethodPost, "/transcribe", wavBody(t))
	if status != http.StatusOK {
		t.Fatalf("POST /transcribe = %d %v", status, out)
	}
	if out["text"] != "今日は晴れ。" {
		t.Errorf("text = %v", out["text"])
	}
	if _, ok := out["hypothesis"]; ok {
		t.Error("hypothesis attached without RawHypothesis")
	}
}

func TestTranscribe_Errors(t *testing.T) {
	status, _ := do(t, newTestServer(nil), http.MethodPost, "/transcribe", wavBody(t))
	if status != http.StatusServiceUnavailable {
		t.Errorf("no engine: status = %d, want 503", status)
	}

	status, _ = do(t, newTestServer(replayModel{}), http.MethodPost, "/transcribe", wavBody(t))
	if status != http.StatusBadGateway {
		t.Errorf("empty engine output: status = %d, want 502", status)
	}

	status, _ = do(t, newTestServer(replayModel{}), http.MethodPost, "/transcribe", []byte("RIFF"))
	if status != http.StatusBadRequest {
		t.Errorf("bad WAV: status = %d, want 400", status)
	}
}
