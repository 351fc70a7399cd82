package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/ieee0824/reazonspeech-go/audio"
)

// Command runs an external recognizer process. The process is invoked as
//
//	Path Args... --audio FILE [--audio FILE ...] --batch-size N [--return-hypotheses] [--verbose]
//
// and must print its hypotheses as JSON on stdout.
type Command struct {
	Path   string
	Args   []string
	Env    []string  // appended to the current environment
	TmpDir string    // defaults to os.TempDir()
	Stderr io.Writer // receives the process stderr when Verbose is set
}

// NewCommand parses a command line such as "python3 nemo_engine.py --model m.nemo".
func NewCommand(cmdline string) (*Command, error) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return nil, errors.New("empty engine command")
	}
	return &Command{Path: fields[0], Args: fields[1:]}, nil
}

// Transcribe writes each waveform to a temporary WAV file and runs the
// recognizer over them.
func (c *Command) Transcribe(ctx context.Context, waveforms [][]float64, opts Options) (Hypotheses, error) {
	dir := c.TmpDir
	if dir == "" {
		dir = os.TempDir()
	}

	args := append([]string{}, c.Args...)
	for _, w := range waveforms {
		path := filepath.Join(dir, "reazon-"+uuid.NewString()+".wav")
		defer os.Remove(path)
		if err := audio.WriteWAVFile(path, w, audio.SampleRate); err != nil {
			return nil, fmt.Errorf("write engine input: %w", err)
		}
		args = append(args, "--audio", path)
	}
	batch := opts.BatchSize
	if batch <= 0 {
		batch = 1
	}
	args = append(args, "--batch-size", strconv.Itoa(batch))
	if opts.ReturnHypotheses {
		args = append(args, "--return-hypotheses")
	}
	if opts.Verbose {
		args = append(args, "--verbose")
	}

	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Env = append(os.Environ(), c.Env...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if opts.Verbose && c.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderr, c.Stderr)
	}

	out, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("run engine: %w", ctxErr)
		}
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return nil, fmt.Errorf("engine failed: %s", strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("run engine: %w", err)
	}

	hyps, err := ParseHypotheses(out)
	if err != nil {
		return nil, fmt.Errorf("parse engine output: %w", err)
	}
	return hyps, nil
}
