package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	transcript "github.com/ieee0824/reazonspeech-go"
	"github.com/ieee0824/reazonspeech-go/decoder"
	"github.com/ieee0824/reazonspeech-go/engine"
	"github.com/ieee0824/reazonspeech-go/tokenizer"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	vocabPath := flag.String("vocab", os.Getenv("REAZON_VOCAB"), "path to SentencePiece .vocab file")
	wavPath := flag.String("wav", "", "path to input WAV file")
	hypPath := flag.String("hyp", "", "path to saved engine hypotheses (JSON); decodes without running the engine")
	engineCmd := flag.String("engine", os.Getenv("REAZON_ENGINE"), "recognizer command line")
	asJSON := flag.Bool("json", false, "print the full result as JSON")
	raw := flag.Bool("raw", false, "include the raw hypothesis in JSON output")
	padSec := flag.Float64("pad", 0.5, "leading pad in seconds")
	phonemicBreak := flag.Float64("break", 0.5, "pause in seconds treated as a phrase boundary")
	minRun := flag.Int("min-subwords", 10, "subwords before a comma or pause may end a segment")
	verbose := flag.Bool("v", false, "verbose output")

	flag.Parse()

	if *vocabPath == "" || (*wavPath == "" && *hypPath == "") {
		fmt.Fprintln(os.Stderr, "Usage: transcript -vocab VOCAB (-wav AUDIO -engine CMD | -hyp HYPOTHESES)")
		flag.PrintDefaults()
		os.Exit(1)
	}

	vocab, err := tokenizer.LoadFile(*vocabPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load vocabulary: %v\n", err)
		os.Exit(1)
	}

	var model transcript.Model
	switch {
	case *hypPath != "":
		model = engine.File{Path: *hypPath}
	case *engineCmd != "":
		cmd, err := engine.NewCommand(*engineCmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cmd.Stderr = os.Stderr
		model = cmd
	default:
		fmt.Fprintln(os.Stderr, "Error: -engine is required with -wav")
		os.Exit(1)
	}

	decCfg := decoder.DefaultConfig()
	decCfg.PadSeconds = *padSec
	decCfg.PhonemicBreak = *phonemicBreak
	decCfg.SubwordsPerSegment = *minRun

	tr := transcript.NewTranscriber(model, vocab,
		transcript.WithDecoderConfig(decCfg),
		transcript.WithConfig(transcript.Config{Verbose: *verbose, RawHypothesis: *raw}),
		transcript.WithLogger(log.New(os.Stderr, "", 0)),
	)

	ctx := context.Background()
	var result *decoder.Result
	if *wavPath != "" {
		result, err = tr.TranscribeFile(ctx, *wavPath)
	} else {
		hyps, herr := model.Transcribe(ctx, nil, engine.Options{})
		if herr == nil && len(hyps) == 0 {
			herr = fmt.Errorf("%s: no hypotheses", *hypPath)
		}
		if herr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", herr)
			os.Exit(1)
		}
		result, err = tr.DecodeHypothesis(hyps[0])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Println(result.Text)
	}

	if *verbose {
		for _, seg := range result.Segments {
			fmt.Fprintf(os.Stderr, "  [%.2f-%.2f] %s\n", seg.StartSeconds, seg.EndSeconds, seg.Text)
		}
	}
}
