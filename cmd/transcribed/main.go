package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	transcript "github.com/ieee0824/reazonspeech-go"
	"github.com/ieee0824/reazonspeech-go/engine"
	"github.com/ieee0824/reazonspeech-go/server"
	"github.com/ieee0824/reazonspeech-go/tokenizer"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to environment variables")
	}

	addr := flag.String("addr", envOr("REAZON_ADDR", ":8080"), "listen address")
	vocabPath := flag.String("vocab", os.Getenv("REAZON_VOCAB"), "path to SentencePiece .vocab file")
	engineCmd := flag.String("engine", os.Getenv("REAZON_ENGINE"), "recognizer command line; without it only /decode is served")
	raw := flag.Bool("raw", false, "include the raw hypothesis in responses")
	verbose := flag.Bool("v", false, "verbose output")
	flag.Parse()

	if *vocabPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: transcribed -vocab VOCAB [-engine CMD] [-addr ADDR]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	vocab, err := tokenizer.LoadFile(*vocabPath)
	if err != nil {
		log.Fatalf("load vocabulary: %v", err)
	}

	var model transcript.Model
	if *engineCmd != "" {
		cmd, err := engine.NewCommand(*engineCmd)
		if err != nil {
			log.Fatal(err)
		}
		cmd.Stderr = os.Stderr
		model = cmd
	} else {
		log.Println("REAZON_ENGINE not set, /transcribe disabled")
	}

	logger := log.Default()
	tr := transcript.NewTranscriber(model, vocab,
		transcript.WithConfig(transcript.Config{Verbose: *verbose, RawHypothesis: *raw}),
		transcript.WithLogger(logger),
	)
	srv := server.New(tr, logger)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		if err := srv.Shutdown(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s (%d pieces)", *addr, vocab.Size())
	if err := srv.Listen(*addr); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
