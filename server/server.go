// Package server exposes a Transcriber over HTTP.
package server

import (
	"bytes"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	transcript "github.com/ieee0824/reazonspeech-go"
	"github.com/ieee0824/reazonspeech-go/audio"
	"github.com/ieee0824/reazonspeech-go/decoder"
	"github.com/ieee0824/reazonspeech-go/engine"
)

// maxBodySize bounds uploaded WAV files.
const maxBodySize = 64 << 20

// Server routes:
//
//	POST /decode      hypothesis JSON -> result JSON
//	POST /transcribe  WAV bytes       -> result JSON
//	GET  /healthz
type Server struct {
	tr     *transcript.Transcriber
	app    *fiber.App
	logger *log.Logger
}

// New creates a Server. logger may be nil.
func New(tr *transcript.Transcriber, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		tr:     tr,
		app:    fiber.New(fiber.Config{BodyLimit: maxBodySize, DisableStartupMessage: true}),
		logger: logger,
	}
	s.app.Post("/decode", s.handleDecode)
	s.app.Post("/transcribe", s.handleTranscribe)
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves HTTP on addr until Shutdown is called.
func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

// Shutdown stops the server.
func (s *Server) Shutdown() error { return s.app.Shutdown() }

func (s *Server) handleDecode(c *fiber.Ctx) error {
	hyps, err := engine.ParseHypotheses(c.Body())
	if err != nil {
		return s.fail(c, fiber.StatusBadRequest, err)
	}
	if len(hyps) == 0 {
		return s.fail(c, fiber.StatusBadRequest, errors.New("no hypotheses"))
	}
	result, err := s.tr.DecodeHypothesis(hyps[0])
	if errors.Is(err, decoder.ErrMalformedHypothesis) {
		return s.fail(c, fiber.StatusBadRequest, err)
	}
	if err != nil {
		return s.fail(c, statusOf(err), err)
	}
	return c.JSON(result)
}

func (s *Server) handleTranscribe(c *fiber.Ctx) error {
	data, _, err := audio.ReadWAV(bytes.NewReader(c.Body()))
	if err != nil {
		return s.fail(c, fiber.StatusBadRequest, err)
	}
	result, err := s.tr.Transcribe(c.UserContext(), data)
	if err != nil {
		return s.fail(c, statusOf(err), err)
	}
	return c.JSON(result)
}

func (s *Server) fail(c *fiber.Ctx, status int, err error) error {
	s.logger.Printf("%s %s: %d %v", c.Method(), c.Path(), status, err)
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func statusOf(err error) int {
	var de *decoder.DecodingError
	switch {
	case errors.Is(err, transcript.ErrNoEngine):
		return fiber.StatusServiceUnavailable
	case errors.As(err, &de):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, decoder.ErrMalformedHypothesis):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
