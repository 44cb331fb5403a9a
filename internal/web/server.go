// Package web serves the upload page and a JSON API in front of the
// pipeline.
package web

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/config"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/logger"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/pipeline"
	"github.com/nguyentantai21042004/meeting-summarizer/internal/presenter"
)

const formField = "audio"

var errUnsupported = errors.New("only .wav and .mp3 uploads are accepted")

// Server wires HTTP routes to a Pipeline
type Server struct {
	app      *fiber.App
	addr     string
	pipeline pipeline.Pipeline
	reporter pipeline.Reporter
	logger   logger.Logger
}

type pageData struct {
	View   *presenter.View
	Notice string
}

// New creates a Server. reporter, if non-nil, also receives every run's
// events, e.g. the run log.
func New(cfg config.ServerConfig, p pipeline.Pipeline, reporter pipeline.Reporter, log logger.Logger) *Server {
	s := &Server{
		addr:     cfg.Addr,
		pipeline: p,
		reporter: reporter,
		logger:   log,
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "meeting-summarizer",
		BodyLimit:             cfg.MaxUploadMB * 1024 * 1024,
		DisableStartupMessage: true,
	})
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/", s.handleIndex)
	s.app.Post("/process", s.handleProcessPage)
	s.app.Post("/api/process", s.handleProcessAPI)
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

// App exposes the fiber app, mainly for app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until ctx is canceled
func (s *Server) Listen(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(s.addr)
	}()
	s.logger.Info(ctx, "Web UI listening on http://%s", s.addr)

	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "Shutting down web UI...")
		return s.app.Shutdown()
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, pageData{})
}

func (s *Server) handleProcessPage(c *fiber.Ctx) error {
	view, status, err := s.process(c)
	if err != nil {
		return s.render(c, status, pageData{Notice: err.Error()})
	}
	return s.render(c, status, pageData{View: view})
}

func (s *Server) handleProcessAPI(c *fiber.Ctx) error {
	view, status, err := s.process(c)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(status).JSON(view)
}

// process runs the pipeline for the uploaded file. A non-nil error means
// the request itself was rejected and no run happened.
func (s *Server) process(c *fiber.Ctx) (*presenter.View, int, error) {
	fh, err := c.FormFile(formField)
	if err != nil {
		return nil, fiber.StatusBadRequest, errUnsupported
	}
	if !isSupported(fh.Filename) {
		return nil, fiber.StatusBadRequest, errUnsupported
	}

	f, err := fh.Open()
	if err != nil {
		s.logger.Error(c.UserContext(), "Failed to open upload %s: %v", fh.Filename, err)
		return nil, fiber.StatusInternalServerError, errors.New("could not read upload")
	}
	defer f.Close()

	rec := presenter.NewRecorder()
	_, runErr := s.pipeline.Run(c.UserContext(), pipeline.Upload{Name: fh.Filename, Body: f}, pipeline.Reporters(rec, s.reporter))
	view := rec.View()

	var serr *pipeline.StageError
	switch {
	case runErr == nil:
		return &view, fiber.StatusOK, nil
	case errors.As(runErr, &serr):
		return &view, fiber.StatusUnprocessableEntity, nil
	default:
		// the run never started, e.g. canceled while waiting for another
		s.logger.Error(c.UserContext(), "Run not started: %v", runErr)
		return nil, fiber.StatusServiceUnavailable, runErr
	}
}

func (s *Server) render(c *fiber.Ctx, status int, data pageData) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

func isSupported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav", ".mp3":
		return true
	}
	return false
}
