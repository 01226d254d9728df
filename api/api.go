package api

import (
	"context"
	"errors"
	"io/fs"
	"strconv"
	"time"

	"github.com/TFMV/tableio/config"
	"github.com/TFMV/tableio/logger"
	"github.com/TFMV/tableio/metrics"
	"github.com/TFMV/tableio/pkg/core"
	"github.com/TFMV/tableio/pkg/readers"
	"github.com/TFMV/tableio/utils"
	"github.com/TFMV/tableio/version"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// ServerOptions configures the HTTP server.
type ServerOptions struct {
	Port    string
	Prefork bool

	// Readers resolves the :kind path parameter. Defaults to readers.NewFactory().
	Readers *readers.Factory

	// AccessLog enables the per-request access log middleware.
	AccessLog bool
}

// Server holds the Fiber app instance
type Server struct {
	app     *fiber.App
	opts    ServerOptions
	readers *readers.Factory
}

// FetchResponse is the body of a successful fetch.
type FetchResponse struct {
	Stats   metrics.FetchStats       `json:"stats"`
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
}

// NewServer initializes a new Fiber instance
func NewServer(opts ServerOptions) *Server {
	if opts.Port == "" {
		opts.Port = "5555"
	}
	s := &Server{opts: opts, readers: opts.Readers}
	if s.readers == nil {
		s.readers = readers.NewFactory()
	}

	app := fiber.New(fiber.Config{
		IdleTimeout:           10 * time.Second,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          60 * time.Second,
		Prefork:               opts.Prefork,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(fiberlogger.New())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "tableio API",
			"version": version.Version,
			"build":   version.BuildDate,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	v1 := app.Group("/v1")
	v1.Post("/fetch/:kind", s.fetch)

	s.app = app
	return s
}

// GetApp exposes the underlying app, mainly for app.Test in tests.
func (s *Server) GetApp() *fiber.App {
	return s.app
}

// fetch decodes a JSON reader configuration, loads the table and returns its
// rows. ?limit=N caps the number of returned rows; stats always describe the
// whole table.
func (s *Server) fetch(c *fiber.Ctx) error {
	kind := c.Params("kind")

	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid configuration body: "+err.Error())
	}
	cfg, err := config.FromMap(body)
	if err != nil {
		return err
	}

	limit := -1
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be a non-negative integer")
		}
	}

	reader, err := s.readers.Create(core.SourceKind(kind), cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	table, err := reader.Fetch(c.UserContext())
	if err != nil {
		return err
	}
	defer table.Release()

	rows, err := utils.RowMaps(table)
	if err != nil {
		return err
	}
	if limit >= 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	return c.JSON(FetchResponse{
		Stats:   metrics.FromTable(kind, string(cfg.InputFormat), cfg.InputPath, table, start),
		Columns: utils.ColumnNames(table),
		Rows:    rows,
	})
}

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, core.ErrConfiguration), errors.Is(err, core.ErrUnsupportedSource):
		return fiber.StatusBadRequest
	case errors.Is(err, core.ErrMissingColumn), errors.Is(err, core.ErrParse):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, core.ErrIO) && errors.Is(err, fs.ErrNotExist):
		return fiber.StatusNotFound
	case errors.Is(err, core.ErrIO):
		return fiber.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusRequestTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := StatusFor(err)
	if code >= fiber.StatusInternalServerError {
		logger.GetLogger().Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// Start runs the server until ctx is canceled, then shuts it down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.GetLogger().Info("tableio API is running", zap.String("port", s.opts.Port))
		errCh <- s.app.Listen(":" + s.opts.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.GetLogger().Info("received shutdown signal, stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops the server, waiting for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
