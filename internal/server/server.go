// =============================================================================
// GRTE Workbook Converter - HTTP Service
// =============================================================================
//
// This module exposes the conversion pipeline over HTTP so a workbook can be
// checked and transformed without touching the input directory.
//
// ROUTES:
//   GET  /api/health     - Liveness and version
//   POST /api/preview    - Parse a workbook (multipart "file")
//   POST /api/transform  - Transform one row of a workbook
//
// TRANSFORM FORM FIELDS:
//   file         - The workbook (required)
//   row          - 1-based data row (default 1)
//   series       - Document series (default from config)
//   correlative  - Document correlative (default from config)
//   format       - "json" or "xml" (default from config)
//   envelope     - Wrap JSON in the submission envelope (default from config)
//
// A row that cannot be transformed yields 422 with the error kind and field.
//
// =============================================================================

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/grte-converter/internal/config"
	"github.com/ginjaninja78/grte-converter/internal/converter"
	"github.com/ginjaninja78/grte-converter/internal/types"
	"github.com/ginjaninja78/grte-converter/internal/validation"
)

const shutdownTimeout = 5 * time.Second

// =============================================================================
// RESPONSES
// =============================================================================

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Field   string `json:"field,omitempty"`
	Row     int    `json:"row,omitempty"`
}

// PreviewResponse is the JSON body of /api/preview.
type PreviewResponse struct {
	Success   bool             `json:"success"`
	Count     int              `json:"count"`
	Shipments []types.Shipment `json:"shipments"`
	Lookups   types.Lookups    `json:"lookups"`
	GeoCount  int              `json:"geoCount"`
}

// =============================================================================
// SERVER
// =============================================================================

// Server serves the conversion API.
type Server struct {
	cfg         *config.MainConfig
	loader      *converter.Loader
	transformer *converter.Transformer
	logger      logrus.FieldLogger
	version     string
	app         *fiber.App
}

// Option configures a Server.
type Option func(*Server)

// WithTransformer replaces the default transformer.
func WithTransformer(t *converter.Transformer) Option {
	return func(s *Server) { s.transformer = t }
}

// WithVersion sets the version reported by /api/health.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New creates a Server and registers its routes.
func New(cfg *config.MainConfig, logger logrus.FieldLogger, opts ...Option) *Server {
	s := &Server{
		cfg:         cfg,
		loader:      converter.NewLoader(cfg, logger),
		transformer: converter.NewTransformer(converter.WithLocation(cfg.Location())),
		logger:      logger,
		version:     "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "grte-converter",
		BodyLimit:             cfg.Server.BodyLimitMB << 20,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	s.app.Use(s.logRequests)

	s.app.Get("/api/health", s.handleHealth)
	s.app.Post("/api/preview", s.handlePreview)
	s.app.Post("/api/transform", s.handleTransform)

	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on the configured address until ctx is cancelled.
func (s *Server) Listen(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(s.cfg.Server.Addr)
	}()

	s.logger.WithField("addr", s.cfg.Server.Addr).Info("server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		return s.app.ShutdownWithTimeout(shutdownTimeout)
	}
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	s.logger.WithFields(logrus.Fields{
		"method":   c.Method(),
		"path":     c.Path(),
		"status":   status,
		"duration": time.Since(start),
	}).Debug("request")
	return err
}

// handleError renders errors returned by handlers, including fiber's own
// (413 on oversized uploads, 404 on unknown routes).
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code == fiber.StatusInternalServerError {
		s.logger.WithError(err).Error("request failed")
	}
	return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) handlePreview(c *fiber.Ctx) error {
	ds, err := s.loadUpload(c)
	if err != nil {
		return err
	}

	shipments := ds.Shipments
	if shipments == nil {
		shipments = []types.Shipment{}
	}
	return c.JSON(PreviewResponse{
		Success:   true,
		Count:     len(shipments),
		Shipments: shipments,
		Lookups:   ds.Lookups,
		GeoCount:  len(ds.Geo),
	})
}

func (s *Server) handleTransform(c *fiber.Ctx) error {
	req, err := s.parseTransformRequest(c)
	if err != nil {
		return err
	}

	ds, err := s.loadUpload(c)
	if err != nil {
		return err
	}

	batch, err := s.transformer.TransformDataset(ds, converter.Options{
		Series:           req.series,
		StartCorrelative: req.correlative,
		Row:              req.row,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	row := batch.Rows[0]
	if row.Err != nil {
		resp := ErrorResponse{
			Error: row.Err.Error(),
			Kind:  string(validation.KindOf(row.Err)),
			Row:   row.RowNumber,
		}
		if e, ok := validation.As(row.Err); ok {
			resp.Field = e.Field
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(resp)
	}

	data, err := req.encoder.Encode(row.Document)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, req.encoder.ContentType())
	c.Set("X-Document-Id", row.DocumentID)
	c.Set("X-File-Name", row.FileName)
	return c.Send(data)
}

// =============================================================================
// HELPERS
// =============================================================================

type transformRequest struct {
	row         int
	series      string
	correlative int
	encoder     converter.Encoder
}

func (s *Server) parseTransformRequest(c *fiber.Ctx) (transformRequest, error) {
	req := transformRequest{
		row:         1,
		series:      s.cfg.Document.Series,
		correlative: s.cfg.Document.StartCorrelative,
		encoder:     converter.NewEncoder(s.cfg),
	}

	if v := c.FormValue("row"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return req, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid row %q", v))
		}
		req.row = n
	}

	if v := c.FormValue("series"); v != "" {
		if !config.ValidSeries(v) {
			return req, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid series %q", v))
		}
		req.series = v
	}

	if v := c.FormValue("correlative"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 99999999 {
			return req, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid correlative %q", v))
		}
		req.correlative = n
	}

	if v := c.FormValue("format"); v != "" {
		v = strings.ToLower(v)
		if v != config.FormatJSON && v != config.FormatXML {
			return req, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("unsupported format %q", v))
		}
		req.encoder.Format = v
	}

	if v := c.FormValue("envelope"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid envelope %q", v))
		}
		req.encoder.Envelope = b
	}

	return req, nil
}

// loadUpload reads the workbook posted in the "file" field.
func (s *Server) loadUpload(c *fiber.Ctx) (*converter.Dataset, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "no file uploaded, use form field 'file'")
	}

	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx", ".xlsm":
	default:
		return nil, fiber.NewError(fiber.StatusBadRequest, "only .xlsx workbooks are supported")
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	ds, err := s.loader.Load(c.UserContext(), data)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return ds, nil
}
