// Package api exposes the hub operations over a small REST surface so
// fleet tooling can drive compilations without shelling into the CLI.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/edgemesh/aihub-tools/internal/hub"
)

// Backend is the subset of hub operations the server drives. The concrete
// implementation is *hub.Client; tests substitute a fake.
type Backend interface {
	SubmitCompile(ctx context.Context, model, device, options string) (hub.CompileResult, error)
	JobStatus(ctx context.Context, jobID string) (hub.JobStatus, error)
	DownloadArtifact(ctx context.Context, jobID, outDir string) (hub.DownloadResult, error)
	ListJobs(ctx context.Context, limit int) (hub.JobList, error)
	ListDevices(ctx context.Context, name string) (hub.DeviceList, error)
	Doctor(ctx context.Context) *hub.DoctorResult
}

type Server struct {
	backend Backend
}

func NewServer(backend Backend) *Server {
	return &Server{backend: backend}
}

func (s *Server) Register(e *echo.Echo) {
	e.Use(requestID)

	e.GET("/healthz", s.handleHealth)
	e.POST("/v1/compile", s.handleCompile)
	e.GET("/v1/jobs", s.handleListJobs)
	e.GET("/v1/jobs/:id", s.handleJobStatus)
	e.POST("/v1/jobs/:id/download", s.handleDownload)
	e.GET("/v1/devices", s.handleListDevices)
	e.GET("/v1/doctor", s.handleDoctor)
}

// requestID tags every response so hub-side failures can be correlated
// with fleet logs.
func requestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		id := c.Request().Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Response().Header().Set("X-Request-ID", id)
		return next(c)
	}
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CompileRequest is the body of POST /v1/compile.
type CompileRequest struct {
	Model   string `json:"model"`
	Device  string `json:"device"`
	Options string `json:"options,omitempty"`
}

func (s *Server) handleCompile(c *echo.Context) error {
	req, err := decodeJSON[CompileRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if req.Model == "" || req.Device == "" {
		return writeBadRequest(c, "model and device are required")
	}

	res, err := s.backend.SubmitCompile(c.Request().Context(), req.Model, req.Device, req.Options)
	if err != nil {
		return writeBackendError(c, err)
	}
	// Logical failures travel in the envelope with a 200, matching the
	// CLI contract.
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleJobStatus(c *echo.Context) error {
	st, err := s.backend.JobStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeBackendError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

// DownloadRequest is the body of POST /v1/jobs/:id/download.
type DownloadRequest struct {
	OutDir string `json:"out_dir"`
}

func (s *Server) handleDownload(c *echo.Context) error {
	req, err := decodeJSON[DownloadRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if req.OutDir == "" {
		return writeBadRequest(c, "out_dir is required")
	}

	res, err := s.backend.DownloadArtifact(c.Request().Context(), c.Param("id"), req.OutDir)
	if err != nil {
		return writeBackendError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleListJobs(c *echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &limit); err != nil {
			return writeBadRequest(c, "limit must be an integer")
		}
	}
	jobs, err := s.backend.ListJobs(c.Request().Context(), limit)
	if err != nil {
		return writeBackendError(c, err)
	}
	return c.JSON(http.StatusOK, jobs)
}

func (s *Server) handleListDevices(c *echo.Context) error {
	devices, err := s.backend.ListDevices(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return writeBackendError(c, err)
	}
	return c.JSON(http.StatusOK, devices)
}

func (s *Server) handleDoctor(c *echo.Context) error {
	return c.JSON(http.StatusOK, s.backend.Doctor(c.Request().Context()))
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeBackendError(c *echo.Context, err error) error {
	if errors.Is(err, hub.ErrToolingMissing) {
		return writeError(c, http.StatusServiceUnavailable, "tooling_missing", err.Error())
	}
	return writeError(c, http.StatusBadGateway, "hub_error", err.Error())
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": map[string]string{
			"type":    errType,
			"message": msg,
		},
	})
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var v T
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return v, fmt.Errorf("request body is required")
		}
		return v, fmt.Errorf("invalid JSON body: %w", err)
	}
	return v, nil
}
