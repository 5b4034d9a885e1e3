package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/internal/digest/service"
	"ipo-hype-tracker/pkg/common"
	"ipo-hype-tracker/pkg/logger"
	"ipo-hype-tracker/pkg/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DigestHandler handles HTTP requests for digest runs.
type DigestHandler struct {
	digestService service.DigestService
	runTimeout    time.Duration
	baseCtx       context.Context
	logger        *logger.Logger
	goAsync       func(fn func())
}

// NewDigestHandler creates a new DigestHandler. Runs triggered over HTTP inherit baseCtx, not the request context.
func NewDigestHandler(baseCtx context.Context, digestService service.DigestService, runTimeout time.Duration, logger *logger.Logger) *DigestHandler {
	return &DigestHandler{
		digestService: digestService,
		runTimeout:    runTimeout,
		baseCtx:       baseCtx,
		logger:        logger,
		goAsync:       func(fn func()) { utils.GoSafe(logger, fn) },
	}
}

// RegisterRoutes registers the digest routes to the Echo group.
func (h *DigestHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/runs", h.TriggerRun)
	g.GET("/runs", h.ListRuns)
	g.GET("/runs/:run_id", h.GetRun)
	g.GET("/latest", h.GetLatest)
}

// TriggerRun godoc
// @Summary Trigger a digest run
// @Description Start an asynchronous digest run. The run id can be polled on /digests/runs/{run_id}.
// @Tags digests
// @Accept  json
// @Produce  json
// @Param   run  body    dto.TriggerRunRequest false  "Run options"
// @Success 202 {object} dto.TriggerRunResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /digests/runs [post]
func (h *DigestHandler) TriggerRun(c echo.Context) error {
	var req dto.TriggerRunRequest
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		}
	}

	runReq := dto.RunRequest{RunID: uuid.NewString(), Trigger: common.TriggerAPI, DryRun: req.DryRun}
	h.goAsync(func() {
		ctx, cancel := context.WithTimeout(h.baseCtx, h.runTimeout)
		defer cancel()
		if _, err := h.digestService.Run(ctx, runReq); err != nil {
			h.logger.Error("Digest run triggered over HTTP failed", logger.StringField("run_id", runReq.RunID), logger.ErrorField(err))
		}
	})

	return c.JSON(http.StatusAccepted, dto.TriggerRunResponse{RunID: runReq.RunID, Status: dto.RunStatusRunning})
}

// ListRuns godoc
// @Summary List digest runs
// @Description Get the most recent digest runs, newest first
// @Tags digests
// @Produce  json
// @Param   limit  query    int false  "Maximum number of runs (default 20, max 100)"
// @Success 200 {object} dto.RunListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /digests/runs [get]
func (h *DigestHandler) ListRuns(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid limit"})
		}
		limit = parsed
	}

	runs, err := h.digestService.ListRuns(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list digest runs", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list digest runs"})
	}
	return c.JSON(http.StatusOK, dto.RunListResponse{Runs: runs})
}

// GetRun godoc
// @Summary Get a digest run
// @Description Get the summary of a single digest run
// @Tags digests
// @Produce  json
// @Param   run_id  path    string true  "Run ID"
// @Success 200 {object} dto.RunSummary
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /digests/runs/{run_id} [get]
func (h *DigestHandler) GetRun(c echo.Context) error {
	summary, err := h.digestService.GetRun(c.Request().Context(), c.Param("run_id"))
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Digest run not found"})
		}
		h.logger.Error("Failed to get digest run", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get digest run"})
	}
	return c.JSON(http.StatusOK, summary)
}

// GetLatest godoc
// @Summary Get the latest digest
// @Description Get the summary of the latest successful digest run
// @Tags digests
// @Produce  json
// @Success 200 {object} dto.RunSummary
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /digests/latest [get]
func (h *DigestHandler) GetLatest(c echo.Context) error {
	summary, err := h.digestService.Latest(c.Request().Context())
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "No digest has been produced yet"})
		}
		h.logger.Error("Failed to get latest digest", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get latest digest"})
	}
	return c.JSON(http.StatusOK, summary)
}
