package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/service/dispatch"
)

type DispatchHandler struct {
	dispatchService *dispatch.Service
	now             func() time.Time
}

func NewDispatchHandler(dispatchService *dispatch.Service) *DispatchHandler {
	return &DispatchHandler{
		dispatchService: dispatchService,
		now:             time.Now,
	}
}

// HandleDispatch runs one dispatch pass. The optional "from" query parameter
// (RFC3339) replaces the current time to catch up on a missed window. It must
// not lie in the future.
func (h *DispatchHandler) HandleDispatch(c *gin.Context) {
	ctx := c.Request.Context()

	now := h.now()
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, errTypeValidation, "invalid from time format, expected RFC3339")
			return
		}
		if parsed.After(now) {
			respondError(c, http.StatusBadRequest, errTypeValidation, "from must not be in the future")
			return
		}
		now = parsed
		slog.InfoContext(ctx, "using virtual time", slog.Time("virtual_now", now))
	}

	result, err := h.dispatchService.DispatchDue(ctx, now)
	if err != nil {
		if errors.Is(err, dispatch.ErrDispatchInProgress) {
			respondError(c, http.StatusConflict, errTypeDispatchRunning, err.Error())
			return
		}
		slog.ErrorContext(ctx, "dispatch failed", slog.String("error", err.Error()))
		respondError(c, http.StatusBadGateway, errTypeScheduler, err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}
