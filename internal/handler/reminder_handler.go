package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/infra/profile"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/service/schedule"
	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/service/status"
)

// ScheduledReminderLister reads what the platform scheduler currently holds.
type ScheduledReminderLister interface {
	ListScheduled(ctx context.Context, userID string) ([]domain.ScheduledReminder, error)
}

type ReminderHandler struct {
	scheduleService *schedule.Service
	profileRepo     profile.Repository
	lister          ScheduledReminderLister
}

// NewReminderHandler wires the reminder routes. profileRepo and lister may be
// nil when no profile store or no reminder store is configured.
func NewReminderHandler(
	scheduleService *schedule.Service,
	profileRepo profile.Repository,
	lister ScheduledReminderLister,
) *ReminderHandler {
	return &ReminderHandler{
		scheduleService: scheduleService,
		profileRepo:     profileRepo,
		lister:          lister,
	}
}

func (h *ReminderHandler) Register(rg *gin.RouterGroup) {
	reminders := rg.Group("/users/:userID/reminders")
	reminders.GET("", h.HandleList)
	reminders.POST("/apply", h.HandleApply)
	reminders.POST("/reschedule", h.HandleReschedule)
	reminders.POST("/resync", h.HandleResync)
	reminders.POST("/predict", h.HandlePredict)
	reminders.POST("/test", h.HandleTest)
	reminders.DELETE("/:itemID", h.HandleCancel)
}

func bindItemRequest(c *gin.Context) (*ItemRequest, bool) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return nil, false
	}
	if req.Item == nil {
		respondError(c, http.StatusBadRequest, errTypeValidation, "item is required")
		return nil, false
	}
	if req.TimePreference == nil {
		respondError(c, http.StatusBadRequest, errTypeValidation, "time_preference is required")
		return nil, false
	}
	if err := req.TimePreference.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return nil, false
	}
	return &req, true
}

// HandleApply reconciles one created or edited item.
func (h *ReminderHandler) HandleApply(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userID")

	req, ok := bindItemRequest(c)
	if !ok {
		return
	}

	result, err := h.scheduleService.ApplyPlan(ctx, userID, req.Item, *req.TimePreference)
	if err != nil {
		slog.ErrorContext(ctx, "apply plan failed",
			slog.String("user_id", userID),
			slog.String("item_id", req.Item.ID.String()),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadGateway, errTypeScheduler, err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleReschedule reapplies every item after the global time preference changed.
func (h *ReminderHandler) HandleReschedule(c *gin.Context) {
	userID := c.Param("userID")

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return
	}
	if req.TimePreference == nil {
		respondError(c, http.StatusBadRequest, errTypeValidation, "time_preference is required")
		return
	}
	if err := req.TimePreference.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return
	}

	h.respondReschedule(c, userID, func(ctx context.Context) (*schedule.RescheduleResult, error) {
		return h.scheduleService.RescheduleAll(ctx, userID, req.Items, *req.TimePreference)
	})
}

// HandleResync rebuilds the user's reminders from the profile store on cold start.
func (h *ReminderHandler) HandleResync(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userID")

	if h.profileRepo == nil {
		respondError(c, http.StatusServiceUnavailable, errTypeNotConfigured, "profile store is not configured")
		return
	}

	items, err := h.profileRepo.GetDiscounts(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch discounts for resync",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadGateway, errTypeProfileStore, err.Error())
		return
	}

	pref, err := h.profileRepo.GetTimePreference(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fetch time preference for resync",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadGateway, errTypeProfileStore, err.Error())
		return
	}

	h.respondReschedule(c, userID, func(ctx context.Context) (*schedule.RescheduleResult, error) {
		return h.scheduleService.Resync(ctx, userID, items, pref)
	})
}

func (h *ReminderHandler) respondReschedule(
	c *gin.Context,
	userID string,
	run func(ctx context.Context) (*schedule.RescheduleResult, error),
) {
	ctx := c.Request.Context()

	result, err := run(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "reschedule finished with failures",
			slog.String("user_id", userID),
			slog.Int("failed_count", result.FailedCount),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadGateway, errTypeScheduler, err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandlePredict reports the item's derived status and next reminder without
// touching the scheduler.
func (h *ReminderHandler) HandlePredict(c *gin.Context) {
	req, ok := bindItemRequest(c)
	if !ok {
		return
	}

	now := h.scheduleService.Now()
	resp := PredictResponse{
		ItemID:       req.Item.ID,
		Status:       status.GetStatus(req.Item, now).String(),
		SoonExpiring: status.IsSoonExpiring(req.Item.ExpiryDate, now),
		NextFireAt:   h.scheduleService.PredictNext(req.Item, *req.TimePreference),
	}
	if days, ok := status.DaysUntil(req.Item.ExpiryDate, now); ok {
		resp.DaysUntilExpiry = &days
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReminderHandler) HandleTest(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userID")

	entry, err := h.scheduleService.SendTest(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to schedule test notification",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadGateway, errTypeScheduler, err.Error())
		return
	}

	c.JSON(http.StatusOK, TestNotificationResponse{
		Skipped:  entry == nil,
		Reminder: entry,
	})
}

// HandleCancel clears the reminders of a deleted or used item.
func (h *ReminderHandler) HandleCancel(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userID")

	itemID, err := domain.ParseItemID(c.Param("itemID"))
	if err != nil {
		respondError(c, http.StatusBadRequest, errTypeValidation, err.Error())
		return
	}

	result, err := h.scheduleService.CancelItem(ctx, userID, itemID)
	if err != nil {
		respondError(c, http.StatusBadGateway, errTypeScheduler, err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ReminderHandler) HandleList(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userID")

	if h.lister == nil {
		c.JSON(http.StatusOK, ScheduledRemindersResponse{Reminders: []domain.ScheduledReminder{}})
		return
	}

	reminders, err := h.lister.ListScheduled(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list scheduled reminders",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusBadGateway, errTypeScheduler, err.Error())
		return
	}

	c.JSON(http.StatusOK, ScheduledRemindersResponse{
		Reminders: reminders,
		Count:     len(reminders),
	})
}
