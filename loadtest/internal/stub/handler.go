package stub

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
)

type Handler struct {
	storage *ProfileStorage
}

func NewHandler(storage *ProfileStorage) *Handler {
	return &Handler{storage: storage}
}

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/stub/seed", h.HandleSeed)
	r.POST("/stub/reset", h.HandleReset)

	users := r.Group("/api/v1/users/:userID")
	users.GET("/discounts", h.HandleGetDiscounts)
	users.GET("/notification-time", h.HandleGetTimePreference)
	users.PUT("/notification-time", h.HandlePutTimePreference)
}

// POST /stub/reset?user_id=...
func (h *Handler) HandleReset(c *gin.Context) {
	userID := c.Query("user_id")

	if userID == "" {
		h.storage.ResetAll()
	} else {
		h.storage.Reset(userID)
	}

	slog.Info("reset data", slog.String("user_id", userID))

	c.JSON(http.StatusOK, gin.H{
		"status":  "reset complete",
		"user_id": userID,
	})
}

func (h *Handler) HandleSeed(c *gin.Context) {
	var req SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	totalCount := 0
	for _, su := range req.Users {
		if su.UserID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		items := su.Items
		if su.Generate != nil {
			generated, err := GenerateItems(su.UserID, *su.Generate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			items = append(items, generated...)
		}

		if su.TimePreference != nil {
			if err := su.TimePreference.Validate(); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			h.storage.SetTimePreference(su.UserID, *su.TimePreference)
		}

		h.storage.PutItems(su.UserID, items)
		totalCount += len(items)
	}

	slog.Info("seeded data",
		slog.Int("user_count", len(req.Users)),
		slog.Int("total_item_count", totalCount),
	)

	c.JSON(http.StatusOK, gin.H{
		"status":      "seeded",
		"user_count":  len(req.Users),
		"total_count": totalCount,
	})
}

// GET /api/v1/users/:userID/discounts
func (h *Handler) HandleGetDiscounts(c *gin.Context) {
	userID := c.Param("userID")

	items, ok := h.storage.Items(userID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	slog.Debug("get discounts",
		slog.String("user_id", userID),
		slog.Int("count", len(items)),
	)

	c.JSON(http.StatusOK, DiscountsResponse{
		Items: items,
		Count: len(items),
	})
}

func (h *Handler) HandleGetTimePreference(c *gin.Context) {
	pref, ok := h.storage.TimePreference(c.Param("userID"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "time preference not set"})
		return
	}

	c.JSON(http.StatusOK, TimePreferenceResponse{Hour: pref.Hour, Min: pref.Min})
}

func (h *Handler) HandlePutTimePreference(c *gin.Context) {
	var req TimePreferenceResponse
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pref := domain.TimePreference{Hour: req.Hour, Min: req.Min}
	if err := pref.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.storage.SetTimePreference(c.Param("userID"), pref)
	c.Status(http.StatusNoContent)
}
