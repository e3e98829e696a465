package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"profile-service/internal/metrics"
	"profile-service/internal/models"
	"profile-service/internal/services"
	"profile-service/internal/utils"
)

type StatsHandler struct {
	svc    *services.StatsService
	logger *zap.SugaredLogger
}

func NewStatsHandler(svc *services.StatsService, logger *zap.SugaredLogger) *StatsHandler {
	return &StatsHandler{svc: svc, logger: logger}
}

type recordEventRequest struct {
	ProfileID string           `json:"profile_id"`
	EventType models.EventType `json:"event_type"`
}

// POST /api/stats/events
// Recording is telemetry: a store outage is logged and the caller still gets
// 202 so the contact action (dial, open chat) is never blocked.
func (h *StatsHandler) RecordEvent(c *fiber.Ctx) error {
	var req recordEventRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "invalid body")
	}

	if err := h.svc.RecordEvent(c.UserContext(), req.ProfileID, req.EventType); err != nil {
		if errors.Is(err, utils.ErrStoreUnavailable) {
			h.logger.Warnw("record event", "profile_id", req.ProfileID, "error", err)
			return c.SendStatus(fiber.StatusAccepted)
		}
		return utils.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	metrics.EventsRecorded.WithLabelValues(string(req.EventType)).Inc()
	return c.SendStatus(fiber.StatusAccepted)
}

// GET /api/stats/profiles/:profileId?from=...&to=... or ?range=week|month|year
// When auth middleware ran, the caller may only read their own stats.
func (h *StatsHandler) ProfileStats(c *fiber.Ctx) error {
	profileID := c.Params("profileId")
	if userID, ok := c.Locals("user_id").(string); ok && userID != profileID {
		return utils.JSONError(c, fiber.StatusForbidden, "forbidden")
	}
	from, to, err := parseWindow(c)
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	stats, err := h.svc.ProfileStats(c.UserContext(), profileID, from, to)
	if err != nil {
		h.logger.Errorw("load statistics", "profile_id", profileID, "error", err)
		return utils.JSONError(c, fiber.StatusInternalServerError, "could not load statistics")
	}
	return c.JSON(stats)
}

func parseWindow(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now().UTC()

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid 'from' timestamp")
		}
		to := now
		if toStr := c.Query("to"); toStr != "" {
			if to, err = time.Parse(time.RFC3339, toStr); err != nil {
				return time.Time{}, time.Time{}, fmt.Errorf("invalid 'to' timestamp")
			}
		}
		return from, to, nil
	}

	switch c.Query("range", "week") {
	case "week":
		return now.AddDate(0, 0, -7), now, nil
	case "month":
		return now.AddDate(0, -1, 0), now, nil
	case "year":
		return now.AddDate(-1, 0, 0), now, nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("invalid range")
}
