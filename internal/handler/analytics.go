package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"

	"github.com/tubepulse/tubepulse-go/internal/middleware"
	"github.com/tubepulse/tubepulse-go/internal/model"
	"github.com/tubepulse/tubepulse-go/internal/service"
)

type AnalyticsHandler struct {
	svc *service.AnalyticsService
}

func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// parseRangeSelector reads range query params. The preset defaults to 30
// days; startDate/endDate switch the selector to a custom range.
func parseRangeSelector(c fiber.Ctx) model.RangeSelector {
	sel := model.RangeSelector{
		Preset: strings.TrimSpace(c.Query("range", model.Preset30Days)),
		Start:  strings.TrimSpace(c.Query("startDate")),
		End:    strings.TrimSpace(c.Query("endDate")),
	}
	if sel.Start != "" || sel.End != "" {
		sel.Preset = model.PresetCustom
	}
	return sel
}

// analyticsError maps pipeline errors to API responses.
func analyticsError(c fiber.Ctx, err error) error {
	switch {
	case service.IsInvalidRange(err):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_RANGE", err.Error())
	case service.IsMissingScopeData(err):
		return middleware.ErrorResponse(c, fiber.StatusUnprocessableEntity, "MISSING_SCOPE_DATA", err.Error())
	case errors.Is(err, pgx.ErrNoRows):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Resource not found")
	default:
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build analytics")
	}
}

// GetChannel handles GET /api/analytics/channels/:channelId
func (h *AnalyticsHandler) GetChannel(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	res, err := h.svc.ChannelAnalytics(c.Context(), channelID, parseRangeSelector(c))
	if err != nil {
		return analyticsError(c, err)
	}
	Metrics.ViewsServed.WithLabelValues(string(model.ScopeSingle)).Inc()
	recordSynthesis(res.Totals)
	return c.JSON(res)
}

// recordSynthesis counts sections present in the bundle that the backend did
// not supply. A section listed unavailable but populated was synthesized.
func recordSynthesis(b model.AnalyticsBundle) {
	present := map[string]bool{
		model.SectionEngagement:   b.Engagement != nil,
		model.SectionTraffic:      b.Traffic != nil,
		model.SectionDevices:      b.Devices != nil,
		model.SectionDemographics: b.Demographics != nil,
		model.SectionRetention:    b.Retention != nil,
		model.SectionVideos:       b.Videos != nil,
	}
	for _, section := range b.Meta.DataUnavailable {
		if present[section] {
			Metrics.SectionsSynthesized.WithLabelValues(section).Inc()
		}
	}
}

// GetGroup handles GET /api/analytics/groups/:groupId?mode=aggregate|compare
func (h *AnalyticsHandler) GetGroup(c fiber.Ctx) error {
	groupID, errMsg := middleware.ValidateGroupID(c.Params("groupId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	scope := model.ScopeAggregate
	switch mode := c.Query("mode", "aggregate"); mode {
	case "aggregate":
	case "compare":
		scope = model.ScopeCompare
	default:
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "mode must be aggregate or compare")
	}

	res, err := h.svc.GroupAnalytics(c.Context(), groupID, parseRangeSelector(c), scope)
	if err != nil {
		return analyticsError(c, err)
	}
	Metrics.ViewsServed.WithLabelValues(string(scope)).Inc()
	return c.JSON(res)
}

// GetBranch handles GET /api/analytics/branches/:branchId
func (h *AnalyticsHandler) GetBranch(c fiber.Ctx) error {
	branchID, errMsg := middleware.ValidateBranchID(c.Params("branchId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	res, err := h.svc.BranchAnalytics(c.Context(), branchID, parseRangeSelector(c))
	if err != nil {
		return analyticsError(c, err)
	}
	Metrics.ViewsServed.WithLabelValues(string(model.ScopeBranch)).Inc()
	return c.JSON(res)
}

// GetTeam handles GET /api/analytics/teams/:teamId
func (h *AnalyticsHandler) GetTeam(c fiber.Ctx) error {
	teamID, errMsg := middleware.ValidateTeamID(c.Params("teamId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	res, err := h.svc.TeamAnalytics(c.Context(), teamID, parseRangeSelector(c))
	if err != nil {
		return analyticsError(c, err)
	}
	Metrics.ViewsServed.WithLabelValues(string(model.ScopeTeam)).Inc()
	return c.JSON(res)
}

// Leaderboard handles GET /api/analytics/groups/:groupId/leaderboard?metric=&limit=
func (h *AnalyticsHandler) Leaderboard(c fiber.Ctx) error {
	groupID, errMsg := middleware.ValidateGroupID(c.Params("groupId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	metricKey, errMsg := middleware.ValidateMetricKey(c.Query("metric", "totalViews"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	limit, errMsg := middleware.ValidateLimit(c.Query("limit"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	entries, err := h.svc.Leaderboard(c.Context(), groupID, parseRangeSelector(c), metricKey, limit)
	if err != nil {
		return analyticsError(c, err)
	}
	if entries == nil {
		entries = []service.RankEntry{}
	}
	return c.JSON(fiber.Map{
		"metric":  metricKey,
		"entries": entries,
	})
}
