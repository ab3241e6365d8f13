package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/tubepulse/tubepulse-go/internal/middleware"
	"github.com/tubepulse/tubepulse-go/internal/model"
	"github.com/tubepulse/tubepulse-go/internal/service"
)

type ExportHandler struct {
	svc    *service.AnalyticsService
	export *service.ExportService
}

func NewExportHandler(svc *service.AnalyticsService, export *service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc, export: export}
}

// ExportChannel handles GET /api/analytics/channels/:channelId/export
// format=summary (default) renders one totals row; format=daily renders the
// per-day series.
func (h *ExportHandler) ExportChannel(c fiber.Ctx) error {
	channelID, errMsg := middleware.ValidateChannelID(c.Params("channelId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	res, err := h.svc.ChannelAnalytics(c.Context(), channelID, parseRangeSelector(c))
	if err != nil {
		return analyticsError(c, err)
	}

	switch format := c.Query("format", "summary"); format {
	case "summary":
		return h.sendCSV(c, "channel-"+channelID, *res)
	case "daily":
		start := time.Now()
		csv, err := h.export.DailyCSV(res.Totals)
		if err != nil {
			return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render export")
		}
		Metrics.ExportDuration.Observe(time.Since(start).Seconds())
		return sendAttachment(c, csvFilename("channel-"+channelID+"-daily", res.Range), csv)
	default:
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "format must be summary or daily")
	}
}

// ExportGroup handles GET /api/analytics/groups/:groupId/export
// mode=compare renders one row per channel; mode=aggregate one summed row.
func (h *ExportHandler) ExportGroup(c fiber.Ctx) error {
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
	return h.sendCSV(c, "group-"+groupID, *res)
}

// ExportBranch handles GET /api/analytics/branches/:branchId/export
func (h *ExportHandler) ExportBranch(c fiber.Ctx) error {
	branchID, errMsg := middleware.ValidateBranchID(c.Params("branchId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	res, err := h.svc.BranchAnalytics(c.Context(), branchID, parseRangeSelector(c))
	if err != nil {
		return analyticsError(c, err)
	}
	return h.sendCSV(c, "branch-"+branchID, *res)
}

// ExportTeam handles GET /api/analytics/teams/:teamId/export
func (h *ExportHandler) ExportTeam(c fiber.Ctx) error {
	teamID, errMsg := middleware.ValidateTeamID(c.Params("teamId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	res, err := h.svc.TeamAnalytics(c.Context(), teamID, parseRangeSelector(c))
	if err != nil {
		return analyticsError(c, err)
	}
	return h.sendCSV(c, "team-"+teamID, *res)
}

func (h *ExportHandler) sendCSV(c fiber.Ctx, name string, res model.AggregateResult) error {
	start := time.Now()
	csv, err := h.export.ResultCSV(res)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render export")
	}
	Metrics.ExportDuration.Observe(time.Since(start).Seconds())
	return sendAttachment(c, csvFilename(name, res.Range), csv)
}

func csvFilename(name string, rng model.DateRange) string {
	return "tubepulse-" + name + "-" + rng.Start + "-" + rng.End + ".csv"
}

func sendAttachment(c fiber.Ctx, filename, body string) error {
	c.Set("Content-Type", "text/csv; charset=utf-8")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.SendString(body)
}
