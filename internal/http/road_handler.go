package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inspection-service/internal/http/middleware"
	"inspection-service/internal/model"
	"inspection-service/internal/service"
)

func (h *Handler) listRoads(c *gin.Context) {
	roads, err := h.roadService.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": roads}))
}

func (h *Handler) getRoad(c *gin.Context) {
	roadID, ok := parseID(c, "id")
	if !ok {
		return
	}

	road, err := h.roadService.Get(c.Request.Context(), roadID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(road))
}

func (h *Handler) createVisit(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		SegmentID string `json:"segment_id" binding:"required"`
		VisitedAt string `json:"visited_at"`
		Notes     string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	segmentID, err := uuid.Parse(strings.TrimSpace(req.SegmentID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid segment_id"))
		return
	}
	var visitedAt time.Time
	if raw := strings.TrimSpace(req.VisitedAt); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid visited_at"))
			return
		}
		visitedAt = ts
	}

	visit, err := h.roadService.CreateVisit(c.Request.Context(), principal, service.CreateVisitInput{
		SegmentID: segmentID,
		VisitedAt: visitedAt,
		Notes:     req.Notes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(visit))
}

func (h *Handler) getVisit(c *gin.Context) {
	visitID, ok := parseID(c, "id")
	if !ok {
		return
	}

	visit, err := h.roadService.GetVisit(c.Request.Context(), visitID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(visit))
}

func (h *Handler) consolidationCandidates(c *gin.Context) {
	roadID, ok := parseID(c, "id")
	if !ok {
		return
	}
	kind := model.ReportKind(strings.ToUpper(strings.TrimSpace(c.Query("kind"))))

	groups, err := h.consolidationService.EligibleCandidates(c.Request.Context(), roadID, kind)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": groups}))
}

func (h *Handler) consolidate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	roadID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Kind      string   `json:"kind" binding:"required"`
		ReportIDs []string `json:"report_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	reportIDs, err := parseUUIDs(req.ReportIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid report_ids"))
		return
	}

	record, err := h.consolidationService.Consolidate(
		c.Request.Context(),
		principal,
		roadID,
		model.ReportKind(strings.ToUpper(strings.TrimSpace(req.Kind))),
		reportIDs,
	)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(record))
}

func (h *Handler) roadHeatmap(c *gin.Context) {
	roadID, ok := parseID(c, "id")
	if !ok {
		return
	}

	points, err := h.heatmapService.RoadHeatmap(c.Request.Context(), roadID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"points": points}))
}

func (h *Handler) listDefectTypes(c *gin.Context) {
	entries, err := h.catalogService.DefectTypes(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": entries}))
}

func (h *Handler) listOccurrences(c *gin.Context) {
	entries, err := h.catalogService.Occurrences(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": entries}))
}
