package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inspection-service/internal/http/middleware"
	"inspection-service/internal/model"
	"inspection-service/internal/service"
)

func (h *Handler) createReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		VisitID  string   `json:"visit_id" binding:"required"`
		Kind     string   `json:"kind" binding:"required"`
		PhotoIDs []string `json:"photo_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	visitID, err := uuid.Parse(strings.TrimSpace(req.VisitID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid visit_id"))
		return
	}
	photoIDs, err := parseUUIDs(req.PhotoIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid photo_ids"))
		return
	}

	record, err := h.reportService.Create(c.Request.Context(), principal, service.CreateReportInput{
		VisitID:  visitID,
		Kind:     model.ReportKind(strings.ToUpper(strings.TrimSpace(req.Kind))),
		PhotoIDs: photoIDs,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(record))
}

func (h *Handler) listReports(c *gin.Context) {
	opts, err := parseReportQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	records, err := h.reportService.List(c.Request.Context(), opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": records}))
}

func (h *Handler) getReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	record, err := h.reportService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(record))
}

func (h *Handler) submitReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.reportService.SubmitForReview(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"status": "submitted"}))
}

func (h *Handler) approveReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.reportService.Approve(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"status": "approved"}))
}

func (h *Handler) rejectReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	if err := h.reportService.Reject(c.Request.Context(), principal, id, req.Reason); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"status": "rejected"}))
}

func (h *Handler) createRevision(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	record, err := h.reportService.CreateRevision(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(record))
}

func (h *Handler) linkReportPhotos(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		PhotoIDs []string `json:"photo_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	photoIDs, err := parseUUIDs(req.PhotoIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid photo_ids"))
		return
	}

	if err := h.reportService.LinkPhotos(c.Request.Context(), principal, id, photoIDs); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"status": "linked"}))
}

func (h *Handler) unlinkReportPhoto(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	photoID, ok := parseID(c, "photoId")
	if !ok {
		return
	}

	if err := h.reportService.UnlinkPhoto(c.Request.Context(), principal, id, photoID); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"status": "unlinked"}))
}

func (h *Handler) reportStatusLog(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	entries, err := h.reportService.StatusLog(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": entries}))
}

func (h *Handler) reportSources(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	records, err := h.reportService.SourceReports(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": records}))
}

func parseReportQuery(c *gin.Context) (service.ListReportsOptions, error) {
	var opts service.ListReportsOptions

	if roadID := strings.TrimSpace(c.Query("road_id")); roadID != "" {
		id, err := uuid.Parse(roadID)
		if err != nil {
			return opts, err
		}
		opts.RoadID = &id
	}
	if segmentID := strings.TrimSpace(c.Query("segment_id")); segmentID != "" {
		id, err := uuid.Parse(segmentID)
		if err != nil {
			return opts, err
		}
		opts.SegmentID = &id
	}
	if kindParam := c.Query("kind"); kindParam != "" {
		for _, val := range splitCSV(kindParam) {
			opts.Kinds = append(opts.Kinds, model.ReportKind(strings.ToUpper(val)))
		}
	}
	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			opts.Statuses = append(opts.Statuses, model.ReportStatus(strings.ToUpper(val)))
		}
	}
	if scopeParam := strings.TrimSpace(c.Query("scope")); scopeParam != "" {
		scope := model.ReportScope(strings.ToUpper(scopeParam))
		opts.Scope = &scope
	}
	opts.Limit = parseIntQuery(c, "limit")
	opts.Offset = parseIntQuery(c, "offset")

	return opts, nil
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, val := range raw {
		id, err := uuid.Parse(strings.TrimSpace(val))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
