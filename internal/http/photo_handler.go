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

func (h *Handler) capturePhoto(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}
	visitID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Kind       string   `json:"kind" binding:"required"`
		Latitude   *float64 `json:"latitude"`
		Longitude  *float64 `json:"longitude"`
		CapturedAt string   `json:"captured_at"`
		FileURL    string   `json:"file_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	var capturedAt time.Time
	if raw := strings.TrimSpace(req.CapturedAt); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid captured_at"))
			return
		}
		capturedAt = ts
	}

	photo, err := h.photoService.Capture(c.Request.Context(), principal, service.CapturePhotoInput{
		VisitID:    visitID,
		Kind:       model.PhotoKind(strings.ToUpper(strings.TrimSpace(req.Kind))),
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		CapturedAt: capturedAt,
		FileURL:    req.FileURL,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(photo))
}

func (h *Handler) getPhoto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	photo, err := h.photoService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(photo))
}

func (h *Handler) listVisitPhotos(c *gin.Context) {
	visitID, ok := parseID(c, "id")
	if !ok {
		return
	}

	photos, err := h.photoService.ListByVisit(c.Request.Context(), visitID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": photos}))
}

// patchPhoto applies a partial annotation update. Absent fields stay
// untouched; a locked photo answers 403.
func (h *Handler) patchPhoto(c *gin.Context) {
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
		Descricao       *string  `json:"descricao"`
		PatologiaID     *string  `json:"patologiaId"`
		RdsOcorrenciaID *string  `json:"rdsOcorrenciaId"`
		ExtensaoM       *float64 `json:"extensaoM"`
		LarguraM        *float64 `json:"larguraM"`
		Estaca          *string  `json:"estaca"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	update := service.AnnotationUpdate{
		Description: req.Descricao,
		ExtensionM:  req.ExtensaoM,
		WidthM:      req.LarguraM,
		Stake:       req.Estaca,
	}
	if req.PatologiaID != nil {
		defectID, err := uuid.Parse(strings.TrimSpace(*req.PatologiaID))
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid patologiaId"))
			return
		}
		update.DefectTypeID = &defectID
	}
	if req.RdsOcorrenciaID != nil {
		occurrenceID, err := uuid.Parse(strings.TrimSpace(*req.RdsOcorrenciaID))
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid rdsOcorrenciaId"))
			return
		}
		update.OccurrenceID = &occurrenceID
	}

	photo, err := h.photoService.EditAnnotation(c.Request.Context(), principal, id, update)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(photo))
}
