package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"inspection-service/internal/service"
)

type Handler struct {
	authService          *service.AuthService
	reportService        *service.ReportService
	photoService         *service.PhotoService
	consolidationService *service.ConsolidationService
	heatmapService       *service.HeatmapService
	catalogService       *service.CatalogService
	roadService          *service.RoadService
	health               func(context.Context) error
	log                  zerolog.Logger
}

func NewHandler(
	authService *service.AuthService,
	reportService *service.ReportService,
	photoService *service.PhotoService,
	consolidationService *service.ConsolidationService,
	heatmapService *service.HeatmapService,
	catalogService *service.CatalogService,
	roadService *service.RoadService,
	health func(context.Context) error,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		authService:          authService,
		reportService:        reportService,
		photoService:         photoService,
		consolidationService: consolidationService,
		heatmapService:       heatmapService,
		catalogService:       catalogService,
		roadService:          roadService,
		health:               health,
		log:                  log,
	}
}

func (h *Handler) healthz(c *gin.Context) {
	if h.health != nil {
		if err := h.health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var ineligible *service.IneligibleSourceError
	if errors.As(err, &ineligible) {
		c.JSON(http.StatusConflict, gin.H{
			"error":      "ineligible consolidation sources",
			"report_ids": ineligible.ReportIDs,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorResponse(err.Error()))
	case errors.Is(err, service.ErrPermissionDenied),
		errors.Is(err, service.ErrPhotoLocked):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrStaleState):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrEmptyReport),
		errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(param)))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid "+param))
		return uuid.Nil, false
	}
	return id, true
}

func parseIntQuery(c *gin.Context, name string) int {
	if raw := strings.TrimSpace(c.Query(name)); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return 0
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

type responseEnvelope struct {
	Data interface{} `json:"data"`
}

func successResponse(data interface{}) responseEnvelope {
	return responseEnvelope{Data: data}
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}
