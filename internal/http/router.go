package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", handler.healthz)
	router.POST("/auth/mobile-login", handler.mobileLogin)

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.GET("/roads", handler.listRoads)
		protected.GET("/roads/:id", handler.getRoad)
		protected.GET("/roads/:id/heatmap", handler.roadHeatmap)
		protected.GET("/roads/:id/consolidation/candidates", handler.consolidationCandidates)
		protected.POST("/roads/:id/consolidation", handler.consolidate)

		protected.POST("/visits", handler.createVisit)
		protected.GET("/visits/:id", handler.getVisit)
		protected.GET("/visits/:id/photos", handler.listVisitPhotos)
		protected.POST("/visits/:id/photos", handler.capturePhoto)

		protected.GET("/photos/:id", handler.getPhoto)
		protected.PATCH("/photos/:id", handler.patchPhoto)

		protected.POST("/reports", handler.createReport)
		protected.GET("/reports", handler.listReports)
		protected.GET("/reports/:id", handler.getReport)
		protected.POST("/reports/:id/submit", handler.submitReport)
		protected.POST("/reports/:id/approve", handler.approveReport)
		protected.POST("/reports/:id/reject", handler.rejectReport)
		protected.POST("/reports/:id/revision", handler.createRevision)
		protected.POST("/reports/:id/photos", handler.linkReportPhotos)
		protected.DELETE("/reports/:id/photos/:photoId", handler.unlinkReportPhoto)
		protected.GET("/reports/:id/status-log", handler.reportStatusLog)
		protected.GET("/reports/:id/sources", handler.reportSources)

		protected.GET("/catalog/defect-types", handler.listDefectTypes)
		protected.GET("/catalog/rds-occurrences", handler.listOccurrences)
	}

	return router
}
