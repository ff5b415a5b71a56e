package httpapi

import (
	"callintake-platform/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func RegisterRoutes(r *gin.Engine, h Handlers, authMW gin.HandlerFunc) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")

	// AUTH routes (token issuance), public by nature.
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
	}

	// Everything else requires a verified access token.
	protected := v1.Group("")
	protected.Use(authMW)
	{
		// RECORDINGS: agents upload and track, reviewers browse for work.
		recs := protected.Group("/recordings")
		recs.Use(rbac.RequireAnyRole(rbac.RoleAgent, rbac.RoleReviewer))
		{
			recs.POST("", h.Upload)
			recs.GET("", h.ListRecordings)
			recs.GET("/:id", h.GetRecording)
			recs.GET("/:id/audio", h.DownloadAudio)
			recs.GET("/:id/extraction", h.GetExtraction)
			recs.POST("/:id/reprocess", h.Reprocess)
		}

		// REVIEW: decision endpoints are reviewer-only (admin bypasses).
		exts := protected.Group("/extractions")
		exts.Use(rbac.RequireAnyRole(rbac.RoleReviewer))
		{
			exts.POST("/:id/approve", h.Approve)
			exts.POST("/:id/reject", h.Reject)
		}

		// CLIENTS: the committed output of the funnel.
		cls := protected.Group("/clients")
		cls.Use(rbac.RequireAnyRole(rbac.RoleReviewer))
		{
			cls.GET("", h.ListClients)
		}

		// REPORTS: funnel aggregates for reviewers and admins.
		reports := protected.Group("/reports")
		reports.Use(rbac.RequireAnyRole(rbac.RoleReviewer))
		{
			reports.GET("/funnel", h.FunnelReport)
		}

		// EVENTS: per-user SSE stream; any authenticated role.
		protected.GET("/events", h.Events)
	}
}
