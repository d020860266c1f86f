package incident

import (
	"github.com/gin-gonic/gin"
)

// Guards are the per-route middleware chains. Empty chains leave a route
// open. Report does not apply to SOS, which is never throttled.
type Guards struct {
	Report   []gin.HandlerFunc
	Moderate []gin.HandlerFunc
	Admin    []gin.HandlerFunc
}

func RegisterRoutes(r gin.IRouter, handler *IncidentHandler, guards Guards) {
	incidentGroup := r.Group("/incidents")
	{
		incidentGroup.GET("", handler.GetIncidents)
		incidentGroup.GET("/:id", handler.GetIncident)
		incidentGroup.POST("", chain(guards.Report, handler.CreateIncident)...)
		incidentGroup.POST("/sos", handler.CreateSOS)
		incidentGroup.PATCH("/:id", chain(guards.Moderate, handler.UpdateIncident)...)
		incidentGroup.DELETE("/:id", chain(guards.Admin, handler.DeleteIncident)...)
	}

	r.GET("/stats", handler.GetStats)
}

func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, h)
}
