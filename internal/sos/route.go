package sos

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the bulk SMS trigger and the dispatch log view.
// moderate guards the log view.
func RegisterRoutes(r gin.IRouter, handler *SOSHandler, moderate ...gin.HandlerFunc) {
	incidentGroup := r.Group("/incidents")
	{
		incidentGroup.POST("/sos/send-sms", handler.SendSOSSMS)
		incidentGroup.GET("/:id/dispatches", append(append([]gin.HandlerFunc{}, moderate...), handler.GetDispatchLogs)...)
	}
}
