package contact

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r gin.IRouter, handler *ContactHandler) {
	contactGroup := r.Group("/contacts")
	{
		contactGroup.GET("", handler.GetContacts)
		contactGroup.POST("", handler.CreateContact)
		contactGroup.DELETE("/:id", handler.DeleteContact)
	}
}
