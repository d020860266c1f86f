package user

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r gin.IRouter, handler *UserHandler, limit ...gin.HandlerFunc) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", append(append([]gin.HandlerFunc{}, limit...), handler.Login)...)
	}
}
