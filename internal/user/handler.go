package user

import (
	"errors"
	"net/http"

	"rakshak-service/helper"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService UserService
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) Login(c *gin.Context) {

	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	res, err := h.userService.Login(c, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			helper.SendError(c, http.StatusUnauthorized, err, helper.ErrUnauthorized)
			return
		}
		helper.SendAppError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", res)

}
