package sos

import (
	"context"
	"net/http"

	"rakshak-service/helper"
	"rakshak-service/internal/models"

	"github.com/gin-gonic/gin"
)

type SendSOSSMSRequest struct {
	IncidentID string `json:"incidentId" binding:"required"`
	UserID     string `json:"userId"`
}

// BulkSender is the part of the orchestrator the HTTP layer needs.
type BulkSender interface {
	SendSOSSMS(ctx context.Context, incidentID, tenant string) (*BulkResult, error)
	DispatchLogs(ctx context.Context, incidentID string) ([]*models.DispatchLog, error)
}

type SOSHandler struct {
	sender        BulkSender
	defaultTenant string
}

func NewSOSHandler(sender BulkSender, defaultTenant string) *SOSHandler {
	return &SOSHandler{
		sender:        sender,
		defaultTenant: defaultTenant,
	}
}

func (h *SOSHandler) SendSOSSMS(c *gin.Context) {

	var req SendSOSSMSRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	tenant := req.UserID
	if tenant == "" {
		tenant = h.defaultTenant
	}

	result, err := h.sender.SendSOSSMS(c, req.IncidentID, tenant)
	if err != nil {
		helper.SendAppError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", result)

}

func (h *SOSHandler) GetDispatchLogs(c *gin.Context) {

	logs, err := h.sender.DispatchLogs(c, c.Param("id"))
	if err != nil {
		helper.SendAppError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", logs)

}
