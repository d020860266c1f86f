package contact

import (
	"net/http"

	"rakshak-service/helper"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactService ContactService
	defaultTenant  string
}

func NewContactHandler(contactService ContactService, defaultTenant string) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		defaultTenant:  defaultTenant,
	}
}

func (h *ContactHandler) tenant(userID string) string {
	if userID == "" {
		return h.defaultTenant
	}
	return userID
}

func (h *ContactHandler) GetContacts(c *gin.Context) {

	contacts, err := h.contactService.List(c, h.tenant(c.Query("userId")))
	if err != nil {
		helper.SendAppError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", contacts)

}

func (h *ContactHandler) CreateContact(c *gin.Context) {

	var req CreateContactRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	contact, err := h.contactService.Create(c, h.tenant(req.UserID), &req)
	if err != nil {
		helper.SendAppError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusCreated, "success", contact)

}

func (h *ContactHandler) DeleteContact(c *gin.Context) {

	err := h.contactService.Delete(c, h.tenant(c.Query("userId")), c.Param("id"))
	if err != nil {
		helper.SendAppError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "contact deleted successfully", nil)

}
