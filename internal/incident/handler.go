package incident

import (
	"fmt"
	"net/http"

	"rakshak-service/helper"
	"rakshak-service/internal/storage"

	"github.com/gin-gonic/gin"
)

type IncidentHandler struct {
	incidentService IncidentService
	defaultTenant   string
}

func NewIncidentHandler(incidentService IncidentService, defaultTenant string) *IncidentHandler {
	return &IncidentHandler{
		incidentService: incidentService,
		defaultTenant:   defaultTenant,
	}
}

func (h *IncidentHandler) GetIncidents(c *gin.Context) {

	filter := ListFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	}

	var err error
	if filter.Latitude, err = queryFloat(c, "latitude"); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}
	if filter.Longitude, err = queryFloat(c, "longitude"); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}
	if filter.Radius, err = queryFloat(c, "radius"); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	incidents, err := h.incidentService.List(c, filter)
	if err != nil {
		helper.SendAppError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", incidents)

}

func (h *IncidentHandler) GetIncident(c *gin.Context) {

	incident, err := h.incidentService.Get(c, c.Param("id"))
	if err != nil {
		helper.SendAppError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", incident)

}

func (h *IncidentHandler) CreateIncident(c *gin.Context) {

	var req CreateIncidentRequest

	if err := c.ShouldBind(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	image, closeImage, err := formImage(c)
	if err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}
	defer closeImage()

	incident, err := h.incidentService.Create(c, &req, image)
	if err != nil {
		helper.SendAppError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusCreated, "success", incident)

}

func (h *IncidentHandler) CreateSOS(c *gin.Context) {

	var req CreateIncidentRequest

	if err := c.ShouldBind(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	image, closeImage, err := formImage(c)
	if err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}
	defer closeImage()

	tenant := req.UserID.String()
	if tenant == "" {
		tenant = h.defaultTenant
	}

	incident, err := h.incidentService.CreateSOS(c, tenant, &req, image)
	if err != nil {
		helper.SendAppError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusCreated, "success", incident)

}

func (h *IncidentHandler) UpdateIncident(c *gin.Context) {

	var req UpdateIncidentRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	incident, err := h.incidentService.UpdateStatus(c, c.Param("id"), &req)
	if err != nil {
		helper.SendAppError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", incident)

}

func (h *IncidentHandler) DeleteIncident(c *gin.Context) {

	if err := h.incidentService.Delete(c, c.Param("id")); err != nil {
		helper.SendAppError(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "incident deleted successfully", nil)

}

func (h *IncidentHandler) GetStats(c *gin.Context) {

	stats, err := h.incidentService.Stats(c)
	if err != nil {
		helper.SendAppErrorWithData(c, err, stats)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", stats)

}

func queryFloat(c *gin.Context, key string) (*float64, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, nil
	}
	v, ok := FormValue(raw).Float()
	if !ok {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &v, nil
}

// formImage returns the optional "image" upload. A request that is not
// multipart, or carries no image part, yields nil.
func formImage(c *gin.Context) (*storage.File, func(), error) {
	noop := func() {}

	fh, err := c.FormFile("image")
	if err != nil {
		return nil, noop, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("read image: %w", err)
	}

	return &storage.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      f,
	}, func() { _ = f.Close() }, nil
}
