package schedule

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vetbook/booking-api/internal/handler"
	"github.com/vetbook/booking-api/internal/middleware"
	"github.com/vetbook/booking-api/internal/model"
	"github.com/vetbook/booking-api/internal/service/schedule"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service *schedule.Service
}

func NewHandler(service *schedule.Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the read side of the schedule. Slot
// discovery is open so prospective clients can browse before signing in.
func (h *Handler) RegisterPublicRoutes(r gin.IRouter) {
	r.GET("/slots", h.GetAvailableSlots)
	r.GET("/clinics/:id/hours", h.ListOperatingHours)
}

func (h *Handler) RegisterProtectedRoutes(r gin.IRouter) {
	r.PUT("/clinics/:id/hours", h.ReplaceOperatingHours)
}

func (h *Handler) GetAvailableSlots(c *gin.Context) {
	clinicID, err := uuid.Parse(c.Query("clinic_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid clinic ID"))
		return
	}

	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid date, expected YYYY-MM-DD"))
		return
	}

	var vetID *uuid.UUID
	if id := c.Query("veterinarian_id"); id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid veterinarian ID"))
			return
		}
		vetID = &parsed
	}

	slots, err := h.service.GetAvailableSlots(c.Request.Context(), clinicID, date, vetID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"clinic_id": clinicID,
		"date":      date.Format(dateLayout),
		"slots":     slots,
	}))
}

func (h *Handler) ListOperatingHours(c *gin.Context) {
	clinicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid clinic ID"))
		return
	}

	hours, err := h.service.ListOperatingHours(c.Request.Context(), clinicID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(hours))
}

func (h *Handler) ReplaceOperatingHours(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	clinicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid clinic ID"))
		return
	}

	var req model.ReplaceOperatingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	hours, err := h.service.ReplaceOperatingHours(c.Request.Context(), actor, clinicID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(hours))
}
