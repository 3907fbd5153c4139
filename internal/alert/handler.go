package alert

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"drone-tracking/internal/pkg/apperrors"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListAlerts(c *gin.Context) {
	var resolved *bool
	if v := c.Query("resolved"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "resolved must be a boolean"}})
			return
		}
		resolved = &b
	}

	var severity *string
	if v := c.Query("severity"); v != "" {
		severity = &v
	}

	alerts, err := h.service.List(c.Request.Context(), resolved, severity)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	if alerts == nil {
		alerts = []Alert{}
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *Handler) ListDroneAlerts(c *gin.Context) {
	droneID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "drone_id must be an integer"}})
		return
	}

	alerts, err := h.service.ListByDrone(c.Request.Context(), droneID)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	if alerts == nil {
		alerts = []Alert{}
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *Handler) ResolveAlert(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "alert_id must be an integer"}})
		return
	}

	if err := h.service.Resolve(c.Request.Context(), id); err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alert resolved"})
}
