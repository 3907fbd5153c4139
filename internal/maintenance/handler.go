package maintenance

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"drone-tracking/internal/pkg/apperrors"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type ScheduleRequest struct {
	DroneID         int64     `json:"drone_id" binding:"required"`
	MaintenanceType string    `json:"maintenance_type" binding:"required"`
	ScheduledDate   time.Time `json:"scheduled_date" binding:"required"`
	Notes           *string   `json:"notes"`
	Cost            *float64  `json:"cost"`
}

func (h *Handler) Schedule(c *gin.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	in := ScheduleInput{
		DroneID:         req.DroneID,
		MaintenanceType: req.MaintenanceType,
		ScheduledDate:   req.ScheduledDate,
		Notes:           req.Notes,
		Cost:            req.Cost,
	}
	if userID := c.GetInt64("user_id"); userID != 0 {
		in.ScheduledBy = &userID
	}

	rec, err := h.service.Schedule(c.Request.Context(), in)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Maintenance scheduled", "maintenance": rec})
}

func (h *Handler) History(c *gin.Context) {
	droneID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "drone_id must be an integer"}})
		return
	}

	recs, err := h.service.History(c.Request.Context(), droneID)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"drone_id": droneID, "maintenance_history": recs})
}

type CompleteRequest struct {
	Notes *string  `json:"notes"`
	Cost  *float64 `json:"cost"`
}

func (h *Handler) Complete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "maintenance id must be an integer"}})
		return
	}

	// Empty body is fine here, the technician may have nothing to add.
	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	in := CompleteInput{ID: id, Notes: req.Notes, Cost: req.Cost}
	if userID := c.GetInt64("user_id"); userID != 0 {
		in.TechnicianID = &userID
	}

	rec, err := h.service.Complete(c.Request.Context(), in)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Maintenance completed", "maintenance": rec})
}
