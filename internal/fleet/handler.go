package fleet

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

type ChangeStatusRequest struct {
	Status    string   `json:"status" binding:"required"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Reason    *string  `json:"reason"`
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	droneID, err := strconv.ParseInt(c.Param("drone_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "drone_id must be an integer"}})
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	in := ChangeStatusInput{
		DroneID:   droneID,
		Status:    Status(req.Status),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Reason:    req.Reason,
	}
	if userID := c.GetInt64("user_id"); userID != 0 {
		in.ChangedBy = &userID
	}

	rec, err := h.service.ChangeStatus(c.Request.Context(), in)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Drone status updated",
		"drone_id":        rec.DroneID,
		"status":          rec.Status,
		"previous_status": rec.PreviousStatus,
	})
}

func (h *Handler) StatusHistory(c *gin.Context) {
	droneID, err := strconv.ParseInt(c.Param("drone_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "drone_id must be an integer"}})
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "limit must be a positive integer"}})
			return
		}
		limit = parsed
	}

	recs, err := h.service.History(c.Request.Context(), droneID, limit)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"drone_id": droneID, "history": recs})
}

func (h *Handler) StatusSummary(c *gin.Context) {
	summaries, err := h.service.Summary(c.Request.Context())
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fleet_size": len(summaries), "drones": summaries})
}
