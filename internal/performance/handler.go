package performance

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

func droneIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("drone_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "drone_id must be an integer"}})
		return 0, false
	}
	return id, true
}

func (h *Handler) GetPerformance(c *gin.Context) {
	droneID, ok := droneIDParam(c)
	if !ok {
		return
	}

	stats, err := h.service.Get(c.Request.Context(), droneID)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

type UpdatePerformanceRequest struct {
	DeliveriesCompleted int     `json:"deliveries_completed"`
	DistanceKM          float64 `json:"distance_km"`
	FlightTimeMinutes   int     `json:"flight_time_minutes"`
	Success             *bool   `json:"success"`
}

func (h *Handler) UpdatePerformance(c *gin.Context) {
	droneID, ok := droneIDParam(c)
	if !ok {
		return
	}

	var req UpdatePerformanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	result := FlightResult{
		DeliveriesCompleted: req.DeliveriesCompleted,
		DistanceKM:          req.DistanceKM,
		FlightTimeMinutes:   req.FlightTimeMinutes,
		Success:             true,
	}
	if req.Success != nil {
		result.Success = *req.Success
	}

	stats, err := h.service.RecordFlight(c.Request.Context(), droneID, result)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Performance updated",
		"performance": stats,
	})
}
