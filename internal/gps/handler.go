package gps

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"drone-tracking/internal/pkg/apperrors"
)

const defaultReportLimit = 10

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type LogAccuracyRequest struct {
	DroneID        int64   `json:"drone_id" binding:"required"`
	Latitude       float64 `json:"latitude" binding:"required"`
	Longitude      float64 `json:"longitude" binding:"required"`
	AccuracyMeters float64 `json:"accuracy_meters" binding:"required"`
	SatelliteCount int     `json:"satellite_count" binding:"required"`
}

func (h *Handler) LogAccuracy(c *gin.Context) {
	var req LogAccuracyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	sample := &AccuracySample{
		DroneID:        req.DroneID,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		AccuracyMeters: req.AccuracyMeters,
		SatelliteCount: req.SatelliteCount,
	}
	if err := h.service.Log(c.Request.Context(), sample); err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "GPS accuracy logged"})
}

func (h *Handler) GetAccuracy(c *gin.Context) {
	droneID, err := strconv.ParseInt(c.Param("drone_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "drone_id must be an integer"}})
		return
	}

	limit := defaultReportLimit
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "limit must be a positive integer"}})
			return
		}
		limit = parsed
	}

	report, err := h.service.Report(c.Request.Context(), droneID, limit)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
