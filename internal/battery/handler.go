package battery

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

type LogReadingRequest struct {
	DroneID          int64    `json:"drone_id" binding:"required"`
	BatteryLevel     *float64 `json:"battery_level" binding:"required"`
	Voltage          *float64 `json:"voltage"`
	Temperature      *float64 `json:"temperature"`
	HealthPercentage *float64 `json:"health_percentage"`
	ChargeCycles     *int     `json:"charge_cycles"`
}

func (h *Handler) LogReading(c *gin.Context) {
	var req LogReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	reading := &Reading{
		DroneID:          req.DroneID,
		BatteryLevel:     *req.BatteryLevel,
		Voltage:          req.Voltage,
		Temperature:      req.Temperature,
		HealthPercentage: req.HealthPercentage,
		ChargeCycles:     req.ChargeCycles,
	}
	if err := h.service.Log(c.Request.Context(), reading); err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Battery reading logged", "reading_id": reading.ID})
}

func (h *Handler) GetHealth(c *gin.Context) {
	droneID, err := strconv.ParseInt(c.Param("drone_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "drone_id must be an integer"}})
		return
	}

	report, err := h.service.Health(c.Request.Context(), droneID)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
