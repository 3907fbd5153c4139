package tracking

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

func orderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "order_id must be an integer"}})
		return 0, false
	}
	return id, true
}

func (h *Handler) StartTracking(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	result, err := h.service.StartTracking(c.Request.Context(), orderID, c.GetHeader("Authorization"))
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, StartTrackingResponse{
		Message:        "Tracking started",
		OrderID:        result.OrderID,
		DroneID:        result.DroneID,
		TotalWaypoints: result.TotalWaypoints,
	})
}

func (h *Handler) GetHistory(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	samples, err := h.service.History(c.Request.Context(), orderID)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	if samples == nil {
		samples = []PositionSample{}
	}
	c.JSON(http.StatusOK, samples)
}

func (h *Handler) GetLatest(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	latest, err := h.service.Latest(c.Request.Context(), orderID)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, latest)
}

func (h *Handler) GetRoute(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	route, err := h.service.Route(c.Request.Context(), orderID)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, route)
}

func (h *Handler) UpdatePosition(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req UpdatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	sample, err := h.service.UpdatePosition(c.Request.Context(), orderID, req.toUpdate())
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, UpdatePositionResponse{
		Message:    "Position updated",
		TrackingID: sample.ID,
	})
}
