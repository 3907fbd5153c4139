package sim

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"drone-tracking/internal/pkg/apperrors"
)

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

func orderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "order_id must be an integer"}})
		return 0, false
	}
	return id, true
}

func (h *Handler) StartSimulation(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	run, err := h.manager.Start(c.Request.Context(), orderID)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Simulation started",
		"order_id": run.OrderID,
		"run_id":   run.ID.String(),
	})
}

func (h *Handler) StopSimulation(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	if err := h.manager.Stop(orderID); err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Simulation stopped",
		"order_id": orderID,
	})
}
