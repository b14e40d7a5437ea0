package controllers

import (
	"net/http"
	"strconv"

	"nutriguard/services"

	"github.com/gin-gonic/gin"
)

type AlertController struct {
	Alerts *services.AlertService
}

func NewAlertController(as *services.AlertService) *AlertController {
	return &AlertController{Alerts: as}
}

// GET /alerts?limit=50
func (ac *AlertController) ListAlerts(c *gin.Context) {
	uid := c.GetUint("userID")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	alerts, err := ac.Alerts.ListAlerts(c.Request.Context(), uid, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, alerts)
}
