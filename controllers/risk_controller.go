package controllers

import (
	"net/http"

	"nutriguard/services"

	"github.com/gin-gonic/gin"
)

type RiskController struct {
	Meals *services.MealService
}

func NewRiskController(ms *services.MealService) *RiskController {
	return &RiskController{Meals: ms}
}

// POST /risk/check: evaluate a food against the caller's profile without
// logging anything.
func (rc *RiskController) CheckFood(c *gin.Context) {
	uid := c.GetUint("userID")

	var item services.MealItemRequest
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := rc.Meals.CheckFood(c.Request.Context(), uid, item)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
