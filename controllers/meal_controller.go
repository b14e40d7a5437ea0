package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"nutriguard/services"

	"github.com/gin-gonic/gin"
)

type MealController struct {
	Meals *services.MealService
}

func NewMealController(ms *services.MealService) *MealController {
	return &MealController{Meals: ms}
}

type logMealRequest struct {
	Type  string                     `json:"type" binding:"required"`
	AteAt time.Time                  `json:"ate_at"`
	Items []services.MealItemRequest `json:"items" binding:"required,min=1"`
	Force bool                       `json:"force"`
}

// POST /meals: every item goes through the risk engine; items with an
// AVOID verdict block the log unless force is set.
func (mc *MealController) LogMeal(c *gin.Context) {
	uid := c.GetUint("userID")

	var body logMealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, analyses, err := mc.Meals.LogMeal(c.Request.Context(), uid, body.Type, body.AteAt, body.Items, body.Force)
	if err != nil {
		var unsafe *services.UnsafeFoodError
		if errors.As(err, &unsafe) {
			c.JSON(http.StatusConflict, gin.H{
				"error":    unsafe.Error(),
				"analyses": unsafe.Analyses,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"meal": meal, "analyses": analyses})
}

func (mc *MealController) ListMeals(c *gin.Context) {
	uid := c.GetUint("userID")

	meals, err := mc.Meals.ListMeals(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (mc *MealController) RecentMeals(c *gin.Context) {
	uid := c.GetUint("userID")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "3"))

	meals, err := mc.Meals.ListRecentMeals(c.Request.Context(), uid, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, meals)
}
