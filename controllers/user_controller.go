package controllers

import (
	"net/http"

	"nutriguard/services"

	"github.com/gin-gonic/gin"
)

func GetProfile(c *gin.Context) {
	uid := c.GetUint("userID")

	profile, err := services.GetUserProfile(uid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func UpdateProfile(c *gin.Context) {
	uid := c.GetUint("userID")

	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.UpdateUserProfile(uid, input); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

func GetGoals(c *gin.Context) {
	uid := c.GetUint("userID")

	goal, err := services.GetGoals(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, goal)
}

func UpdateGoals(c *gin.Context) {
	uid := c.GetUint("userID")

	var req struct {
		Calories float64 `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
		Sodium   float64 `json:"sodium"`
		Sugar    float64 `json:"sugar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.UpsertGoals(uid, req.Calories, req.Protein, req.Carbs, req.Fat, req.Sodium, req.Sugar); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
