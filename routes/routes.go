package routes

import (
	"nutriguard/controllers"
	"nutriguard/middlewares"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Meal     *controllers.MealController
	Risk     *controllers.RiskController
	Alert    *controllers.AlertController
	Device   *controllers.DeviceController
	Realtime *controllers.RealtimeController
}

func SetupRouter(cs Controllers) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	protected := r.Group("/")
	protected.Use(middlewares.AuthMiddleware())
	{
		protected.GET("/user/profile", controllers.GetProfile)
		protected.PUT("/user/profile", controllers.UpdateProfile)
		protected.GET("/user/goals", controllers.GetGoals)
		protected.PUT("/user/goals", controllers.UpdateGoals)

		protected.POST("/meals", cs.Meal.LogMeal)
		protected.GET("/meals", cs.Meal.ListMeals)
		protected.GET("/meals/recent", cs.Meal.RecentMeals)

		protected.POST("/risk/check", cs.Risk.CheckFood)

		protected.GET("/alerts", cs.Alert.ListAlerts)
		protected.POST("/devices", cs.Device.Register)
		protected.GET("/ws/alerts", cs.Realtime.AlertsWS)
	}

	return r
}
