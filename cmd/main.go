package main

import (
	"os"

	"nutriguard/config"
	"nutriguard/controllers"
	"nutriguard/risk"
	"nutriguard/routes"
	"nutriguard/services"
	"nutriguard/utils"

	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()
	config.InitDB()
	utils.InitMailer()

	logger := config.NewLogger()
	defer logger.Sync()

	hub := services.NewRealtimeHub()
	push, err := services.NewPushService(config.DB, logger)
	if err != nil {
		logger.Fatal("push service init failed", zap.Error(err))
	}
	alerts := services.NewAlertService(config.DB, hub, push, logger)
	alerts.EmailEnabled = os.Getenv("SES_EMAIL") != ""

	var analyzer risk.IngredientAnalyzer
	if url := os.Getenv("INGREDIENT_API_URL"); url != "" {
		analyzer = services.NewIngredientService(url)
	}

	engine := risk.NewEngine(risk.Config{
		Analyzer: analyzer,
		History:  services.NewHistoryService(config.DB),
		Notifier: alerts,
		Logger:   logger,
	})

	meals := services.NewMealService(config.DB, engine, logger)

	r := routes.SetupRouter(routes.Controllers{
		Meal:     controllers.NewMealController(meals),
		Risk:     controllers.NewRiskController(meals),
		Alert:    controllers.NewAlertController(alerts),
		Device:   controllers.NewDeviceController(push),
		Realtime: controllers.NewRealtimeController(hub),
	})
	r.Run(":8080")
}
