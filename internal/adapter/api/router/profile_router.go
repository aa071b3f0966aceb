package router

import (
	"github.com/labstack/echo/v4"

	"greentask/internal/adapter/api/handler"
	"greentask/internal/adapter/api/middleware"
)

func SetupProfileRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	profileHandler := handler.GetProfileHandler()

	e.GET("/v1/levels", profileHandler.GetLevels)

	profile := e.Group("/v1/profile")
	profile.Use(authMiddleware.Authenticate)

	profile.GET("", profileHandler.GetProfile)
	profile.PATCH("", profileHandler.UpdateProfile)
	profile.POST("/xp", profileHandler.IncreaseXp)
	profile.POST("/achievements", profileHandler.AddAchievement)
	profile.POST("/badges", profileHandler.AddBadge)
	profile.POST("/streak", profileHandler.UpdateStreak)
	profile.POST("/tasks", profileHandler.CompleteTask)
}
