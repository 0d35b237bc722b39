package api

import (
	"net/http"

	"alcyxob/sports-library/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	userService service.UserService,
	planService service.PlanService,
	trackService service.TrackService,
	backupService service.BackupService,
) {
	userHandler := NewUserHandler(userService)
	planHandler := NewPlanHandler(planService)
	trackHandler := NewTrackHandler(trackService)
	backupHandler := NewBackupHandler(backupService)

	router.Use(RequestLogger(logger))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/me", userHandler.GetMe)
		apiV1.PUT("/me", userHandler.UpdateMe)

		planGroup := apiV1.Group("/plans")
		{
			planGroup.GET("", planHandler.ListPlans)
			planGroup.GET("/:planId", planHandler.GetPlan)
			planGroup.DELETE("/:planId", planHandler.DeletePlan)
			planGroup.PUT("/:planId/start-date", planHandler.SetStartDate)
			planGroup.POST("/:planId/activate", planHandler.ActivatePlan)
			planGroup.POST("/:planId/units/:unitId/complete", planHandler.CompleteUnit)
		}

		trackGroup := apiV1.Group("/tracks")
		{
			trackGroup.GET("", trackHandler.ListTracks)
			trackGroup.GET("/:trackId", trackHandler.GetTrack)
			trackGroup.DELETE("/:trackId", trackHandler.DeleteTrack)
		}
		apiV1.GET("/trainings", trackHandler.ListTrainings)

		catalogGroup := apiV1.Group("/catalog")
		{
			catalogGroup.GET("/training-types", trackHandler.ListTrainingTypes)
			catalogGroup.GET("/movement-types", trackHandler.ListMovementTypes)
		}

		backupGroup := apiV1.Group("/backups")
		{
			backupGroup.POST("", backupHandler.CreateBackup)
			backupGroup.POST("/restore", backupHandler.RestoreBackup)
			backupGroup.DELETE("/*objectKey", backupHandler.DeleteBackup)
		}
	}
}
