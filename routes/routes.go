package routes

import (
	"Playroom/controllers"
	"Playroom/middleware"
	"Playroom/services/lobby"
	utils "Playroom/utils"
	"time"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, svc *lobby.Service, jwtSecret string, tokenTTL time.Duration) {
	roomController := &controllers.RoomController{Service: svc}
	groupController := &controllers.GroupController{Service: svc}

	// utils global
	router.Use(utils.Logger())
	router.Use(utils.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.POST("/session", controllers.OpenSession(jwtSecret, tokenTTL))

	api.DELETE("/session", controllers.CloseSession)

	authenticated := api.Group("/")
	authenticated.Use(middleware.AuthRequired(jwtSecret))
	{
		rooms := authenticated.Group("/rooms")
		{
			rooms.POST("", roomController.CreateRoom)
			rooms.GET("", roomController.ListRooms)
			rooms.POST("/join", roomController.JoinRoom)
			rooms.GET("/code/:code", roomController.GetRoomByCode)
			rooms.GET("/:id", roomController.GetRoom)
			rooms.POST("/:id/leave", roomController.LeaveRoom)
			rooms.POST("/:id/ready", roomController.SetReady)
			rooms.POST("/:id/team", roomController.SetTeam)
			rooms.POST("/:id/start", roomController.StartRoom)
			rooms.POST("/:id/finish", roomController.FinishRoom)
			rooms.POST("/:id/heartbeat", roomController.Heartbeat)
		}

		groups := authenticated.Group("/groups")
		{
			groups.POST("", groupController.CreateGroup)
			groups.GET("", groupController.ListGroups)
			groups.POST("/join", groupController.JoinGroup)
			groups.GET("/code/:code", groupController.GetGroupByCode)
			groups.GET("/:id", groupController.GetGroup)
			groups.PATCH("/:id", groupController.UpdateGroup)
			groups.DELETE("/:id", groupController.DeleteGroup)
			groups.POST("/:id/leave", groupController.LeaveGroup)
		}
	}
}
