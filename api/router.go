// api/router.go

package api

import (
	"github.com/gin-gonic/gin"

	"followme/internal/handlers"
	"followme/middleware"
)

func SetupRouter(followMeHandler *handlers.FollowMeHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	// 使用CORS中间件
	router.Use(middleware.Cors())

	api := router.Group("/api")
	{
		// 只编码，不发送
		api.POST("/encode", followMeHandler.Encode)
		// 传感器读数
		api.POST("/temperature", followMeHandler.SetTemperature)
		// 启用/停用
		api.POST("/enabled", followMeHandler.SetEnabled)
		// 立即发送
		api.POST("/refresh", followMeHandler.Refresh)

		api.GET("/status", followMeHandler.GetStatus)
		api.GET("/metrics", followMeHandler.GetMetrics)
		api.GET("/transmissions", followMeHandler.GetTransmissions)
		api.GET("/transmissions/report", followMeHandler.ExportTransmissions)

		// 设备选项
		api.GET("/options", followMeHandler.GetOptions)
		api.PUT("/options", followMeHandler.UpdateOptions)
	}

	return router
}
