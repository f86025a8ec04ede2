package router

import (
	"streamhub/internal/api/handler"
	"streamhub/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Setup 注册所有业务路由
func Setup(
	r *gin.Engine,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	videoHandler *handler.VideoHandler,
	likeHandler *handler.LikeHandler,
	subscriptionHandler *handler.SubscriptionHandler,
) {
	v1 := r.Group("/api/v1")

	// --- 用户模块 ---
	users := v1.Group("/users")
	{
		users.POST("/register", authHandler.Register)
		users.POST("/login", authHandler.Login)
		users.POST("/refresh-token", authHandler.RefreshToken)

		usersAuth := users.Group("", middleware.AuthRequired())
		{
			usersAuth.POST("/logout", authHandler.Logout)
			usersAuth.POST("/change-password", authHandler.ChangePassword)
			usersAuth.GET("/current-user", authHandler.CurrentUser)
			usersAuth.PUT("/update-account", userHandler.UpdateAccount)
			usersAuth.PATCH("/avatar", userHandler.UpdateAvatar)
			usersAuth.GET("/c/:username", userHandler.GetChannelProfile)
			usersAuth.GET("/history", userHandler.GetWatchHistory)
		}
	}

	// --- 视频模块 ---
	videos := v1.Group("/videos")
	{
		// 公开接口，登录用户附带点赞/订阅状态
		videos.GET("", middleware.OptionalAuth(), videoHandler.List)
		videos.GET("/:videoId", middleware.OptionalAuth(), videoHandler.GetDetail)
		videos.POST("/:videoId/view", middleware.OptionalAuth(), videoHandler.IncrementView)

		videosAuth := videos.Group("", middleware.AuthRequired())
		{
			videosAuth.POST("", videoHandler.Upload)
			videosAuth.DELETE("/:videoId", videoHandler.Delete)
		}
	}

	// --- 点赞模块 ---
	likes := v1.Group("/like", middleware.AuthRequired())
	{
		likes.PUT("/:videoId", likeHandler.Set)
		likes.PATCH("/:videoId", likeHandler.Toggle)
		likes.DELETE("/:videoId", likeHandler.Unlike)
	}

	// --- 订阅模块 ---
	subscribe := v1.Group("/subscribe", middleware.AuthRequired())
	{
		subscribe.POST("", subscriptionHandler.Subscribe)
		subscribe.DELETE("/:channelId", subscriptionHandler.Unsubscribe)
	}

	subscriptions := v1.Group("/subscriptions", middleware.AuthRequired())
	{
		subscriptions.GET("/total/:channelId", subscriptionHandler.Total)
		subscriptions.GET("/status/:channelId", subscriptionHandler.Status)
	}
}
