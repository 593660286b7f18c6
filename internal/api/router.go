package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/d60-Lab/vidtube/docs"
	"github.com/d60-Lab/vidtube/internal/api/handler"
	"github.com/d60-Lab/vidtube/internal/api/middleware"
	"github.com/d60-Lab/vidtube/internal/service"
)

// NewRouter 组装路由；sentryEnabled 为 false 时不挂 sentry 中间件
func NewRouter(h *handler.Handler, auth service.AuthService, debug, sentryEnabled bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(otelgin.Middleware("vidtube"))
	if sentryEnabled {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Use(middleware.RateLimit(5, 10))
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.RefreshToken)
		authGroup.POST("/logout", middleware.RequireAuth(auth), h.Logout)
		authGroup.PUT("/password", middleware.RequireAuth(auth), h.ChangePassword)
		authGroup.GET("/me", middleware.RequireAuth(auth), h.CurrentUser)
		authGroup.PUT("/me", middleware.RequireAuth(auth), h.UpdateAccount)
	}

	// 关系链：toggle 必须登录，列表读取公开
	v1.POST("/likes/:kind/:target_id", middleware.RequireAuth(auth), h.ToggleLike)
	v1.GET("/likes/videos", middleware.RequireAuth(auth), h.LikedVideos)
	v1.POST("/subscriptions/:channel_id", middleware.RequireAuth(auth), h.ToggleSubscription)
	v1.GET("/subscriptions/:channel_id/subscribers", h.ListSubscribers)
	v1.GET("/users/:user_id/subscriptions", h.ListSubscribedChannels)

	// 视图
	v1.GET("/channels/:username", middleware.OptionalAuth(auth), h.ChannelProfile)
	v1.GET("/users/:user_id/tweets", h.TweetFeed)
	v1.GET("/users/:user_id/videos", middleware.OptionalAuth(auth), h.ChannelVideos)
	v1.GET("/history", middleware.RequireAuth(auth), h.WatchHistory)

	// 内容
	v1.POST("/videos", middleware.RequireAuth(auth), h.PublishVideo)
	v1.GET("/videos/:video_id", middleware.OptionalAuth(auth), h.WatchVideo)
	v1.PUT("/videos/:video_id", middleware.RequireAuth(auth), h.UpdateVideo)
	v1.PATCH("/videos/:video_id/publish", middleware.RequireAuth(auth), h.TogglePublish)
	v1.DELETE("/videos/:video_id", middleware.RequireAuth(auth), h.DeleteVideo)
	v1.GET("/videos/:video_id/comments", h.VideoComments)
	v1.POST("/videos/:video_id/comments", middleware.RequireAuth(auth), h.AddComment)
	v1.POST("/tweets", middleware.RequireAuth(auth), h.CreateTweet)
	v1.PUT("/tweets/:tweet_id", middleware.RequireAuth(auth), h.UpdateTweet)
	v1.DELETE("/tweets/:tweet_id", middleware.RequireAuth(auth), h.DeleteTweet)
	v1.PUT("/comments/:comment_id", middleware.RequireAuth(auth), h.UpdateComment)
	v1.DELETE("/comments/:comment_id", middleware.RequireAuth(auth), h.DeleteComment)

	return r
}
