package router

import (
	"github.com/gin-gonic/gin"

	"campfire/internal/handler"
)

type Handlers struct {
	User         *handler.UserHandler
	Community    *handler.CommunityHandler
	Course       *handler.CourseHandler
	Chat         *handler.ChatHandler
	Notification *handler.NotificationHandler
}

func New(h Handlers, auth gin.HandlerFunc) *gin.Engine {
	r := gin.Default()

	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", h.User.Register)
		userGroup.POST("/login", h.User.Login)
		userGroup.POST("/reset-code", h.User.SendResetCode)
		userGroup.POST("/reset", h.User.ResetPassword)
	}

	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", h.User.TokenRefresh)
	}

	authGroup := r.Group("/api/auth")
	authGroup.Use(auth)
	{
		authGroup.POST("/logout", h.User.Logout)
		authGroup.POST("/change-password", h.User.ChangePassword)
		authGroup.GET("/subscription", h.User.Subscription)
	}

	communityGroup := r.Group("/api/community")
	communityGroup.Use(auth)
	{
		communityGroup.POST("/create", h.Community.Create)
		communityGroup.GET("/list", h.Community.List)
		communityGroup.POST("/:ref/join", h.Community.Join)
		communityGroup.POST("/:ref/leave", h.Community.Leave)
		communityGroup.GET("/:ref/courses", h.Course.ListByCommunity)

		communityGroup.POST("/:ref/chat", h.Chat.Send)
		communityGroup.GET("/:ref/chat", h.Chat.List)
		communityGroup.POST("/:ref/chat/read", h.Chat.MarkRead)
		communityGroup.GET("/:ref/chat/unread", h.Chat.UnreadCount)
	}

	courseGroup := r.Group("/api/course")
	courseGroup.Use(auth)
	{
		courseGroup.POST("/create", h.Course.CreateCourse)
		courseGroup.POST("/:id/enroll", h.Course.Enroll)
		courseGroup.POST("/:id/module", h.Course.CreateModule)
	}

	moduleGroup := r.Group("/api/module")
	moduleGroup.Use(auth)
	{
		moduleGroup.POST("/:id/lesson", h.Course.CreateLesson)
	}

	lessonGroup := r.Group("/api/lesson")
	lessonGroup.Use(auth)
	{
		lessonGroup.POST("/:id/progress", h.Course.UpdateProgress)
		lessonGroup.GET("/:id/progress", h.Course.GetProgress)
	}

	notificationGroup := r.Group("/api/notification")
	notificationGroup.Use(auth)
	{
		notificationGroup.GET("/list", h.Notification.List)
		notificationGroup.GET("/unread", h.Notification.UnreadCount)
		notificationGroup.POST("/:id/read", h.Notification.MarkRead)
		notificationGroup.PUT("/settings", h.Notification.UpdateSetting)
	}

	return r
}
