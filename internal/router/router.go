package router

import (
	"Nova_Social/internal/handler"
	"Nova_Social/internal/middleware"
	"Nova_Social/internal/service"

	"github.com/gin-gonic/gin"
)

// Deps 路由需要的各业务 service，由 main 启动时构造注入
type Deps struct {
	Users       *service.UserService
	Email       *service.EmailService
	Friends     *service.FriendService
	Communities *service.CommunityService
	Messages    *service.MessageService
	Directs     *service.DirectService
	Nav         *service.NavService
}

func InitRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	user := handler.NewUserHandler(deps.Users)
	email := handler.NewEmailHandler(deps.Email)
	friend := handler.NewFriendHandler(deps.Friends)
	community := handler.NewCommunityHandler(deps.Communities)
	message := handler.NewMessageHandler(deps.Messages)
	direct := handler.NewDirectHandler(deps.Directs)
	nav := handler.NewNavHandler(deps.Nav)

	// 邮件相关接口
	emailGroup := r.Group("/api/email")
	{
		emailGroup.POST("/code", email.SendCode)
	}

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/reset", user.ResetPassword)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 登录态用户接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/logout", user.Logout)
		authGroup.POST("/change-password", user.ChangePassword)
		authGroup.GET("/user/:id", user.GetUser)
		authGroup.PUT("/profile", user.UpdateProfile)
		authGroup.GET("/search", user.Search)
	}

	// 好友关系相关接口
	friendGroup := r.Group("/api/friend")
	friendGroup.Use(middleware.AuthMiddleware())
	{
		friendGroup.POST("/request", friend.SendRequest)
		friendGroup.POST("/answer", friend.Answer)
		friendGroup.DELETE("/:id", friend.Unfriend)
		friendGroup.GET("/list", friend.List)
		friendGroup.GET("/requests", friend.Requests)
		friendGroup.GET("/degree", friend.Degree)
		friendGroup.GET("/degree-list", friend.AtDegree)
		friendGroup.GET("/recommendations", friend.Recommendations)
	}

	// 私聊相关接口
	dmGroup := r.Group("/api/dm")
	dmGroup.Use(middleware.AuthMiddleware())
	{
		dmGroup.GET("/inbox", direct.Inbox)
		dmGroup.GET("/:id", direct.Get)
		dmGroup.POST("/:id/message", direct.Send)
		dmGroup.POST("/:id/message/:seq/react", direct.React)
	}

	// 社区相关接口
	communityGroup := r.Group("/api/community")
	communityGroup.Use(middleware.AuthMiddleware())
	{
		communityGroup.POST("/create", community.Create)
		communityGroup.POST("/:id/join", community.Join)
		communityGroup.POST("/:id/leave", community.Leave)
		communityGroup.GET("/list", community.List)
		communityGroup.GET("/:id", community.Get)
		communityGroup.POST("/:id/ban", community.Ban)
		communityGroup.POST("/:id/unban", community.Unban)
		communityGroup.POST("/:id/promote", community.Promote)
	}

	// 社区消息相关接口
	messageGroup := r.Group("/api/community/:id/message")
	messageGroup.Use(middleware.AuthMiddleware())
	{
		messageGroup.POST("/", message.Send)
		messageGroup.POST("/:seq/vote", message.Vote)
		messageGroup.POST("/:seq/poll-vote", message.VotePoll)
		messageGroup.GET("/:seq/votes", message.VoteCount)
		messageGroup.POST("/:seq/pin", message.Pin)
		messageGroup.DELETE("/:seq", message.Delete)
	}

	// 浏览历史栈相关接口
	navGroup := r.Group("/api/nav")
	navGroup.Use(middleware.AuthMiddleware())
	{
		navGroup.POST("/push", nav.Push)
		navGroup.POST("/back", nav.Back)
		navGroup.POST("/forward", nav.Forward)
		navGroup.GET("/current", nav.Current)
	}

	return r
}
