package router

import (
	"time"

	"gigaaura/config"
	"gigaaura/internal/auth"
	"gigaaura/internal/handler"
	"gigaaura/internal/ledger"
	"gigaaura/internal/localstore"
	"gigaaura/internal/middleware"
	"gigaaura/internal/repository"
	"gigaaura/internal/service"
	"gigaaura/internal/ws"
	"gigaaura/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires repositories, the ledger, services, and routes. The returned
// ledger is handed back so main can flush in-flight writes on shutdown.
func Setup(cfg *config.Config, db *gorm.DB, cache *localstore.Store, cloud cloudinary.Client) (*gin.Engine, *ledger.Ledger) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(300, 60*time.Second)))

	// Remote store adapters share one degraded gate.
	gate := repository.NewGate()
	pointsRepo := repository.NewPointsRepository(db, gate)
	postRepo := repository.NewPostRepository(db, gate)
	userRepo := repository.NewUserRepository(db, gate)
	notificationRepo := repository.NewNotificationRepository(db, gate)

	hub := ws.NewHub()
	led := ledger.New(cache, pointsRepo, hub)

	sessionSvc := service.NewSessionService(led, cache, pointsRepo)
	auraSvc := service.NewAuraService(led, pointsRepo)
	notifSvc := service.NewNotificationService(notificationRepo, hub)

	nonces := auth.NewNonceStore(cfg.JWT.NonceTTL)
	authHandler := handler.NewAuthHandler(&cfg.JWT, nonces, sessionSvc)
	transactionsHandler := handler.NewTransactionsHandler(auraSvc, led, pointsRepo, gate)
	postsHandler := handler.NewPostsHandler(postRepo, userRepo, cache, auraSvc, notifSvc, hub)
	profileHandler := handler.NewProfileHandler(userRepo, auraSvc, notifSvc)
	uploadHandler := handler.NewUploadHandler(cloud, userRepo)
	notificationsHandler := handler.NewNotificationsHandler(notificationRepo)

	authMw := middleware.WalletRequired(&cfg.JWT)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/nonce", authHandler.Nonce)
			authGroup.POST("/wallet", authHandler.Login)
		}

		api.GET("/transactions", transactionsHandler.Get)
		api.POST("/transactions", transactionsHandler.Create)

		api.GET("/posts", postsHandler.List)
		api.GET("/posts/:id", postsHandler.GetByID)
		api.GET("/posts/user/:wallet", postsHandler.ListByAuthor)
		api.POST("/posts", authMw, postsHandler.Create)
		api.PUT("/posts/:id", authMw, postsHandler.Update)
		api.DELETE("/posts/:id", authMw, postsHandler.Delete)

		api.GET("/profile", profileHandler.Get)
		api.PUT("/profile", authMw, profileHandler.Update)
		api.POST("/profile/follow/:wallet", authMw, profileHandler.Follow)
		api.DELETE("/profile/follow/:wallet", authMw, profileHandler.Unfollow)
		api.POST("/profile/avatar", authMw, uploadHandler.UploadAvatar)
		api.POST("/profile/banner", authMw, uploadHandler.UploadBanner)

		api.GET("/notifications", authMw, notificationsHandler.List)
		api.PUT("/notifications/:id/read", authMw, notificationsHandler.MarkRead)
		api.PUT("/notifications/read-all", authMw, notificationsHandler.MarkAllRead)

		api.GET("/session", authMw, authHandler.Session)
		api.POST("/session/disconnect", authMw, authHandler.Disconnect)
	}

	r.GET("/ws", ws.Upgrade(hub))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "degraded": gate.Degraded()})
	})

	return r, led
}
