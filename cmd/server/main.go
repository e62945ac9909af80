package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"community-api/internal/cache"
	"community-api/internal/config"
	"community-api/internal/constants"
	"community-api/internal/database"
	"community-api/internal/events"
	"community-api/internal/handlers"
	"community-api/internal/middleware"
	"community-api/internal/repository"
	"community-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	db := database.GetDB()

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	store, err := redisStore.NewStore(
		10,    // Redis pool size
		"tcp", // network type
		cfg.RedisAddr(),
		"", // username (empty for default user)
		"", // password (empty = no password)
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionName, store))

	// Redis client for the unread notification counters. The session store
	// above manages its own pool.
	redisClient := goredis.NewClient(&goredis.Options{
		Addr: cfg.RedisAddr(),
	})
	counter := cache.NewUnreadCounter(redisClient)

	// Kafka producer for membership events. Nil when no brokers are
	// configured; publishing then becomes a no-op.
	producer := events.NewProducer(events.Config{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
	})
	if producer != nil {
		defer producer.Close()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	postRepo := repository.NewPostRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Initialize services
	authService := services.NewAuthService(db, userRepo)
	orgService := services.NewOrganizationService(db, orgRepo)
	communityService := services.NewCommunityService(db, communityRepo)
	notificationService := services.NewNotificationService(notificationRepo, counter, producer)
	membershipService := services.NewMembershipService(db, communityRepo, orgRepo, notificationService, producer)
	postService := services.NewPostService(db, postRepo, communityRepo)
	messageService := services.NewMessageService(db, messageRepo, userRepo, notificationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	permissionsHandler := handlers.NewPermissionsHandler()
	orgHandler := handlers.NewOrganizationHandler(orgService)
	communityHandler := handlers.NewCommunityHandler(communityService)
	membershipHandler := handlers.NewMembershipHandler(membershipService)
	postHandler := handlers.NewPostHandler(postService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	messageHandler := handlers.NewMessageHandler(messageService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Community Platform API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// App-level user administration (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.PUT("/:user_id/app-role", authHandler.SetAppRole)
		}

		// Effective permissions of the calling user (protected)
		api.GET("/permissions", middleware.RequireAuth(), permissionsHandler.GetPermissions)

		// Organization routes (protected)
		orgs := api.Group("/organizations")
		orgs.Use(middleware.RequireAuth())
		{
			orgs.POST("", orgHandler.CreateOrganization)
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.POST("/join", orgHandler.JoinOrganization)
			orgs.GET("/:id", middleware.RequireOrganizationAccess(), orgHandler.GetOrganization)
			orgs.PUT("/:id", middleware.RequireOrganizationAccess(), orgHandler.UpdateOrganization)
			orgs.POST("/:id/regenerate-code", middleware.RequireOrganizationAccess(), orgHandler.RegenerateInviteCode)
			orgs.DELETE("/:id/members/:user_id", middleware.RequireOrganizationAccess(), orgHandler.RemoveMember)
			orgs.GET("/:id/communities", middleware.RequireOrganizationAccess(), communityHandler.ListCommunities)
		}

		// Community routes (protected)
		communities := api.Group("/communities")
		communities.Use(middleware.RequireAuth())
		{
			communities.POST("", communityHandler.CreateCommunity)
			communities.GET("/:id", middleware.RequireCommunity(), communityHandler.GetCommunity)
			communities.PUT("/:id", middleware.RequireCommunity(), communityHandler.UpdateCommunity)
			communities.GET("/:id/members", middleware.RequireCommunity(), communityHandler.ListMembers)

			// Membership workflow
			communities.POST("/:id/join", middleware.RequireCommunity(), membershipHandler.RequestJoin)
			communities.POST("/:id/follow", middleware.RequireCommunity(), membershipHandler.RequestFollow)
			communities.POST("/:id/leave", middleware.RequireCommunity(), membershipHandler.Leave)
			communities.GET("/:id/requests", middleware.RequireCommunity(), membershipHandler.ListPendingRequests)
			communities.POST("/:id/requests/:request_id/approve", middleware.RequireCommunity(), membershipHandler.ApproveRequest)
			communities.POST("/:id/requests/:request_id/reject", middleware.RequireCommunity(), membershipHandler.RejectRequest)

			// Role management
			communities.PUT("/:id/members/:user_id/moderator", middleware.RequireCommunity(), membershipHandler.AssignModerator)
			communities.PUT("/:id/members/:user_id/admin", middleware.RequireCommunity(), membershipHandler.AssignAdmin)
			communities.DELETE("/:id/members/:user_id/moderator", middleware.RequireCommunity(), membershipHandler.RemoveModerator)
			communities.DELETE("/:id/members/:user_id/admin", middleware.RequireCommunity(), membershipHandler.RemoveAdmin)
			communities.DELETE("/:id/members/:user_id", middleware.RequireCommunity(), membershipHandler.KickMember)
			communities.POST("/:id/members/import-org", middleware.RequireCommunity(), membershipHandler.AddOrgMembers)

			// Invites
			communities.POST("/:id/invites", middleware.RequireCommunity(), membershipHandler.CreateInvite)

			// Posts
			communities.POST("/:id/posts", middleware.RequireCommunity(), postHandler.CreatePost)
			communities.GET("/:id/posts", middleware.RequireCommunity(), postHandler.ListPosts)
		}

		// Invite redemption is code based, not community scoped
		api.POST("/invites/redeem", middleware.RequireAuth(), membershipHandler.RedeemInvite)

		// Post routes (protected)
		posts := api.Group("/posts")
		posts.Use(middleware.RequireAuth())
		{
			posts.GET("/:post_id", postHandler.GetPost)
			posts.DELETE("/:post_id", postHandler.DeletePost)
			posts.PUT("/:post_id/pin", postHandler.PinPost)
			posts.POST("/:post_id/comments", postHandler.CreateComment)
			posts.POST("/:post_id/reactions", postHandler.ToggleReaction)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread", notificationHandler.UnreadCount)
			notifications.POST("/read", notificationHandler.MarkAllRead)
		}

		// Direct message routes (protected)
		api.POST("/messages", middleware.RequireAuth(), messageHandler.SendMessage)
		conversations := api.Group("/conversations")
		conversations.Use(middleware.RequireAuth())
		{
			conversations.GET("", messageHandler.ListConversations)
			conversations.GET("/:conversation_id/messages", messageHandler.ListMessages)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
