package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/taskhive/backend/internal/auth"
	"github.com/taskhive/backend/internal/config"
	"github.com/taskhive/backend/internal/database"
	"github.com/taskhive/backend/internal/handler"
	"github.com/taskhive/backend/internal/middleware"
	"github.com/taskhive/backend/internal/repository"
	"github.com/taskhive/backend/internal/service"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize JWT service
	jwtService := auth.NewJWTService(cfg)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize services
	notificationService := service.NewNotificationService(notificationRepo)
	commentService := service.NewCommentService(commentRepo, taskRepo, notificationService, service.CommentServiceOptions{
		RenotifyOnEdit: cfg.Comment.RenotifyOnEdit,
	})

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userRepo, jwtService, cfg.JWT.Expiry, cfg.App.Env == "production")
	taskHandler := handler.NewTaskHandler(taskRepo)
	commentHandler := handler.NewCommentHandler(commentService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	wsHandler := handler.NewWebSocketHandler()

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"status":  false,
				"message": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.CORS.Origins, ","),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	}))

	// API routes
	api := app.Group("/api")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes
	authRoutes := api.Group("/auth")
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authRoutes.Get("/me", authMiddleware.Required(), authHandler.Me)

	// Task lookup (read-only; task CRUD lives in the task service)
	api.Get("/task/:id", authMiddleware.Required(), taskHandler.GetByID)

	// Comment routes
	commentRoutes := api.Group("/comment", authMiddleware.Required())
	commentRoutes.Get("/task/:taskId", commentHandler.GetTaskComments)
	commentRoutes.Post("/", commentHandler.Create)
	commentRoutes.Put("/:commentId", commentHandler.Update)
	commentRoutes.Delete("/:commentId", commentHandler.Delete)
	commentRoutes.Post("/:commentId/reactions", commentHandler.AddReaction)
	commentRoutes.Delete("/:commentId/reactions/:reactionId", commentHandler.RemoveReaction)

	// Notification routes
	notificationRoutes := api.Group("/notifications", authMiddleware.Required())
	notificationRoutes.Get("/", notificationHandler.List)
	notificationRoutes.Patch("/:id/read", notificationHandler.MarkRead)

	// WebSocket route
	app.Use("/ws", wsHandler.WebSocketUpgrade(authMiddleware))
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.App.Port
	if port == "" {
		port = "8800"
	}
	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
