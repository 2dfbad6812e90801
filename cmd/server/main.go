package main

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/zwinkle/eduslide/internal/config"
	"github.com/zwinkle/eduslide/internal/database"
	"github.com/zwinkle/eduslide/internal/handlers"
	"github.com/zwinkle/eduslide/internal/live"
	"github.com/zwinkle/eduslide/internal/middleware"
	"github.com/zwinkle/eduslide/internal/models"
	"github.com/zwinkle/eduslide/internal/services"

	_ "github.com/zwinkle/eduslide/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           EduSlide API
// @version         1.0
// @description     Real-time classroom interaction server: live presentation sessions with polls, quizzes, word clouds and a leaderboard
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	authService := services.NewAuthService(db, cfg.JWTSecret)
	presentationService := services.NewPresentationService(db)
	sessionService := services.NewSessionService(db)
	scoreService := services.NewScoreService(db)

	graceSec, _ := strconv.Atoi(cfg.GracePeriod)
	if graceSec <= 0 {
		graceSec = 180
	}
	hub := live.NewHub()
	engine := live.NewEngine(hub, sessionService, presentationService, scoreService,
		time.Duration(graceSec)*time.Second)

	authHandler := handlers.NewAuthHandler(authService)
	presentationHandler := handlers.NewPresentationHandler(presentationService, sessionService)
	sessionHandler := handlers.NewSessionHandler(sessionService, scoreService, cfg.JoinBaseURL)
	liveHandler := handlers.NewLiveHandler(engine)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.CORSOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws", liveHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		presentations := api.Group("/presentations")
		presentations.Use(middleware.JWTAuth(authService), middleware.RequireRole(models.RoleTeacher))
		{
			presentations.POST("", presentationHandler.Create)
			presentations.GET("", presentationHandler.List)
			presentations.GET("/:id", presentationHandler.Get)
			presentations.PUT("/:id", presentationHandler.Update)
			presentations.DELETE("/:id", presentationHandler.Delete)
			presentations.POST("/:id/slides", presentationHandler.AddSlide)
			presentations.POST("/:id/sessions", presentationHandler.CreateSession)
		}

		slides := api.Group("/slides")
		slides.Use(middleware.JWTAuth(authService), middleware.RequireRole(models.RoleTeacher))
		{
			slides.PUT("/:id/quiz", presentationHandler.SetQuiz)
			slides.PUT("/:id/poll", presentationHandler.SetPoll)
			slides.PUT("/:id/wordcloud", presentationHandler.SetWordCloud)
			slides.PUT("/:id/bubble-quiz", presentationHandler.SetBubbleQuiz)
			slides.DELETE("/:id/activity", presentationHandler.ClearActivity)
		}

		sessions := api.Group("/sessions")
		{
			sessions.GET("/:code", sessionHandler.Validate)
			sessions.GET("/:code/leaderboard", sessionHandler.Leaderboard)
			sessions.GET("/:code/qr", sessionHandler.QRCode)
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
