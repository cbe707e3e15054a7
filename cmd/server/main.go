package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/triviaboard/backend/internal/auth"
	"github.com/triviaboard/backend/internal/cache"
	"github.com/triviaboard/backend/internal/config"
	"github.com/triviaboard/backend/internal/database"
	"github.com/triviaboard/backend/internal/handler"
	"github.com/triviaboard/backend/internal/models"
	"github.com/triviaboard/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	// Swagger imports
	_ "github.com/triviaboard/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Trivia Board API
// @version         1.0
// @description     This is the API for the trivia board game service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	// Redis backs the live board snapshot cache
	redisClient := redis.NewClient(&redis.Options{
		Addr: config.AppConfig.RedisAddr,
	})

	boardCache := cache.NewBoardCache(redisClient)
	snapshots := service.NewSnapshotService(database.DB, boardCache)

	gameService := service.NewGameService(database.DB, snapshots)
	teamService := service.NewTeamService(database.DB, snapshots)
	boardService := service.NewBoardService(database.DB)
	clueService := service.NewClueService(database.DB, snapshots)
	responseService := service.NewResponseService(database.DB, snapshots)

	userHandler := handler.NewUserHandler(database.DB)
	gameHandler := handler.NewGameHandler(gameService, snapshots)
	teamHandler := handler.NewTeamHandler(teamService)
	boardHandler := handler.NewBoardHandler(boardService)
	clueHandler := handler.NewClueHandler(clueService)
	responseHandler := handler.NewResponseHandler(responseService)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", userHandler.Register)
			authRoutes.POST("/login", userHandler.Login)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", userHandler.GetMe)
		}

		// Spectators can watch the live board without logging in
		apiV1.GET("/games/:id/board/live", auth.OptionalAuthMiddleware(), gameHandler.LiveBoard)

		// Game routes (protected)
		gameRoutes := apiV1.Group("/games")
		gameRoutes.Use(auth.AuthMiddleware())
		{
			gameRoutes.GET("/:id", gameHandler.GetGame)
			gameRoutes.GET("/:id/board", boardHandler.ListRounds)
			gameRoutes.GET("/:id/teams", teamHandler.ListTeams)
			gameRoutes.POST("/:id/teams", teamHandler.CreateTeam)

			// Host-gated game management
			hostRoutes := gameRoutes.Group("")
			hostRoutes.Use(auth.RequireRole(models.RoleHost))
			{
				hostRoutes.POST("", gameHandler.CreateGame)
				hostRoutes.GET("", gameHandler.ListGames)
				hostRoutes.PATCH("/:id", gameHandler.UpdateGame)
				hostRoutes.POST("/:id/start", gameHandler.StartGame)
				hostRoutes.POST("/:id/finish", gameHandler.FinishGame)
				hostRoutes.DELETE("/:id", gameHandler.DeleteGame)
				hostRoutes.POST("/:id/rounds", boardHandler.CreateRound)
			}
		}

		// Round routes (host-gated)
		roundRoutes := apiV1.Group("/rounds")
		roundRoutes.Use(auth.AuthMiddleware(), auth.RequireRole(models.RoleHost))
		{
			roundRoutes.DELETE("/:id", boardHandler.DeleteRound)
			roundRoutes.PATCH("/:id/order", boardHandler.UpdateRoundOrder)
		}

		// Team routes (protected)
		teamRoutes := apiV1.Group("/teams")
		teamRoutes.Use(auth.AuthMiddleware())
		{
			teamRoutes.POST("/:id/join", teamHandler.JoinTeam)
			teamRoutes.POST("/:id/leave", teamHandler.LeaveTeam)
			teamRoutes.DELETE("/:id", teamHandler.RemoveTeam)
			teamRoutes.POST("/:id/score", teamHandler.AdjustScore)
		}

		// Clue routes (protected; ownership and membership checks live in the services)
		clueRoutes := apiV1.Group("/clues")
		clueRoutes.Use(auth.AuthMiddleware())
		{
			clueRoutes.POST("/:id/select", clueHandler.SelectClue)
			clueRoutes.PATCH("/:id/state", clueHandler.OverrideClueState)
			clueRoutes.POST("/:id/reset", clueHandler.ResetClue)
			clueRoutes.POST("/:id/responses", responseHandler.SubmitResponse)
			clueRoutes.GET("/:id/responses", responseHandler.ListResponses)
		}

		// Response validation (operator or host)
		responseRoutes := apiV1.Group("/responses")
		responseRoutes.Use(auth.AuthMiddleware(), auth.RequireRole(models.RoleHost, models.RoleOperator))
		{
			responseRoutes.POST("/:id/validate", responseHandler.ValidateResponse)
		}
	}

	fmt.Println("Server is running on :" + config.AppConfig.Port)
	fmt.Println("Swagger UI is available at http://localhost:" + config.AppConfig.Port + "/swagger/index.html")
	log.Fatal(router.Run(":" + config.AppConfig.Port))
}
