package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/charettep/splitup/config"
	"github.com/charettep/splitup/database"
	"github.com/charettep/splitup/handlers"
	"github.com/charettep/splitup/ledger"
	"github.com/charettep/splitup/middleware"
)

func main() {
	// Load configuration
	config.Load()

	// Connect to database
	database.Connect()

	// Connect to Redis (optional, won't crash if unavailable)
	database.ConnectRedis()

	// Wire the settlement engine with its store injected
	engine := ledger.NewEngine(database.NewLedgerRepository(database.DB))
	handlers.Init(engine)

	// Setup router
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": config.AppConfig.AppName,
		})
	})

	// ==========================================
	// AUTH ROUTES (public)
	// ==========================================
	auth := r.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
	}

	// ==========================================
	// API ROUTES (authenticated)
	// ==========================================
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	{
		// User
		api.GET("/users/me", handlers.GetProfile)
		api.PUT("/users/me", handlers.UpdateProfile)
		api.PUT("/users/me/fcm-token", handlers.UpdateFCMToken)
		api.POST("/users/search", handlers.SearchUsers)

		// Settlements
		api.POST("/settlements", handlers.CreateSettlement)
		api.GET("/settlements", handlers.GetSettlements)
		api.GET("/settlements/:id", handlers.GetSettlement)
		api.PUT("/settlements/:id", handlers.UpdateSettlement)
		api.POST("/settlements/:id/invite", handlers.InviteToSettlementHandler)

		// Split periods
		api.POST("/settlements/:id/periods", handlers.CreatePeriod)
		api.GET("/settlements/:id/periods", handlers.GetPeriods)
		api.PUT("/periods/:id", handlers.UpdatePeriod)
		api.DELETE("/periods/:id", handlers.DeletePeriod)

		// Expenses
		api.POST("/settlements/:id/expenses", handlers.CreateExpense)
		api.GET("/settlements/:id/expenses", handlers.GetSettlementExpenses)
		api.GET("/expenses/:id", handlers.GetExpense)
		api.PUT("/expenses/:id", handlers.UpdateExpense)
		api.DELETE("/expenses/:id", handlers.DeleteExpense)

		// Assets
		api.POST("/settlements/:id/assets", handlers.CreateAsset)
		api.GET("/settlements/:id/assets", handlers.GetSettlementAssets)
		api.GET("/assets/:id", handlers.GetAsset)
		api.PUT("/assets/:id", handlers.UpdateAsset)
		api.PUT("/assets/:id/valuation", handlers.SetAssetValuation)
		api.DELETE("/assets/:id", handlers.DeleteAsset)

		// Ledger (derived debt lines + net summary)
		api.GET("/settlements/:id/ledger", handlers.GetLedger)
		api.PUT("/owed-lines/:id/paid", handlers.SetPaidStatus)

		// Activity
		api.GET("/settlements/:id/activity", handlers.GetSettlementActivity)
	}

	// Start server
	port := config.AppConfig.Port
	log.Printf("🚀 %s server starting on port %s", config.AppConfig.AppName, port)

	addr := "0.0.0.0:" + port
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
