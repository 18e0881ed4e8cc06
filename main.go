package main

import (
	"context"
	"fintrack-backend/config"
	"fintrack-backend/database"
	"fintrack-backend/handlers"
	"fintrack-backend/middleware"
	"fintrack-backend/services"
	"log"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config.Load()
	gin.SetMode(config.AppConfig.GinMode)

	// Connect to database
	database.Connect()

	// Connect to Redis (optional, login rate limiting is off without it)
	database.ConnectRedis()

	// Email and push channels (each optional)
	services.InitNotificationService(context.Background())

	r := setupRouter()

	// Start server
	port := config.AppConfig.Port
	log.Printf("🚀 %s server starting on port %s", config.AppConfig.AppName, port)
	log.Printf("📡 Health check: %s/health", config.AppConfig.AppURL)

	addr := "0.0.0.0:" + port
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func setupRouter() *gin.Engine {
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
		auth.POST("/login",
			middleware.RateLimit(database.Redis, "login", config.AppConfig.LoginRateLimit, config.AppConfig.LoginRateWindow),
			handlers.Login)
		auth.POST("/refresh", handlers.Refresh)
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

		// Debts
		api.POST("/debts", handlers.CreateDebt)
		api.GET("/debts", handlers.GetDebts)
		api.GET("/debts/pending", handlers.GetPendingDebts)
		api.GET("/debts/closed", handlers.GetClosedDebts)
		api.GET("/debts/summary", handlers.GetDebtSummary)
		api.GET("/debts/persons", handlers.GetDebtPersons)
		api.GET("/debts/balances", handlers.GetDebtBalances)
		api.GET("/debts/:id", handlers.GetDebt)
		api.PUT("/debts/:id", handlers.UpdateDebt)
		api.DELETE("/debts/:id", handlers.DeleteDebt)
		api.POST("/debts/:id/settle", handlers.SettleDebt)

		// EMIs
		api.POST("/emis", handlers.CreateEMI)
		api.GET("/emis", handlers.GetEMIs)
		api.GET("/emis/:id", handlers.GetEMI)
		api.DELETE("/emis/:id", handlers.DeleteEMI)
		api.GET("/installments", handlers.GetInstallments)
		api.POST("/installments/:id/mark_paid", handlers.MarkInstallmentPaid)

		// Expense ledger
		api.POST("/categories", handlers.CreateCategory)
		api.GET("/categories", handlers.GetCategories)
		api.DELETE("/categories/:id", handlers.DeleteCategory)
		api.POST("/items", handlers.CreateItem)
		api.GET("/items", handlers.GetItems)
		api.DELETE("/items/:id", handlers.DeleteItem)

		// Daily expenses and reports
		api.GET("/daily-expenses", handlers.GetDailyExpenses)
		api.POST("/daily-expenses", handlers.CreateDailyExpense)
		api.GET("/daily-expenses/reports", handlers.GetExpenseReport)
		api.GET("/daily-expenses/monthly_bar_chart", handlers.GetMonthlyBarChart)
		api.GET("/daily-expenses/category_pie_chart", handlers.GetCategoryPieChart)
		api.GET("/daily-expenses/tabular_report", handlers.GetTabularReport)
		api.GET("/daily-expenses/:date", handlers.GetDailyExpense)
		api.POST("/daily-expenses/:date", handlers.EnsureDailyExpense)
		api.POST("/daily-expenses/:date/add_item", handlers.AddExpenseItem)

		// Activity
		api.GET("/activity", handlers.GetActivity)
	}

	return r
}
