package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"finassist/internal/config"
	"finassist/internal/database"
	"finassist/internal/handlers"
	"finassist/internal/logger"
	"finassist/internal/middleware"
	"finassist/internal/notify"
	"finassist/internal/services"
	"finassist/internal/sweeper"
	"finassist/internal/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	budgetService := services.NewBudgetService(db)
	ledgerService := services.NewLedgerService(db, budgetService)
	piggyBankService := services.NewPiggyBankService(db, ledgerService)
	goalService := services.NewGoalService(db)
	debtService := services.NewDebtService(db, ledgerService)
	reminderService := services.NewReminderService(db)

	// Initialize handlers
	transactionHandler := handlers.NewTransactionHandler(ledgerService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	piggyBankHandler := handlers.NewPiggyBankHandler(piggyBankService)
	goalHandler := handlers.NewGoalHandler(goalService)
	debtHandler := handlers.NewDebtHandler(debtService)
	reminderHandler := handlers.NewReminderHandler(reminderService)

	// Start the reminder sweep in the background. Without a bot token the
	// sweep is disabled and reminders stay pending.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if appConfig.TelegramBotToken != "" {
		notifier := notify.NewTelegramNotifier(appConfig.TelegramBotToken, http.DefaultClient)
		go sweeper.New(reminderService, notifier, log).Start(ctx, appConfig.SweepInterval)
	} else {
		log.Warn("TELEGRAM_BOT_TOKEN not set, reminder delivery disabled")
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group; every route requires a gateway token
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware())

	// Transaction routes
	transactions := v1.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetHistory)
	transactions.GET("/filter", transactionHandler.FilterTransactions)
	transactions.GET("/last", transactionHandler.GetLastTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget routes
	budgets := v1.Group("/budgets")
	budgets.PUT("", budgetHandler.SetBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/available", budgetHandler.GetAvailableTotal)
	budgets.POST("/rebuild", budgetHandler.RebuildBudgets)

	// Piggy bank routes
	piggybanks := v1.Group("/piggybanks")
	piggybanks.POST("", piggyBankHandler.CreatePiggyBank)
	piggybanks.GET("", piggyBankHandler.ListPiggyBanks)
	piggybanks.GET("/:id", piggyBankHandler.GetPiggyBank)
	piggybanks.POST("/:id/funds", piggyBankHandler.AddFunds)
	piggybanks.DELETE("/:id", piggyBankHandler.DeletePiggyBank)

	// Goal routes
	goals := v1.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.ListGoals)

	// Debt routes
	debts := v1.Group("/debts")
	debts.POST("", debtHandler.CreateDebt)
	debts.GET("", debtHandler.ListActiveDebts)
	debts.GET("/history", debtHandler.GetDebtHistory)
	debts.POST("/settle", debtHandler.SettleDebtByMatch)
	debts.POST("/:id/settle", debtHandler.SettleDebt)
	debts.POST("/:id/close", debtHandler.CloseDebt)

	// Reminder routes
	reminders := v1.Group("/reminders")
	reminders.POST("", reminderHandler.CreateReminder)
	reminders.GET("", reminderHandler.ListReminders)
	reminders.GET("/:id", reminderHandler.GetReminder)
	reminders.PUT("/:id", reminderHandler.UpdateReminder)
	reminders.POST("/:id/complete", reminderHandler.CompleteReminder)
	reminders.DELETE("/:id", reminderHandler.DeleteReminder)

	log.Infof("Starting FinAssist backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
