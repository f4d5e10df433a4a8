package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/valeriaulyamaeva/neofin/internal/bank"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/internal/handlers"
	"github.com/valeriaulyamaeva/neofin/internal/jobs"
	"github.com/valeriaulyamaeva/neofin/internal/middleware"
	"github.com/valeriaulyamaeva/neofin/internal/realtime"
)

// Deps holds everything the HTTP layer needs.
type Deps struct {
	DB             database.Querier
	Log            zerolog.Logger
	AllowedOrigins []string

	Notifier     handlers.Notifier
	Scanner      handlers.AlertScanner
	Transactions handlers.TransactionReader
	Converter    handlers.Converter
	Jobs         jobs.Publisher
	JobStore     jobs.JobStore
	Hub          *realtime.Hub
	Bank         *bank.Proxy
	Monitor      handlers.Monitor
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Log),
		middleware.Recovery(d.Log),
		middleware.CORS(d.AllowedOrigins),
	)

	r.GET("/health", handlers.HealthHandler(d.Monitor))
	r.GET("/currency/convert", handlers.ConvertCurrencyHandler(d.Converter))
	if d.Bank != nil {
		r.Any("/bank/*path", gin.WrapH(d.Bank.Router()))
	}

	api := r.Group("", middleware.UserID())

	api.POST("/transactions", handlers.CreateTransactionHandler(d.DB))
	api.GET("/transactions", handlers.GetTransactionsHandler(d.DB))
	api.GET("/transactions/:id", handlers.GetTransactionHandler(d.DB))
	api.PUT("/transactions/:id", handlers.UpdateTransactionHandler(d.DB))
	api.DELETE("/transactions/:id", handlers.DeleteTransactionHandler(d.DB))

	api.POST("/accounts", handlers.CreateAccountHandler(d.DB))
	api.GET("/accounts", handlers.GetAccountsHandler(d.DB))
	api.GET("/accounts/:id", handlers.GetAccountHandler(d.DB))
	api.PUT("/accounts/:id", handlers.UpdateAccountHandler(d.DB))
	api.DELETE("/accounts/:id", handlers.DeleteAccountHandler(d.DB))

	api.POST("/cards", handlers.CreateCardHandler(d.DB))
	api.GET("/cards", handlers.GetCardsHandler(d.DB))
	api.GET("/cards/:id", handlers.GetCardHandler(d.DB))
	api.PUT("/cards/:id", handlers.UpdateCardHandler(d.DB))
	api.DELETE("/cards/:id", handlers.DeleteCardHandler(d.DB))

	api.POST("/contacts", handlers.CreateContactHandler(d.DB))
	api.GET("/contacts", handlers.GetContactsHandler(d.DB))
	api.GET("/contacts/:id", handlers.GetContactHandler(d.DB))
	api.PUT("/contacts/:id", handlers.UpdateContactHandler(d.DB))
	api.DELETE("/contacts/:id", handlers.DeleteContactHandler(d.DB))

	api.POST("/categories", handlers.CreateCategoryHandler(d.DB))
	api.GET("/categories", handlers.GetCategoriesHandler(d.DB))
	api.GET("/categories/:id", handlers.GetCategoryHandler(d.DB))
	api.PUT("/categories/:id", handlers.UpdateCategoryHandler(d.DB))
	api.DELETE("/categories/:id", handlers.DeleteCategoryHandler(d.DB))

	api.POST("/budgets", handlers.CreateBudgetHandler(d.DB))
	api.GET("/budgets", handlers.GetBudgetsHandler(d.DB))
	api.GET("/budgets/status", handlers.GetBudgetStatusesHandler(d.DB))
	api.GET("/budgets/:id", handlers.GetBudgetHandler(d.DB))
	api.PUT("/budgets/:id", handlers.UpdateBudgetHandler(d.DB))
	api.DELETE("/budgets/:id", handlers.DeleteBudgetHandler(d.DB))

	api.POST("/goals", handlers.CreateGoalHandler(d.DB))
	api.GET("/goals", handlers.GetGoalsHandler(d.DB))
	api.GET("/goals/:id", handlers.GetGoalHandler(d.DB))
	api.PUT("/goals/:id", handlers.UpdateGoalHandler(d.DB))
	api.DELETE("/goals/:id", handlers.DeleteGoalHandler(d.DB))
	api.POST("/goals/:id/progress", handlers.AddProgressHandler(d.DB))

	api.POST("/reminders", handlers.CreatePaymentReminderHandler(d.DB))
	api.GET("/reminders", handlers.GetPaymentRemindersHandler(d.DB))
	api.GET("/reminders/:id", handlers.GetPaymentReminderHandler(d.DB))
	api.PUT("/reminders/:id", handlers.UpdatePaymentReminderHandler(d.DB))
	api.DELETE("/reminders/:id", handlers.DeletePaymentReminderHandler(d.DB))

	api.GET("/notifications", handlers.GetNotificationsHandler(d.DB))
	api.POST("/notifications", handlers.CreateNotificationHandler(d.Notifier))
	api.PUT("/notifications/read", handlers.MarkAllNotificationsAsReadHandler(d.DB))
	api.PUT("/notifications/:id/read", handlers.MarkNotificationAsReadHandler(d.DB))
	api.DELETE("/notifications/:id", handlers.DeleteNotificationHandler(d.DB))

	api.GET("/settings", handlers.GetUserSettingsHandler(d.DB))
	api.PUT("/settings", handlers.UpdateUserSettingsHandler(d.DB))

	api.GET("/alerts", handlers.GetAlertsHandler(d.DB))
	api.POST("/alerts/scan", handlers.ScanAlertsHandler(d.Scanner))
	api.POST("/alerts/:id/dismiss", handlers.DismissAlertHandler(d.DB))

	api.GET("/insights/predictions", handlers.GetPredictionsHandler(d.Transactions))
	api.GET("/insights/anomalies", handlers.GetAnomaliesHandler(d.Transactions))
	api.GET("/insights/recurring", handlers.GetRecurringHandler(d.Transactions))
	api.GET("/insights/trend", handlers.GetTrendHandler(d.Transactions))

	api.GET("/dashboard", handlers.DashboardHandler(d.DB, d.Converter))

	api.POST("/imports", handlers.CreateImportHandler(d.Jobs))
	api.GET("/imports", handlers.GetImportsHandler(d.JobStore))
	api.GET("/imports/:id", handlers.GetImportHandler(d.JobStore))

	if d.Hub != nil {
		api.GET("/realtime/ws", handlers.RealtimeHandler(d.Hub))
	}

	return r
}
