package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/service"
)

// ViewOptions controls how dates and empty fields are rendered for clients.
type ViewOptions struct {
	Location    *time.Location
	DateFormat  string
	Placeholder string
}

// Deps groups the collaborators the HTTP layer needs.
type Deps struct {
	Users        service.UserService
	Transactions service.TransactionService
	Summary      service.SummaryService
	Exports      service.ExportService
	Tokens       *auth.TokenService
	Guard        *auth.Guard
	Logger       logrus.FieldLogger
	View         ViewOptions
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users   service.UserService
	txs     service.TransactionService
	summary service.SummaryService
	exports service.ExportService
	tokens  *auth.TokenService
	guard   *auth.Guard
	logger  logrus.FieldLogger
	view    ViewOptions
}

func NewHandler(deps Deps) *Handler {
	view := deps.View
	if view.Location == nil {
		view.Location = time.Local
	}
	if view.DateFormat == "" {
		view.DateFormat = "02/01/2006"
	}
	if view.Placeholder == "" {
		view.Placeholder = "No description"
	}
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		users:   deps.Users,
		txs:     deps.Transactions,
		summary: deps.Summary,
		exports: deps.Exports,
		tokens:  deps.Tokens,
		guard:   deps.Guard,
		logger:  logger,
		view:    view,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger))
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)
	}

	protected := api.Group("", h.requireAuth())
	{
		protected.GET("/auth/me", h.me)
		protected.GET("/dashboard/summary", h.dashboardSummary)

		protected.GET("/transactions", h.listTransactions)
		protected.POST("/transactions", h.createTransaction)
		protected.PUT("/transactions", h.updateTransaction)
		protected.DELETE("/transactions", h.deleteTransaction)
		protected.GET("/transactions/:id", h.getTransaction)

		protected.POST("/exports", h.createExport)
		protected.GET("/exports", h.listExports)
		protected.DELETE("/exports", h.purgeExports)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
