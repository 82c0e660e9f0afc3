// Package webapi provides the HTTP server adapter for the application
// layer. It is a thin translation layer: requests become service calls,
// service errors become status codes.
package webapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkowalsky/expensegate/internal/application/service"
	"github.com/mkowalsky/expensegate/internal/report"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config         ServerConfig
	httpServer     *http.Server
	router         *gin.Engine
	accountService service.AccountService
	userService    service.UserService
	expenseService service.ExpenseService
	fileGuard      service.FileAccessGuard
	exporter       *report.ExpenseExporter
	logger         Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	accountService service.AccountService,
	userService service.UserService,
	expenseService service.ExpenseService,
	fileGuard service.FileAccessGuard,
	exporter *report.ExpenseExporter,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config:         config,
		router:         router,
		accountService: accountService,
		userService:    userService,
		expenseService: expenseService,
		fileGuard:      fileGuard,
		exporter:       exporter,
		logger:         logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.accountService, s.userService, s.expenseService, s.fileGuard, s.exporter, s.logger)

	// Health check is unauthenticated
	s.router.GET("/health", handlers.HealthCheck)

	api := s.router.Group("/api")
	api.Use(requesterMiddleware())
	{
		// Accounts
		api.POST("/accounts", handlers.CreateAccount)
		api.GET("/accounts", handlers.ListAccounts)
		api.POST("/accounts/:id/disable", handlers.DisableAccount)
		api.POST("/accounts/:id/enable", handlers.EnableAccount)

		// Profiles and roles
		api.POST("/users/:id/profile", handlers.CreateProfile)
		api.PATCH("/users/:id/profile", handlers.UpdateProfile)
		api.POST("/users/:id/roles", handlers.CreateRoles)
		api.PUT("/users/:id/roles", handlers.UpdateRoles)

		// Expenses
		api.POST("/expenses", handlers.CreateExpense)
		api.GET("/expenses", handlers.ListExpenses)
		api.DELETE("/expenses", handlers.DeleteAllExpenses)
		api.GET("/expenses/:id", handlers.GetExpense)
		api.PATCH("/expenses/:id", handlers.UpdateExpense)
		api.PUT("/expenses/:id/status", handlers.UpdateExpenseStatus)
		api.DELETE("/expenses/:id", handlers.DeleteExpense)

		// Files
		api.POST("/files/associate", handlers.AssociateFile)
		api.DELETE("/files/*path", handlers.DeleteFile)

		// Reports
		api.GET("/reports/expenses", handlers.ExportExpenses)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
