package webapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkowalsky/expensegate/internal/apperr"
	"github.com/mkowalsky/expensegate/internal/application/service"
	"github.com/mkowalsky/expensegate/internal/report"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	accountService service.AccountService
	userService    service.UserService
	expenseService service.ExpenseService
	fileGuard      service.FileAccessGuard
	exporter       *report.ExpenseExporter
	logger         Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	accountService service.AccountService,
	userService service.UserService,
	expenseService service.ExpenseService,
	fileGuard service.FileAccessGuard,
	exporter *report.ExpenseExporter,
	logger Logger,
) *Handlers {
	return &Handlers{
		accountService: accountService,
		userService:    userService,
		expenseService: expenseService,
		fileGuard:      fileGuard,
		exporter:       exporter,
		logger:         logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// respondError maps a service error to an HTTP status and a stable
// reason key. Internal causes never leak to the client.
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := kindToStatus(apperr.KindOf(err))

	reason := "internal/unexpected"
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		reason = appErr.Reason
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "error", err, "path", c.Request.URL.Path)
	}

	c.JSON(status, Response{
		Success: false,
		Error:   reason,
	})
}

func kindToStatus(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidArgument:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAlreadyExists:
		return http.StatusConflict
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindPermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
