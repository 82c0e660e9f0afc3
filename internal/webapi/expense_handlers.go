package webapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkowalsky/expensegate/internal/application/service"
	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

// CreateExpenseRequest represents the expense creation payload
type CreateExpenseRequest struct {
	AssignedToID string    `json:"assigned_to_id" binding:"required"`
	Title        string    `json:"title" binding:"required"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date" binding:"required"`
	AmountCents  int64     `json:"amount_cents" binding:"required"`
	Category     string    `json:"category" binding:"required"`
	Pictures     []string  `json:"pictures"`
}

// UpdateExpenseRequest represents the partial expense update payload.
// Absent fields are left untouched. Status is not updatable here.
type UpdateExpenseRequest struct {
	AssignedToID *string    `json:"assigned_to_id"`
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Date         *time.Time `json:"date"`
	AmountCents  *int64     `json:"amount_cents"`
	Category     *string    `json:"category"`
	Pictures     *[]string  `json:"pictures"`
}

// UpdateStatusRequest represents the status transition payload
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListExpensesRequest represents query parameters for listing expenses
type ListExpensesRequest struct {
	OwnerID string `form:"owner_id"`
	Limit   int    `form:"limit"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID           string   `json:"id"`
	AssignedToID string   `json:"assigned_to_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Date         string   `json:"date"`
	AmountCents  int64    `json:"amount_cents"`
	Amount       float64  `json:"amount"`
	Category     string   `json:"category"`
	Pictures     []string `json:"pictures"`
	Status       string   `json:"status"`
	CreatedBy    string   `json:"created_by"`
	UpdatedBy    string   `json:"updated_by"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// CreateExpense handles POST /api/expenses
func (h *Handlers) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "request/malformed-body"})
		return
	}

	expense, err := h.expenseService.Create(c.Request.Context(), requesterID(c), service.CreateExpenseInput{
		AssignedToID: req.AssignedToID,
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		AmountCents:  req.AmountCents,
		Category:     entity.Category(req.Category),
		Pictures:     req.Pictures,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    toExpenseResponse(expense),
	})
}

// GetExpense handles GET /api/expenses/:id
func (h *Handlers) GetExpense(c *gin.Context) {
	expense, err := h.expenseService.Get(c.Request.Context(), requesterID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toExpenseResponse(expense),
	})
}

// ListExpenses handles GET /api/expenses
func (h *Handlers) ListExpenses(c *gin.Context) {
	var req ListExpensesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "request/malformed-query"})
		return
	}
	if req.Limit <= 0 || req.Limit > 200 {
		req.Limit = 50
	}

	expenses, err := h.expenseService.List(c.Request.Context(), requesterID(c), req.OwnerID, req.Limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	responses := make([]ExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		responses = append(responses, toExpenseResponse(expense))
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    responses,
	})
}

// UpdateExpense handles PATCH /api/expenses/:id
func (h *Handlers) UpdateExpense(c *gin.Context) {
	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "request/malformed-body"})
		return
	}

	input := service.UpdateExpenseInput{
		AssignedToID: req.AssignedToID,
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		AmountCents:  req.AmountCents,
		Pictures:     req.Pictures,
	}
	if req.Category != nil {
		category := entity.Category(*req.Category)
		input.Category = &category
	}

	expense, err := h.expenseService.Update(c.Request.Context(), requesterID(c), c.Param("id"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toExpenseResponse(expense),
	})
}

// UpdateExpenseStatus handles PUT /api/expenses/:id/status
func (h *Handlers) UpdateExpenseStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "request/malformed-body"})
		return
	}

	expense, err := h.expenseService.UpdateStatus(c.Request.Context(), requesterID(c), c.Param("id"), entity.Status(req.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toExpenseResponse(expense),
	})
}

// DeleteExpense handles DELETE /api/expenses/:id
func (h *Handlers) DeleteExpense(c *gin.Context) {
	if err := h.expenseService.Delete(c.Request.Context(), requesterID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// DeleteAllExpenses handles DELETE /api/expenses?owner_id=
func (h *Handlers) DeleteAllExpenses(c *gin.Context) {
	if err := h.expenseService.DeleteAll(c.Request.Context(), requesterID(c), c.Query("owner_id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// ExportExpenses handles GET /api/reports/expenses
func (h *Handlers) ExportExpenses(c *gin.Context) {
	workbook, err := h.exporter.Export(c.Request.Context(), requesterID(c), c.Query("owner_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="expenses.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}

// toExpenseResponse converts domain entity to API response
func toExpenseResponse(expense *entity.Expense) ExpenseResponse {
	pictures := expense.Pictures
	if pictures == nil {
		pictures = []string{}
	}
	return ExpenseResponse{
		ID:           expense.ID,
		AssignedToID: expense.AssignedToID,
		Title:        expense.Title,
		Description:  expense.Description,
		Date:         expense.Date.Format(time.RFC3339),
		AmountCents:  expense.AmountCents,
		Amount:       expense.Amount(),
		Category:     string(expense.Category),
		Pictures:     pictures,
		Status:       string(expense.Status),
		CreatedBy:    expense.CreatedBy,
		UpdatedBy:    expense.UpdatedBy,
		CreatedAt:    expense.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    expense.UpdatedAt.Format(time.RFC3339),
	}
}
