package webapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

// CreateAccountRequest represents the account creation payload
type CreateAccountRequest struct {
	Email string `json:"email" binding:"required"`
}

// AccountResponse represents a directory account in API responses
type AccountResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Disabled      bool   `json:"disabled"`
	DisplayName   string `json:"display_name,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// AccountDetailResponse joins an account with its optional profile and roles
type AccountDetailResponse struct {
	Account AccountResponse  `json:"account"`
	Profile *ProfileResponse `json:"profile,omitempty"`
	Roles   *RolesResponse   `json:"roles,omitempty"`
}

// ListAccountsResponse is a page of account details
type ListAccountsResponse struct {
	Accounts      []AccountDetailResponse `json:"accounts"`
	NextPageToken string                  `json:"next_page_token,omitempty"`
}

// ListAccountsRequest represents query parameters for listing accounts
type ListAccountsRequest struct {
	PageSize  int    `form:"page_size"`
	PageToken string `form:"page_token"`
}

// CreateAccount handles POST /api/accounts
func (h *Handlers) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "request/malformed-body"})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), requesterID(c), req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    toAccountResponse(account),
	})
}

// ListAccounts handles GET /api/accounts
func (h *Handlers) ListAccounts(c *gin.Context) {
	var req ListAccountsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "request/malformed-query"})
		return
	}

	details, nextToken, err := h.accountService.ListAccounts(c.Request.Context(), requesterID(c), req.PageSize, req.PageToken)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := ListAccountsResponse{
		Accounts:      make([]AccountDetailResponse, 0, len(details)),
		NextPageToken: nextToken,
	}
	for _, detail := range details {
		response.Accounts = append(response.Accounts, toAccountDetailResponse(detail))
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// DisableAccount handles POST /api/accounts/:id/disable
func (h *Handlers) DisableAccount(c *gin.Context) {
	if err := h.accountService.DisableAccount(c.Request.Context(), requesterID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// EnableAccount handles POST /api/accounts/:id/enable
func (h *Handlers) EnableAccount(c *gin.Context) {
	if err := h.accountService.EnableAccount(c.Request.Context(), requesterID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// toAccountResponse converts domain entity to API response
func toAccountResponse(account *entity.Account) AccountResponse {
	return AccountResponse{
		ID:            account.ID,
		Email:         account.Email,
		EmailVerified: account.EmailVerified,
		Disabled:      account.Disabled,
		DisplayName:   account.DisplayName,
		CreatedAt:     account.CreatedAt.Format(time.RFC3339),
	}
}

func toAccountDetailResponse(detail *entity.AccountDetail) AccountDetailResponse {
	resp := AccountDetailResponse{
		Account: toAccountResponse(detail.Account),
	}
	if detail.Profile != nil {
		profile := toProfileResponse(detail.Profile)
		resp.Profile = &profile
	}
	if detail.Roles != nil {
		roles := toRolesResponse(detail.Roles)
		resp.Roles = &roles
	}
	return resp
}
