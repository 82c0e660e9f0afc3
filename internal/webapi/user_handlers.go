package webapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkowalsky/expensegate/internal/application/service"
	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

// CreateProfileRequest represents the profile creation payload
type CreateProfileRequest struct {
	Email      string `json:"email" binding:"required"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	ChosenName string `json:"chosen_name"`
	Language   string `json:"language"`
	PictureID  string `json:"picture_id"`
}

// UpdateProfileRequest represents the partial profile update payload.
// Absent fields are left untouched.
type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	ChosenName *string `json:"chosen_name"`
	Email      *string `json:"email"`
	Language   *string `json:"language"`
	PictureID  *string `json:"picture_id"`
}

// RolesRequest represents the capability grant payload
type RolesRequest struct {
	Admin              bool `json:"admin"`
	ExpenseManagement  bool `json:"expense_management"`
	ResourceManagement bool `json:"resource_management"`
	UserManagement     bool `json:"user_management"`
}

// ProfileResponse represents a profile in API responses
type ProfileResponse struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	ChosenName  string `json:"chosen_name,omitempty"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Language    string `json:"language"`
	PictureID   string `json:"picture_id,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// RolesResponse represents a role set in API responses
type RolesResponse struct {
	UserID             string `json:"user_id"`
	Admin              bool   `json:"admin"`
	ExpenseManagement  bool   `json:"expense_management"`
	ResourceManagement bool   `json:"resource_management"`
	UserManagement     bool   `json:"user_management"`
	UpdatedAt          string `json:"updated_at"`
}

// CreateProfile handles POST /api/users/:id/profile
func (h *Handlers) CreateProfile(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "request/malformed-body"})
		return
	}

	profile, err := h.userService.CreateProfile(c.Request.Context(), requesterID(c), service.CreateProfileInput{
		UserID:     c.Param("id"),
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		ChosenName: req.ChosenName,
		Language:   req.Language,
		PictureID:  req.PictureID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    toProfileResponse(profile),
	})
}

// UpdateProfile handles PATCH /api/users/:id/profile
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "request/malformed-body"})
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), requesterID(c), c.Param("id"), service.UpdateProfileInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		ChosenName: req.ChosenName,
		Email:      req.Email,
		Language:   req.Language,
		PictureID:  req.PictureID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toProfileResponse(profile),
	})
}

// CreateRoles handles POST /api/users/:id/roles
func (h *Handlers) CreateRoles(c *gin.Context) {
	var req RolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "request/malformed-body"})
		return
	}

	roles, err := h.userService.CreateRoles(c.Request.Context(), requesterID(c), c.Param("id"), toRoleFlags(req))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    toRolesResponse(roles),
	})
}

// UpdateRoles handles PUT /api/users/:id/roles
func (h *Handlers) UpdateRoles(c *gin.Context) {
	var req RolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "request/malformed-body"})
		return
	}

	roles, err := h.userService.UpdateRoles(c.Request.Context(), requesterID(c), c.Param("id"), toRoleFlags(req))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    toRolesResponse(roles),
	})
}

func toRoleFlags(req RolesRequest) service.RoleFlags {
	return service.RoleFlags{
		Admin:              req.Admin,
		ExpenseManagement:  req.ExpenseManagement,
		ResourceManagement: req.ResourceManagement,
		UserManagement:     req.UserManagement,
	}
}

// toProfileResponse converts domain entity to API response
func toProfileResponse(profile *entity.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          profile.ID,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		ChosenName:  profile.ChosenName,
		DisplayName: profile.DisplayName(),
		Email:       profile.Email,
		Language:    profile.Language,
		PictureID:   profile.PictureID,
		CreatedAt:   profile.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   profile.UpdatedAt.Format(time.RFC3339),
	}
}

// toRolesResponse converts domain entity to API response
func toRolesResponse(roles *entity.RoleSet) RolesResponse {
	return RolesResponse{
		UserID:             roles.UserID,
		Admin:              roles.Admin,
		ExpenseManagement:  roles.ExpenseManagement,
		ResourceManagement: roles.ResourceManagement,
		UserManagement:     roles.UserManagement,
		UpdatedAt:          roles.UpdatedAt.Format(time.RFC3339),
	}
}
