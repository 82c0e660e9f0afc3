package service

import (
	"context"
	"fmt"

	"github.com/mkowalsky/expensegate/internal/apperr"
	"github.com/mkowalsky/expensegate/internal/application/port"
	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Capability is one of the four independent role flags.
type Capability string

const (
	CapabilityAdmin              Capability = "admin"
	CapabilityExpenseManagement  Capability = "expenseManagement"
	CapabilityResourceManagement Capability = "resourceManagement"
	CapabilityUserManagement     Capability = "userManagement"
)

// AuthorizationEngine evaluates whether a requester's role set
// satisfies a required capability combination. Evaluation is two-tier:
// admin passes every check unconditionally; otherwise every required
// capability must be individually true. No capability implies another
// except via admin.
type AuthorizationEngine interface {
	// Roles returns the requester's role set, or a not_found error
	// when no role document exists (the requester has no identity in
	// the system, which is distinct from permission_denied).
	Roles(ctx context.Context, requesterID string) (*entity.RoleSet, error)

	// Check passes iff the requester holds admin or every required
	// capability.
	Check(ctx context.Context, requesterID string, required ...Capability) error

	RequireAdmin(ctx context.Context, requesterID string) error
	RequireExpenseManagement(ctx context.Context, requesterID string) error
	RequireResourceManagement(ctx context.Context, requesterID string) error
	RequireUserManagement(ctx context.Context, requesterID string) error
}

type authorizationEngine struct {
	roleStore port.RoleStore
	logger    Logger
}

// NewAuthorizationEngine creates a new AuthorizationEngine
func NewAuthorizationEngine(roleStore port.RoleStore, logger Logger) AuthorizationEngine {
	return &authorizationEngine{
		roleStore: roleStore,
		logger:    logger,
	}
}

// Roles looks up the requester's role set
func (e *authorizationEngine) Roles(ctx context.Context, requesterID string) (*entity.RoleSet, error) {
	roles, err := e.roleStore.Get(ctx, requesterID)
	if err != nil {
		e.logger.Error("Failed to load role set", "error", err, "requester_id", requesterID)
		return nil, apperr.Internal("roles/load-failed", err)
	}
	if roles == nil {
		return nil, apperr.NotFound("roles/not-found")
	}
	return roles, nil
}

// Check evaluates the required capability set against the requester's roles
func (e *authorizationEngine) Check(ctx context.Context, requesterID string, required ...Capability) error {
	roles, err := e.Roles(ctx, requesterID)
	if err != nil {
		return err
	}

	// Admin short-circuits to success without evaluating individual flags
	if roles.Admin {
		return nil
	}

	for _, cap := range required {
		if !holds(roles, cap) {
			return apperr.PermissionDenied(fmt.Sprintf("permission/%s-required", cap))
		}
	}

	return nil
}

func (e *authorizationEngine) RequireAdmin(ctx context.Context, requesterID string) error {
	return e.Check(ctx, requesterID, CapabilityAdmin)
}

func (e *authorizationEngine) RequireExpenseManagement(ctx context.Context, requesterID string) error {
	return e.Check(ctx, requesterID, CapabilityExpenseManagement)
}

func (e *authorizationEngine) RequireResourceManagement(ctx context.Context, requesterID string) error {
	return e.Check(ctx, requesterID, CapabilityResourceManagement)
}

func (e *authorizationEngine) RequireUserManagement(ctx context.Context, requesterID string) error {
	return e.Check(ctx, requesterID, CapabilityUserManagement)
}

// holds evaluates a single capability flag on a non-admin role set
func holds(roles *entity.RoleSet, cap Capability) bool {
	switch cap {
	case CapabilityAdmin:
		return roles.Admin
	case CapabilityExpenseManagement:
		return roles.ExpenseManagement
	case CapabilityResourceManagement:
		return roles.ResourceManagement
	case CapabilityUserManagement:
		return roles.UserManagement
	default:
		return false
	}
}
