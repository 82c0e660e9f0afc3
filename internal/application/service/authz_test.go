package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mkowalsky/expensegate/internal/apperr"
	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

func TestAuthorizationEngine_Check(t *testing.T) {
	roles := map[string]*entity.RoleSet{
		"admin-user":   {UserID: "admin-user", Admin: true},
		"expense-mgr":  {UserID: "expense-mgr", ExpenseManagement: true},
		"user-mgr":     {UserID: "user-mgr", UserManagement: true},
		"multi-cap":    {UserID: "multi-cap", ExpenseManagement: true, ResourceManagement: true},
		"no-caps":      {UserID: "no-caps"},
		"resource-mgr": {UserID: "resource-mgr", ResourceManagement: true},
	}

	tests := []struct {
		name        string
		requesterID string
		required    []Capability
		wantKind    apperr.Kind
	}{
		{
			name:        "admin passes any single check",
			requesterID: "admin-user",
			required:    []Capability{CapabilityUserManagement},
		},
		{
			name:        "admin passes combined checks",
			requesterID: "admin-user",
			required:    []Capability{CapabilityExpenseManagement, CapabilityResourceManagement, CapabilityUserManagement},
		},
		{
			name:        "holder of the exact capability passes",
			requesterID: "expense-mgr",
			required:    []Capability{CapabilityExpenseManagement},
		},
		{
			name:        "capability does not imply another",
			requesterID: "expense-mgr",
			required:    []Capability{CapabilityUserManagement},
			wantKind:    apperr.KindPermissionDenied,
		},
		{
			name:        "all required capabilities must hold",
			requesterID: "multi-cap",
			required:    []Capability{CapabilityExpenseManagement, CapabilityUserManagement},
			wantKind:    apperr.KindPermissionDenied,
		},
		{
			name:        "both held capabilities pass together",
			requesterID: "multi-cap",
			required:    []Capability{CapabilityExpenseManagement, CapabilityResourceManagement},
		},
		{
			name:        "no capabilities denies",
			requesterID: "no-caps",
			required:    []Capability{CapabilityResourceManagement},
			wantKind:    apperr.KindPermissionDenied,
		},
		{
			name:        "non-admin fails an admin check",
			requesterID: "user-mgr",
			required:    []Capability{CapabilityAdmin},
			wantKind:    apperr.KindPermissionDenied,
		},
		{
			name:        "missing role set is not_found",
			requesterID: "ghost",
			required:    []Capability{CapabilityExpenseManagement},
			wantKind:    apperr.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewAuthorizationEngine(roleFixture(roles), &mockLogger{})

			err := engine.Check(context.Background(), tt.requesterID, tt.required...)

			if tt.wantKind == "" {
				if err != nil {
					t.Errorf("Check() error = %v, want nil", err)
				}
				return
			}
			if !apperr.IsKind(err, tt.wantKind) {
				t.Errorf("Check() error = %v, want kind %v", err, tt.wantKind)
			}
		})
	}
}

func TestAuthorizationEngine_StoreError(t *testing.T) {
	store := &mockRoleStore{
		getFunc: func(ctx context.Context, userID string) (*entity.RoleSet, error) {
			return nil, errors.New("db down")
		},
	}
	engine := NewAuthorizationEngine(store, &mockLogger{})

	err := engine.RequireAdmin(context.Background(), "anyone")
	if !apperr.IsKind(err, apperr.KindInternal) {
		t.Errorf("RequireAdmin() error = %v, want kind internal", err)
	}
}

func TestAuthorizationEngine_RequireHelpers(t *testing.T) {
	roles := map[string]*entity.RoleSet{
		"holder": {
			UserID:             "holder",
			ExpenseManagement:  true,
			ResourceManagement: true,
			UserManagement:     true,
		},
	}
	engine := NewAuthorizationEngine(roleFixture(roles), &mockLogger{})
	ctx := context.Background()

	if err := engine.RequireExpenseManagement(ctx, "holder"); err != nil {
		t.Errorf("RequireExpenseManagement() error = %v", err)
	}
	if err := engine.RequireResourceManagement(ctx, "holder"); err != nil {
		t.Errorf("RequireResourceManagement() error = %v", err)
	}
	if err := engine.RequireUserManagement(ctx, "holder"); err != nil {
		t.Errorf("RequireUserManagement() error = %v", err)
	}
	if err := engine.RequireAdmin(ctx, "holder"); !apperr.IsKind(err, apperr.KindPermissionDenied) {
		t.Errorf("RequireAdmin() error = %v, want permission_denied", err)
	}
}
