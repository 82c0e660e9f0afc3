package service

import (
	"context"
	"testing"

	"github.com/mkowalsky/expensegate/internal/apperr"
	"github.com/mkowalsky/expensegate/internal/application/port"
	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

func TestUserService_CreateProfile(t *testing.T) {
	tests := []struct {
		name        string
		requesterID string
		input       CreateProfileInput
		existing    map[string]*entity.Profile
		byEmail     *entity.Profile
		wantKind    apperr.Kind
	}{
		{
			name:        "self-create requires no roles at all",
			requesterID: "newbie",
			input:       CreateProfileInput{UserID: "newbie", Email: "newbie@example.com", FirstName: "New", LastName: "Bie"},
		},
		{
			name:        "creating for another user requires userManagement",
			requesterID: "nobody",
			input:       CreateProfileInput{UserID: "other", Email: "other@example.com"},
			wantKind:    apperr.KindPermissionDenied,
		},
		{
			name:        "user manager creates for another user",
			requesterID: "mgr",
			input:       CreateProfileInput{UserID: "other", Email: "other@example.com"},
		},
		{
			name:        "missing user id rejected",
			requesterID: "mgr",
			input:       CreateProfileInput{Email: "x@example.com"},
			wantKind:    apperr.KindInvalidArgument,
		},
		{
			name:        "missing email rejected",
			requesterID: "mgr",
			input:       CreateProfileInput{UserID: "other"},
			wantKind:    apperr.KindInvalidArgument,
		},
		{
			name:        "duplicate profile id rejected",
			requesterID: "mgr",
			input:       CreateProfileInput{UserID: "taken", Email: "fresh@example.com"},
			existing:    map[string]*entity.Profile{"taken": {ID: "taken"}},
			wantKind:    apperr.KindAlreadyExists,
		},
		{
			name:        "duplicate email rejected",
			requesterID: "mgr",
			input:       CreateProfileInput{UserID: "fresh", Email: "taken@example.com"},
			byEmail:     &entity.Profile{ID: "someone", Email: "taken@example.com"},
			wantKind:    apperr.KindAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := &mockProfileStore{
				getFunc: func(ctx context.Context, id string) (*entity.Profile, error) {
					return tt.existing[id], nil
				},
				getByEmailFunc: func(ctx context.Context, email string) (*entity.Profile, error) {
					return tt.byEmail, nil
				},
			}
			svc := NewUserService(profiles, &mockRoleStore{}, &mockDirectory{}, userManagerAuthz(), &mockLogger{})

			profile, err := svc.CreateProfile(context.Background(), tt.requesterID, tt.input)

			if tt.wantKind != "" {
				if !apperr.IsKind(err, tt.wantKind) {
					t.Errorf("CreateProfile() error = %v, want kind %v", err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateProfile() error = %v", err)
			}
			if profile.ID != tt.input.UserID {
				t.Errorf("CreateProfile() profile.ID = %v, want %v", profile.ID, tt.input.UserID)
			}
		})
	}
}

func TestUserService_CreateProfileSyncsDisplayName(t *testing.T) {
	var synced string
	directory := &mockDirectory{
		updateAccountFunc: func(ctx context.Context, id string, update port.AccountUpdate) error {
			if update.DisplayName != nil {
				synced = *update.DisplayName
			}
			return nil
		},
	}
	svc := NewUserService(&mockProfileStore{}, &mockRoleStore{}, directory, userManagerAuthz(), &mockLogger{})

	_, err := svc.CreateProfile(context.Background(), "newbie", CreateProfileInput{
		UserID:    "newbie",
		Email:     "newbie@example.com",
		FirstName: "Grace",
		LastName:  "Hopper",
	})
	if err != nil {
		t.Fatalf("CreateProfile() error = %v", err)
	}
	if synced != "Grace Hopper" {
		t.Errorf("display name synced = %q, want %q", synced, "Grace Hopper")
	}
}

func TestUserService_UpdateProfileAdminTarget(t *testing.T) {
	roleSets := map[string]*entity.RoleSet{
		"mgr":    {UserID: "mgr", UserManagement: true},
		"root":   {UserID: "root", Admin: true},
		"target": {UserID: "target", Admin: true},
	}
	first := "Changed"

	tests := []struct {
		name        string
		requesterID string
		wantKind    apperr.Kind
	}{
		{
			name:        "user manager cannot touch an admin target",
			requesterID: "mgr",
			wantKind:    apperr.KindPermissionDenied,
		},
		{
			name:        "admin requester may touch an admin target",
			requesterID: "root",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := &mockProfileStore{
				getFunc: func(ctx context.Context, id string) (*entity.Profile, error) {
					return &entity.Profile{ID: id, Email: id + "@example.com"}, nil
				},
			}
			authz := NewAuthorizationEngine(roleFixture(roleSets), &mockLogger{})
			svc := NewUserService(profiles, roleFixture(roleSets), &mockDirectory{}, authz, &mockLogger{})

			_, err := svc.UpdateProfile(context.Background(), tt.requesterID, "target", UpdateProfileInput{FirstName: &first})

			if tt.wantKind != "" {
				if !apperr.IsKind(err, tt.wantKind) {
					t.Errorf("UpdateProfile() error = %v, want kind %v", err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Errorf("UpdateProfile() error = %v", err)
			}
		})
	}
}

func TestUserService_UpdateProfileMissing(t *testing.T) {
	svc := NewUserService(&mockProfileStore{}, &mockRoleStore{}, &mockDirectory{}, userManagerAuthz(), &mockLogger{})

	first := "X"
	_, err := svc.UpdateProfile(context.Background(), "mgr", "ghost", UpdateProfileInput{FirstName: &first})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("UpdateProfile() error = %v, want not_found", err)
	}
}

func TestUserService_CreateRoles(t *testing.T) {
	tests := []struct {
		name        string
		requesterID string
		userID      string
		flags       RoleFlags
		existing    *entity.RoleSet
		wantKind    apperr.Kind
	}{
		{
			name:        "self all-false grant needs no roles",
			requesterID: "newbie",
			userID:      "newbie",
			flags:       RoleFlags{},
		},
		{
			name:        "self grant with any flag requires userManagement",
			requesterID: "newbie",
			userID:      "newbie",
			flags:       RoleFlags{ExpenseManagement: true},
			wantKind:    apperr.KindNotFound,
		},
		{
			name:        "granting for another user requires userManagement",
			requesterID: "nobody",
			userID:      "other",
			flags:       RoleFlags{},
			wantKind:    apperr.KindPermissionDenied,
		},
		{
			name:        "user manager grants non-admin flags",
			requesterID: "mgr",
			userID:      "other",
			flags:       RoleFlags{ExpenseManagement: true, ResourceManagement: true},
		},
		{
			name:        "user manager cannot grant admin",
			requesterID: "mgr",
			userID:      "other",
			flags:       RoleFlags{Admin: true},
			wantKind:    apperr.KindPermissionDenied,
		},
		{
			name:        "admin grants admin",
			requesterID: "root",
			userID:      "other",
			flags:       RoleFlags{Admin: true},
		},
		{
			name:        "existing role set rejected",
			requesterID: "mgr",
			userID:      "has-roles",
			flags:       RoleFlags{},
			existing:    &entity.RoleSet{UserID: "has-roles"},
			wantKind:    apperr.KindAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseRoles := map[string]*entity.RoleSet{
				"mgr":  {UserID: "mgr", UserManagement: true},
				"root": {UserID: "root", Admin: true},
				// nobody and newbie have no role documents
			}
			store := &mockRoleStore{
				getFunc: func(ctx context.Context, userID string) (*entity.RoleSet, error) {
					if tt.existing != nil && userID == tt.existing.UserID {
						return tt.existing, nil
					}
					return baseRoles[userID], nil
				},
			}
			// nobody needs a role document for a clean permission_denied
			baseRoles["nobody"] = &entity.RoleSet{UserID: "nobody"}

			authz := NewAuthorizationEngine(store, &mockLogger{})
			svc := NewUserService(&mockProfileStore{}, store, &mockDirectory{}, authz, &mockLogger{})

			roles, err := svc.CreateRoles(context.Background(), tt.requesterID, tt.userID, tt.flags)

			if tt.wantKind != "" {
				if !apperr.IsKind(err, tt.wantKind) {
					t.Errorf("CreateRoles() error = %v, want kind %v", err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateRoles() error = %v", err)
			}
			if roles.Admin != tt.flags.Admin || roles.ExpenseManagement != tt.flags.ExpenseManagement {
				t.Errorf("CreateRoles() flags not applied: %+v", roles)
			}
		})
	}
}

func TestUserService_UpdateRoles(t *testing.T) {
	tests := []struct {
		name        string
		requesterID string
		userID      string
		flags       RoleFlags
		wantKind    apperr.Kind
	}{
		{
			name:        "user manager updates a non-admin target",
			requesterID: "mgr",
			userID:      "plain",
			flags:       RoleFlags{ExpenseManagement: true},
		},
		{
			name:        "user manager cannot update an admin target",
			requesterID: "mgr",
			userID:      "boss",
			flags:       RoleFlags{},
			wantKind:    apperr.KindPermissionDenied,
		},
		{
			name:        "admin demotes another admin",
			requesterID: "root",
			userID:      "boss",
			flags:       RoleFlags{UserManagement: true},
		},
		{
			name:        "missing role set is not_found",
			requesterID: "mgr",
			userID:      "ghost",
			flags:       RoleFlags{},
			wantKind:    apperr.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roleSets := map[string]*entity.RoleSet{
				"mgr":   {UserID: "mgr", UserManagement: true},
				"root":  {UserID: "root", Admin: true},
				"boss":  {UserID: "boss", Admin: true},
				"plain": {UserID: "plain"},
			}
			store := roleFixture(roleSets)
			authz := NewAuthorizationEngine(store, &mockLogger{})
			svc := NewUserService(&mockProfileStore{}, store, &mockDirectory{}, authz, &mockLogger{})

			roles, err := svc.UpdateRoles(context.Background(), tt.requesterID, tt.userID, tt.flags)

			if tt.wantKind != "" {
				if !apperr.IsKind(err, tt.wantKind) {
					t.Errorf("UpdateRoles() error = %v, want kind %v", err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateRoles() error = %v", err)
			}
			if roles.Admin != tt.flags.Admin {
				t.Errorf("UpdateRoles() admin flag = %v, want %v", roles.Admin, tt.flags.Admin)
			}
		})
	}
}
