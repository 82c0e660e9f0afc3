package service

import (
	"context"
	"time"

	"github.com/mkowalsky/expensegate/internal/apperr"
	"github.com/mkowalsky/expensegate/internal/application/port"
	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

// CreateProfileInput carries the fields for profile creation.
type CreateProfileInput struct {
	UserID     string
	Email      string
	FirstName  string
	LastName   string
	Language   string
	ChosenName string
	PictureID  string
}

// UpdateProfileInput carries the optional profile mutations. Nil
// fields are left untouched.
type UpdateProfileInput struct {
	FirstName  *string
	LastName   *string
	ChosenName *string
	Email      *string
	Language   *string
	PictureID  *string
}

// RoleFlags is the four-capability grant for role creation/update.
type RoleFlags struct {
	Admin              bool
	ExpenseManagement  bool
	ResourceManagement bool
	UserManagement     bool
}

// Any reports whether any flag is set.
func (f RoleFlags) Any() bool {
	return f.Admin || f.ExpenseManagement || f.ResourceManagement || f.UserManagement
}

// UserService creates and updates profiles and role sets, enforcing
// uniqueness and escalation rules.
type UserService interface {
	CreateProfile(ctx context.Context, requesterID string, input CreateProfileInput) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, requesterID, userID string, input UpdateProfileInput) (*entity.Profile, error)
	CreateRoles(ctx context.Context, requesterID, userID string, flags RoleFlags) (*entity.RoleSet, error)
	UpdateRoles(ctx context.Context, requesterID, userID string, flags RoleFlags) (*entity.RoleSet, error)
}

type userServiceImpl struct {
	profileStore port.ProfileStore
	roleStore    port.RoleStore
	directory    port.UserDirectory
	authz        AuthorizationEngine
	logger       Logger
}

// NewUserService creates a new UserService
func NewUserService(
	profileStore port.ProfileStore,
	roleStore port.RoleStore,
	directory port.UserDirectory,
	authz AuthorizationEngine,
	logger Logger,
) UserService {
	return &userServiceImpl{
		profileStore: profileStore,
		roleStore:    roleStore,
		directory:    directory,
		authz:        authz,
		logger:       logger,
	}
}

// CreateProfile persists a new profile. Acting on another user
// requires userManagement. The profile id and email are unique.
func (s *userServiceImpl) CreateProfile(ctx context.Context, requesterID string, input CreateProfileInput) (*entity.Profile, error) {
	if input.UserID == "" {
		return nil, apperr.InvalidArgument("profile/user-id-required")
	}
	if input.Email == "" {
		return nil, apperr.InvalidArgument("profile/email-required")
	}

	if requesterID != input.UserID {
		if err := s.authz.RequireUserManagement(ctx, requesterID); err != nil {
			return nil, err
		}
	}

	existing, err := s.profileStore.Get(ctx, input.UserID)
	if err != nil {
		s.logger.Error("Failed to look up profile", "error", err, "user_id", input.UserID)
		return nil, apperr.Internal("profile/lookup-failed", err)
	}
	if existing != nil {
		return nil, apperr.AlreadyExists("profile/already-exists")
	}

	byEmail, err := s.profileStore.GetByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to look up profile by email", "error", err, "email", input.Email)
		return nil, apperr.Internal("profile/lookup-failed", err)
	}
	if byEmail != nil {
		return nil, apperr.AlreadyExists("profile/email-already-exists")
	}

	now := time.Now()
	profile := &entity.Profile{
		ID:         input.UserID,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		ChosenName: input.ChosenName,
		Email:      input.Email,
		Language:   input.Language,
		PictureID:  input.PictureID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.profileStore.Create(ctx, profile); err != nil {
		s.logger.Error("Failed to create profile", "error", err, "user_id", input.UserID)
		return nil, apperr.Internal("profile/create-failed", err)
	}

	s.syncDisplayName(ctx, profile)

	s.logger.Info("Profile created", "user_id", input.UserID, "requester_id", requesterID)
	return profile, nil
}

// UpdateProfile applies field-level updates to an existing profile.
// Acting on another user requires userManagement; touching an admin
// target additionally requires the requester hold admin.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, requesterID, userID string, input UpdateProfileInput) (*entity.Profile, error) {
	if requesterID != userID {
		if err := s.authz.RequireUserManagement(ctx, requesterID); err != nil {
			return nil, err
		}
	}

	if err := s.guardAdminTarget(ctx, requesterID, userID); err != nil {
		return nil, err
	}

	profile, err := s.profileStore.Get(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to look up profile", "error", err, "user_id", userID)
		return nil, apperr.Internal("profile/lookup-failed", err)
	}
	if profile == nil {
		return nil, apperr.NotFound("profile/not-found")
	}

	if input.Email != nil && *input.Email != profile.Email {
		byEmail, err := s.profileStore.GetByEmail(ctx, *input.Email)
		if err != nil {
			s.logger.Error("Failed to look up profile by email", "error", err, "email", *input.Email)
			return nil, apperr.Internal("profile/lookup-failed", err)
		}
		if byEmail != nil && byEmail.ID != userID {
			return nil, apperr.AlreadyExists("profile/email-already-exists")
		}
		profile.Email = *input.Email
	}

	nameChanged := false
	if input.FirstName != nil {
		profile.FirstName = *input.FirstName
		nameChanged = true
	}
	if input.LastName != nil {
		profile.LastName = *input.LastName
		nameChanged = true
	}
	if input.ChosenName != nil {
		profile.ChosenName = *input.ChosenName
		nameChanged = true
	}
	if input.Language != nil {
		profile.Language = *input.Language
	}
	if input.PictureID != nil {
		profile.PictureID = *input.PictureID
	}
	profile.UpdatedAt = time.Now()

	if err := s.profileStore.Update(ctx, profile); err != nil {
		s.logger.Error("Failed to update profile", "error", err, "user_id", userID)
		return nil, apperr.Internal("profile/update-failed", err)
	}

	if nameChanged {
		s.syncDisplayName(ctx, profile)
	}

	s.logger.Info("Profile updated", "user_id", userID, "requester_id", requesterID)
	return profile, nil
}

// CreateRoles persists a new role set. Granting any true flag, or
// acting on another user, requires userManagement; granting admin
// additionally requires the requester already hold admin. A brand-new
// user may therefore only self-create an all-false role set.
func (s *userServiceImpl) CreateRoles(ctx context.Context, requesterID, userID string, flags RoleFlags) (*entity.RoleSet, error) {
	if userID == "" {
		return nil, apperr.InvalidArgument("roles/user-id-required")
	}

	if err := s.checkRoleEscalation(ctx, requesterID, userID, flags); err != nil {
		return nil, err
	}

	existing, err := s.roleStore.Get(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to look up role set", "error", err, "user_id", userID)
		return nil, apperr.Internal("roles/lookup-failed", err)
	}
	if existing != nil {
		return nil, apperr.AlreadyExists("roles/already-exists")
	}

	now := time.Now()
	roles := &entity.RoleSet{
		UserID:             userID,
		Admin:              flags.Admin,
		ExpenseManagement:  flags.ExpenseManagement,
		ResourceManagement: flags.ResourceManagement,
		UserManagement:     flags.UserManagement,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.roleStore.Create(ctx, roles); err != nil {
		s.logger.Error("Failed to create role set", "error", err, "user_id", userID)
		return nil, apperr.Internal("roles/create-failed", err)
	}

	s.logger.Info("Role set created", "user_id", userID, "requester_id", requesterID, "admin", flags.Admin)
	return roles, nil
}

// UpdateRoles replaces an existing role set subject to the same
// escalation rules as creation, plus the admin-target guard: only an
// admin requester may modify an already-admin target.
func (s *userServiceImpl) UpdateRoles(ctx context.Context, requesterID, userID string, flags RoleFlags) (*entity.RoleSet, error) {
	if err := s.checkRoleEscalation(ctx, requesterID, userID, flags); err != nil {
		return nil, err
	}

	roles, err := s.roleStore.Get(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to look up role set", "error", err, "user_id", userID)
		return nil, apperr.Internal("roles/lookup-failed", err)
	}
	if roles == nil {
		return nil, apperr.NotFound("roles/not-found")
	}

	if roles.Admin {
		if err := s.authz.RequireAdmin(ctx, requesterID); err != nil {
			return nil, err
		}
	}

	roles.Admin = flags.Admin
	roles.ExpenseManagement = flags.ExpenseManagement
	roles.ResourceManagement = flags.ResourceManagement
	roles.UserManagement = flags.UserManagement
	roles.UpdatedAt = time.Now()

	if err := s.roleStore.Update(ctx, roles); err != nil {
		s.logger.Error("Failed to update role set", "error", err, "user_id", userID)
		return nil, apperr.Internal("roles/update-failed", err)
	}

	s.logger.Info("Role set updated", "user_id", userID, "requester_id", requesterID, "admin", flags.Admin)
	return roles, nil
}

// checkRoleEscalation enforces the escalation rule: acting on another
// user, or granting any true flag at all, requires userManagement, and
// granting admin requires admin. The self-grant of an all-false role
// set escapes both gates; product has been asked whether that
// asymmetry is intended, and until then the source behavior stands.
func (s *userServiceImpl) checkRoleEscalation(ctx context.Context, requesterID, userID string, flags RoleFlags) error {
	if requesterID != userID || flags.Any() {
		if err := s.authz.RequireUserManagement(ctx, requesterID); err != nil {
			return err
		}
	}

	if flags.Admin {
		if err := s.authz.RequireAdmin(ctx, requesterID); err != nil {
			return err
		}
	}

	return nil
}

// guardAdminTarget denies non-admin requesters any mutation of an
// already-admin target.
func (s *userServiceImpl) guardAdminTarget(ctx context.Context, requesterID, userID string) error {
	target, err := s.roleStore.Get(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to look up target role set", "error", err, "user_id", userID)
		return apperr.Internal("roles/lookup-failed", err)
	}
	if target == nil || !target.Admin {
		return nil
	}
	return s.authz.RequireAdmin(ctx, requesterID)
}

// syncDisplayName pushes the derived display name to the directory
// account. Best-effort: a directory failure does not fail the profile
// write.
func (s *userServiceImpl) syncDisplayName(ctx context.Context, profile *entity.Profile) {
	name := profile.DisplayName()
	if err := s.directory.UpdateAccount(ctx, profile.ID, port.AccountUpdate{DisplayName: &name}); err != nil {
		s.logger.Error("Failed to sync display name", "error", err, "user_id", profile.ID)
	}
}
