package service

import (
	"context"

	"github.com/mkowalsky/expensegate/internal/apperr"
	"github.com/mkowalsky/expensegate/internal/application/port"
	"github.com/mkowalsky/expensegate/internal/domain/entity"
)

// AccountService manages directory accounts. Every operation is gated
// on the userManagement capability (admin bypass applies).
type AccountService interface {
	CreateAccount(ctx context.Context, requesterID, email string) (*entity.Account, error)
	DisableAccount(ctx context.Context, requesterID, id string) error
	EnableAccount(ctx context.Context, requesterID, id string) error
	ListAccounts(ctx context.Context, requesterID string, pageSize int, pageToken string) ([]*entity.AccountDetail, string, error)
}

type accountServiceImpl struct {
	directory    port.UserDirectory
	profileStore port.ProfileStore
	roleStore    port.RoleStore
	authz        AuthorizationEngine
	logger       Logger
}

// NewAccountService creates a new AccountService
func NewAccountService(
	directory port.UserDirectory,
	profileStore port.ProfileStore,
	roleStore port.RoleStore,
	authz AuthorizationEngine,
	logger Logger,
) AccountService {
	return &accountServiceImpl{
		directory:    directory,
		profileStore: profileStore,
		roleStore:    roleStore,
		authz:        authz,
		logger:       logger,
	}
}

// CreateAccount creates a disabled, unverified directory entry. The
// caller orchestrates the subsequent profile/role creation.
func (s *accountServiceImpl) CreateAccount(ctx context.Context, requesterID, email string) (*entity.Account, error) {
	if err := s.authz.RequireUserManagement(ctx, requesterID); err != nil {
		return nil, err
	}

	if email == "" {
		return nil, apperr.InvalidArgument("account/email-required")
	}

	existing, err := s.directory.GetAccountByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to look up account by email", "error", err, "email", email)
		return nil, apperr.Internal("account/lookup-failed", err)
	}
	if existing != nil {
		return nil, apperr.AlreadyExists("account/email-already-exists")
	}

	account, err := s.directory.CreateAccount(ctx, email)
	if err != nil {
		s.logger.Error("Failed to create account", "error", err, "email", email)
		return nil, apperr.Internal("account/create-failed", err)
	}

	s.logger.Info("Account created", "id", account.ID, "email", email, "requester_id", requesterID)
	return account, nil
}

// DisableAccount disables an enabled account. Disabling an
// already-disabled account is an invalid_argument, not a silent no-op.
func (s *accountServiceImpl) DisableAccount(ctx context.Context, requesterID, id string) error {
	return s.setDisabled(ctx, requesterID, id, true)
}

// EnableAccount enables a disabled account. Enabling an
// already-enabled account is an invalid_argument.
func (s *accountServiceImpl) EnableAccount(ctx context.Context, requesterID, id string) error {
	return s.setDisabled(ctx, requesterID, id, false)
}

func (s *accountServiceImpl) setDisabled(ctx context.Context, requesterID, id string, disabled bool) error {
	if err := s.authz.RequireUserManagement(ctx, requesterID); err != nil {
		return err
	}

	account, err := s.directory.GetAccountByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to look up account", "error", err, "id", id)
		return apperr.Internal("account/lookup-failed", err)
	}
	if account == nil {
		return apperr.NotFound("account/not-found")
	}

	if account.Disabled == disabled {
		if disabled {
			return apperr.InvalidArgument("account/already-disabled")
		}
		return apperr.InvalidArgument("account/already-enabled")
	}

	if err := s.directory.UpdateAccount(ctx, id, port.AccountUpdate{Disabled: &disabled}); err != nil {
		s.logger.Error("Failed to update account disabled flag", "error", err, "id", id)
		return apperr.Internal("account/update-failed", err)
	}

	s.logger.Info("Account disabled flag updated", "id", id, "disabled", disabled, "requester_id", requesterID)
	return nil
}

// ListAccounts returns a page of account-detail projections joining
// each account with its optional profile and role set. Missing
// documents are represented as nil, not errors.
func (s *accountServiceImpl) ListAccounts(ctx context.Context, requesterID string, pageSize int, pageToken string) ([]*entity.AccountDetail, string, error) {
	if err := s.authz.RequireUserManagement(ctx, requesterID); err != nil {
		return nil, "", err
	}

	accounts, nextToken, err := s.directory.ListAccounts(ctx, pageSize, pageToken)
	if err != nil {
		s.logger.Error("Failed to list accounts", "error", err, "page_size", pageSize)
		return nil, "", apperr.Internal("account/list-failed", err)
	}

	details := make([]*entity.AccountDetail, 0, len(accounts))
	for _, account := range accounts {
		profile, err := s.profileStore.Get(ctx, account.ID)
		if err != nil {
			s.logger.Error("Failed to load profile for listing", "error", err, "id", account.ID)
			return nil, "", apperr.Internal("account/list-failed", err)
		}
		roles, err := s.roleStore.Get(ctx, account.ID)
		if err != nil {
			s.logger.Error("Failed to load roles for listing", "error", err, "id", account.ID)
			return nil, "", apperr.Internal("account/list-failed", err)
		}
		details = append(details, &entity.AccountDetail{
			Account: account,
			Profile: profile,
			Roles:   roles,
		})
	}

	return details, nextToken, nil
}
