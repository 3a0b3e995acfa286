package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/user-service/internal/auth"
	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/events"
	"github.com/spec-kit/user-service/internal/repository"
	"github.com/spec-kit/user-service/internal/validation"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// Fixed messages for auth and guard failures. Login never distinguishes an
// unknown email from a wrong password.
const (
	MsgInvalidCredentials  = "Invalid email or password"
	MsgDuplicateEmail      = "User with this email already exists"
	MsgUserNotFound        = "User not found"
	MsgCannotChangeOwnRole = "You cannot change your own role"
	MsgCannotDeleteSelf    = "You cannot delete your own profile"
)

// AccountService coordinates registration, login, and admin CRUD over
// accounts. Every write runs the validation gate first and hashes any
// plaintext password before it reaches the repository.
type AccountService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// RegisterInput carries the fields for registration and admin-create.
type RegisterInput struct {
	FirstName     string
	LastName      string
	MiddleInitial string
	Email         string
	Password      string
	Age           int
	Gender        string
	Role          string
}

// UpdateInput carries a partial field set; nil means leave unchanged.
type UpdateInput struct {
	FirstName     *string
	LastName      *string
	MiddleInitial *string
	Email         *string
	Password      *string
	Age           *int
	Gender        *string
	Role          *string
}

// NewAccountService builds the service.
func NewAccountService(cfg config.AuthConfig, accounts repository.AccountRepository, dispatcher events.Dispatcher) *AccountService {
	return &AccountService{
		accounts:   accounts,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		dispatcher: dispatcher,
		bcryptCost: cfg.BcryptCost,
	}
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AccountService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Register creates an account from a self-service registration and issues a
// bearer token. The role defaults to staff when unspecified.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.Account, string, time.Time, error) {
	account, err := s.createAccount(ctx, in)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.Issue(account)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventAccountRegistered,
		AccountID: account.ID,
	})
	return account, token, exp, nil
}

// AdminCreate creates an account on behalf of an admin. No token is issued.
func (s *AccountService) AdminCreate(ctx context.Context, actorID string, in RegisterInput) (*domain.Account, error) {
	account, err := s.createAccount(ctx, in)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventAccountCreated,
		AccountID: account.ID,
		ActorID:   actorID,
	})
	return account, nil
}

func (s *AccountService) createAccount(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	if err := validation.Validate(validation.Input{
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		MiddleInitial:   in.MiddleInitial,
		Email:           in.Email,
		Age:             in.Age,
		Gender:          in.Gender,
		Role:            in.Role,
		Password:        in.Password,
		RequirePassword: true,
	}); err != nil {
		return nil, err
	}

	if _, err := s.accounts.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.NewConflict(MsgDuplicateEmail)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	role := domain.Role(in.Role)
	if role == "" {
		role = domain.RoleStaff
	}

	account := &domain.Account{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		MiddleInitial: in.MiddleInitial,
		Email:         in.Email,
		PasswordHash:  hash,
		Age:           in.Age,
		Gender:        domain.Gender(in.Gender),
		Role:          role,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		// the unique index settles concurrent registrations; the loser
		// surfaces the same duplicate-email error as the pre-check
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict(MsgDuplicateEmail)
		}
		return nil, apperrors.NewInternalError(err)
	}

	account.PasswordHash = ""
	return account, nil
}

// Login verifies credentials and issues a bearer token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Account, string, time.Time, error) {
	account, err := s.accounts.GetCredentialByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized(MsgInvalidCredentials)
		}
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized(MsgInvalidCredentials)
	}

	account.PasswordHash = ""
	token, exp, err := s.tokenMgr.Issue(account)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return account, token, exp, nil
}

// GetByID fetches a single account without its credential.
func (s *AccountService) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(MsgUserNotFound)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return account, nil
}

// List returns all accounts.
func (s *AccountService) List(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return accounts, nil
}

// Update applies a partial field set to the target account. A caller
// targeting themself may update anything except their role; a new password
// is re-hashed, never stored or merged as-is.
func (s *AccountService) Update(ctx context.Context, actorID, targetID string, in UpdateInput) (*domain.Account, error) {
	if err := validation.ValidatePartial(validation.PartialInput{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		MiddleInitial: in.MiddleInitial,
		Email:         in.Email,
		Age:           in.Age,
		Gender:        in.Gender,
		Role:          in.Role,
		Password:      in.Password,
	}); err != nil {
		return nil, err
	}

	account, err := s.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	// presence of the role field on a self-targeting update is enough to
	// reject, even when the submitted value matches the stored role
	if actorID == targetID && in.Role != nil {
		return nil, apperrors.NewForbidden(MsgCannotChangeOwnRole)
	}

	var touched []string
	if in.FirstName != nil {
		account.FirstName = *in.FirstName
		touched = append(touched, "firstName")
	}
	if in.LastName != nil {
		account.LastName = *in.LastName
		touched = append(touched, "lastName")
	}
	if in.MiddleInitial != nil {
		account.MiddleInitial = *in.MiddleInitial
		touched = append(touched, "middleInitial")
	}
	if in.Email != nil {
		account.Email = *in.Email
		touched = append(touched, "email")
	}
	if in.Age != nil {
		account.Age = *in.Age
		touched = append(touched, "age")
	}
	if in.Gender != nil {
		account.Gender = domain.Gender(*in.Gender)
		touched = append(touched, "gender")
	}
	if in.Role != nil {
		account.Role = domain.Role(*in.Role)
		touched = append(touched, "role")
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		account.PasswordHash = hash
		touched = append(touched, "password")
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperrors.NewConflict(MsgDuplicateEmail)
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.NewNotFound(MsgUserNotFound)
		default:
			return nil, apperrors.NewInternalError(err)
		}
	}

	account.PasswordHash = ""
	s.publish(ctx, events.Event{
		Type:      events.EventAccountUpdated,
		AccountID: account.ID,
		ActorID:   actorID,
		Payload:   events.AccountUpdatedPayload{Fields: touched},
	})
	return account, nil
}

// Delete removes the target account. Self-deletion is rejected regardless
// of role.
func (s *AccountService) Delete(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return apperrors.NewForbidden(MsgCannotDeleteSelf)
	}

	if err := s.accounts.Delete(ctx, targetID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound(MsgUserNotFound)
		}
		return apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventAccountDeleted,
		AccountID: targetID,
		ActorID:   actorID,
	})
	return nil
}

// DeleteAll removes every account and reports how many were deleted.
func (s *AccountService) DeleteAll(ctx context.Context, actorID string) (int64, error) {
	count, err := s.accounts.DeleteAll(ctx)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventAccountsPurged,
		ActorID: actorID,
		Payload: events.AccountsPurgedPayload{Count: count},
	})
	return count, nil
}

func (s *AccountService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
