package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/platform/logger"
	"github.com/phrazzld/recipe-api/internal/service/auth"
	"github.com/phrazzld/recipe-api/internal/store"
)

// UserService provides account operations. Users only ever act on their own account.
type UserService interface {
	// CreateUser registers a new user with the specified email and password.
	// Returns store.ErrEmailExists if the normalized email is taken.
	CreateUser(ctx context.Context, email, password string) (*domain.User, error)

	// Authenticate returns the user whose email and password match.
	// Returns ErrInvalidCredentials for an unknown email or a wrong password.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// GetUserByEmail retrieves a user by their email address
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateUser changes the email and/or password of the user. Nil arguments
	// leave the field unchanged. Following the pattern of getting the full
	// user first, then updating only the supplied fields.
	UpdateUser(ctx context.Context, userID uuid.UUID, email, password *string) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	verifier  auth.PasswordVerifier
	db        *sql.DB
	logger    *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	verifier auth.PasswordVerifier,
	db *sql.DB,
	logger *slog.Logger,
) *UserServiceImpl {
	return &UserServiceImpl{
		userStore: userStore,
		verifier:  verifier,
		db:        db,
		logger:    logger.With(slog.String("component", "user_service")),
	}
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		logFailure(log, "get user", err, slog.String("user_id", userID.String()))
		return nil, NewServiceError("user", "get", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by their email address
func (s *UserServiceImpl) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		logFailure(log, "get user by email", err)
		return nil, NewServiceError("user", "get_by_email", err)
	}

	return user, nil
}

// CreateUser creates a new user with the specified email and password
// Uses a transaction to ensure atomicity of the operation
func (s *UserServiceImpl) CreateUser(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, password)
	if err != nil {
		log.Debug("rejected user registration", slog.String("error", err.Error()))
		return nil, NewServiceError("user", "create", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		logFailure(log, "create user", err)
		return nil, NewServiceError("user", "create", err)
	}

	log.Info("user created", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Authenticate verifies an email/password pair.
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			log.Error("failed to look up user for authentication", slog.String("error", err.Error()))
			return nil, NewServiceError("user", "authenticate", err)
		}
		// Spend the same time as a real comparison so unknown emails are indistinguishable by timing.
		s.verifier.CompareDummy(password)
		log.Debug("authentication failed: unknown email")
		return nil, NewServiceError("user", "authenticate", ErrInvalidCredentials)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("authentication failed: password mismatch", slog.String("user_id", user.ID.String()))
		return nil, NewServiceError("user", "authenticate", ErrInvalidCredentials)
	}

	return user, nil
}

// UpdateUser updates a user's email and/or password in a single transaction.
func (s *UserServiceImpl) UpdateUser(
	ctx context.Context,
	userID uuid.UUID,
	email, password *string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if password != nil {
		if err := domain.ValidatePassword(*password); err != nil {
			return nil, NewServiceError("user", "update", err)
		}
	}

	var updated *domain.User
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if email != nil {
			user.Email = domain.NormalizeEmail(*email)
		}
		if password != nil {
			// UserStore.Update hashes the plaintext password
			user.Password = *password
		}

		if err := txStore.Update(ctx, user); err != nil {
			return err
		}

		user.Password = ""
		updated = user
		return nil
	})
	if err != nil {
		logFailure(log, "update user", err, slog.String("user_id", userID.String()))
		return nil, NewServiceError("user", "update", err)
	}

	log.Info("user updated",
		slog.String("user_id", userID.String()),
		slog.Bool("email_changed", email != nil),
		slog.Bool("password_changed", password != nil))

	return updated, nil
}
