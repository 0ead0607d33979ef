package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/devhubhq/devhub/internal/common"
	"github.com/devhubhq/devhub/internal/dbx"
	"github.com/devhubhq/devhub/internal/server/auth"
	"github.com/devhubhq/devhub/internal/server/config"
	"github.com/devhubhq/devhub/internal/server/models"
	"github.com/devhubhq/devhub/internal/server/repositories/repomanager"
)

// persistenceTokenBytes is the entropy of the session cookie value
// (hex-encoded, so the string is twice as long).
const persistenceTokenBytes = 32

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService implements account lifecycle and both authentication modes:
// stateless JWT pairs and cookie sessions backed by the persistence token.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

func (s *UserService) generateTokenPair(user *models.User) (*TokenPair, error) {
	accessToken, err := auth.IssueAccessToken(user.ID, user.Email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}
	refreshToken, err := auth.IssueRefreshToken(user.ID, s.jwtSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func validateNewUser(name, email, password string) *ValidationError {
	var msgs []string
	if name == "" {
		msgs = append(msgs, "Name can't be blank")
	}
	if email == "" {
		msgs = append(msgs, "Email can't be blank")
	}
	msgs = append(msgs, auth.ValidatePassword(password)...)
	if len(msgs) > 0 {
		return NewValidationError(msgs...)
	}
	return nil
}

// Register creates a new account and opens a session for it: the returned
// pair is ready to use and the stored persistence token matches the cookie
// the handler will set.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, *TokenPair, error) {
	email = auth.NormalizeEmail(email)

	if verr := validateNewUser(name, email, password); verr != nil {
		return nil, nil, verr
	}

	digest, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("error hashing password: %w", err)
	}

	persistenceToken, err := common.MakeRandHexString(persistenceTokenBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("error generating persistence token: %w", err)
	}

	user := &models.User{
		Name:             name,
		Email:            email,
		PasswordDigest:   digest,
		PersistenceToken: persistenceToken,
	}

	repo := s.repomanager.Users(s.db)

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, nil, NewValidationError("Email has already been taken")
		}
		return nil, nil, fmt.Errorf("error creating user: %w", err)
	}

	tokenPair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokenPair, nil
}

// Authenticate verifies an email/password pair. The failure mode is a
// single generic error whether the account is missing or the password is
// wrong.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, auth.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordDigest, password) {
		return nil, common.ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates the credentials and opens a session: the persistence
// token is rotated (invalidating older cookies), the login counter is
// bumped, and a fresh token pair is issued.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	persistenceToken, err := common.MakeRandHexString(persistenceTokenBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("error generating persistence token: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		if err := repo.UpdatePersistenceToken(ctx, user.ID, persistenceToken); err != nil {
			return fmt.Errorf("error rotating persistence token: %w", err)
		}
		if err := repo.IncrementLoginCount(ctx, user.ID); err != nil {
			return fmt.Errorf("error incrementing login count: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	user.PersistenceToken = persistenceToken
	user.LoginCount++

	tokenPair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokenPair, nil
}

// RefreshTokenPair exchanges a valid refresh token for a new pair. The user
// is re-fetched so a deleted account cannot mint new tokens.
func (s *UserService) RefreshTokenPair(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := auth.VerifyToken(refreshToken, s.jwtSecret, auth.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	return s.generateTokenPair(user)
}

// UserFromAccessToken resolves a bearer access token to its live user
// record.
func (s *UserService) UserFromAccessToken(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := auth.VerifyToken(accessToken, s.jwtSecret, auth.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	return user, nil
}

// SessionFromCookie resolves a session cookie value to its user. The value
// must equal a current persistence token; anything else is an anonymous
// request, not an error worth distinguishing.
func (s *UserService) SessionFromCookie(ctx context.Context, cookieValue string) (*models.User, error) {
	if cookieValue == "" {
		return nil, common.ErrorUnauthorized
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByPersistenceToken(ctx, cookieValue)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	return user, nil
}

// DestroySession rotates the persistence token so every outstanding cookie
// for the account stops authenticating.
func (s *UserService) DestroySession(ctx context.Context, userID string) error {
	persistenceToken, err := common.MakeRandHexString(persistenceTokenBytes)
	if err != nil {
		return fmt.Errorf("error generating persistence token: %w", err)
	}

	repo := s.repomanager.Users(s.db)

	if err := repo.UpdatePersistenceToken(ctx, userID, persistenceToken); err != nil {
		return fmt.Errorf("error rotating persistence token: %w", err)
	}
	return nil
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

func (s *UserService) Find(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errors.New("User not found")
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

// Create adds an account on behalf of an administrator.
func (s *UserService) Create(ctx context.Context, name, email, password string, admin bool) (*models.User, error) {
	user, _, err := s.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	if admin {
		user.Admin = true
		if err := s.repomanager.Users(s.db).Update(ctx, user); err != nil {
			return nil, fmt.Errorf("error updating user: %w", err)
		}
	}
	return user, nil
}

// UpdateUserParams carries optional field updates; nil means "leave as is".
type UpdateUserParams struct {
	Name  *string
	Email *string
}

func (s *UserService) Update(ctx context.Context, id string, params UpdateUserParams) (*models.User, error) {
	user, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Email != nil {
		user.Email = auth.NormalizeEmail(*params.Email)
	}
	if user.Name == "" {
		return nil, NewValidationError("Name can't be blank")
	}
	if user.Email == "" {
		return nil, NewValidationError("Email can't be blank")
	}

	if err := s.repomanager.Users(s.db).Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, NewValidationError("Email has already been taken")
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return user, nil
}

// Delete removes an account. Administrators cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, id, actorID string) error {
	if id == actorID {
		return errors.New("You cannot delete your own account")
	}

	if err := s.repomanager.Users(s.db).Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errors.New("User not found")
		}
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}

// Promote grants admin rights.
func (s *UserService) Promote(ctx context.Context, id string) (*models.User, error) {
	return s.setAdmin(ctx, id, true)
}

// Demote revokes admin rights. Administrators cannot demote themselves.
func (s *UserService) Demote(ctx context.Context, id, actorID string) (*models.User, error) {
	if id == actorID {
		return nil, errors.New("You cannot demote yourself")
	}
	return s.setAdmin(ctx, id, false)
}

func (s *UserService) setAdmin(ctx context.Context, id string, admin bool) (*models.User, error) {
	user, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Admin = admin
	if err := s.repomanager.Users(s.db).Update(ctx, user); err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return user, nil
}
