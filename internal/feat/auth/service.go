package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/formbase/formbase/internal/db/queries"
	"github.com/formbase/formbase/pkg/fb/apperr"
	"github.com/formbase/formbase/pkg/fb/config"
	"github.com/formbase/formbase/pkg/fb/logger"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrInvalidCredentials = apperr.New(apperr.AuthenticationRequired, "Bad credentials")
	ErrUsernameTaken      = apperr.New(apperr.CredentialConflict, "Username is already taken!")
	ErrEmailInUse         = apperr.New(apperr.CredentialConflict, "Email is already in use!")
	ErrUserNotFound       = apperr.New(apperr.NotFound, "User not found")
)

const defaultTokenTTL = 24 * time.Hour

// Service defines the auth service interface.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*Session, error)
	ValidateToken(ctx context.Context, token string) (string, error)
	CreateUser(ctx context.Context, username, email, password, role string) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	CountUsers(ctx context.Context) (int64, error)
	TokenTTL() time.Duration
}

// DBProvider provides access to the database.
type DBProvider interface {
	GetDB() *sql.DB
}

type service struct {
	dbProvider DBProvider
	queries    *queries.Queries
	cfg        *config.Config
	log        logger.Logger
	signer     *tokenSigner
}

// NewService creates a new auth service.
func NewService(dbProvider DBProvider, cfg *config.Config, log logger.Logger) Service {
	return &service{
		dbProvider: dbProvider,
		cfg:        cfg,
		log:        log,
	}
}

func (s *service) Start(ctx context.Context) error {
	ttl := config.Duration(s.cfg.Auth.TokenTTL, defaultTokenTTL)

	secret := []byte(s.cfg.Auth.JWTSecret)
	if len(secret) == 0 {
		generated, err := randomSecret()
		if err != nil {
			return err
		}
		secret = generated
		s.log.Warn("No JWT secret configured, tokens will not survive a restart")
	}

	s.signer = newTokenSigner(secret, ttl)
	s.log.Infof("Auth service started (token TTL %v)", ttl)
	return nil
}

func (s *service) Stop(ctx context.Context) error {
	s.log.Info("Auth service stopped")
	return nil
}

func (s *service) ensureQueries() {
	if s.queries == nil && s.dbProvider != nil {
		s.queries = queries.New(s.dbProvider.GetDB())
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	s.ensureQueries()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	n, err := s.queries.CountUsersByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("cannot check username: %w", err)
	}
	if n > 0 {
		return nil, ErrUsernameTaken
	}

	n, err = s.queries.CountUsersByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("cannot check email: %w", err)
	}
	if n > 0 {
		return nil, ErrEmailInUse
	}

	user, err := s.CreateUser(ctx, req.Username, req.Email, req.Password, RoleUser)
	if err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Username)
	return user, nil
}

func (s *service) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	s.ensureQueries()

	row, err := s.queries.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("cannot get user: %w", err)
	}

	user := fromQueriesUser(row)
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, expires, err := s.signer.Sign(user, time.Now())
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, ExpiresAt: expires.UTC(), User: user}, nil
}

// ValidateToken checks the signature, issuer and expiry of token and returns
// the user id it was issued for.
func (s *service) ValidateToken(ctx context.Context, token string) (string, error) {
	claims, err := s.signer.Parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// CreateUser stores a user without sign-up validation. A unique violation
// raced past the pre-checks is still reported as a credential conflict.
func (s *service) CreateUser(ctx context.Context, username, email, password, role string) (*User, error) {
	s.ensureQueries()

	user, err := NewUser(username, email, password, role)
	if err != nil {
		return nil, fmt.Errorf("cannot create user: %w", err)
	}

	id, err := s.queries.CreateUser(ctx, queries.CreateUserParams{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	})
	if err != nil {
		switch {
		case isUniqueViolation(err, "users.username"):
			return nil, ErrUsernameTaken
		case isUniqueViolation(err, "users.email"):
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("cannot create user in database: %w", err)
	}
	user.ID = id

	return user, nil
}

func (s *service) GetUser(ctx context.Context, id int64) (*User, error) {
	s.ensureQueries()

	row, err := s.queries.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("cannot get user: %w", err)
	}

	return fromQueriesUser(row), nil
}

func (s *service) CountUsers(ctx context.Context) (int64, error) {
	s.ensureQueries()

	n, err := s.queries.CountUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot count users: %w", err)
	}
	return n, nil
}

func (s *service) TokenTTL() time.Duration {
	if s.signer == nil {
		return 0
	}
	return s.signer.ttl
}

func isUniqueViolation(err error, column string) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique && strings.Contains(sqliteErr.Error(), column)
}
