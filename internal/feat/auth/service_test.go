package auth

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/formbase/formbase/internal/testutil"
	"github.com/formbase/formbase/pkg/fb/apperr"
	"github.com/formbase/formbase/pkg/fb/config"
	"github.com/formbase/formbase/pkg/fb/logger"
)

func newTestLogger() logger.Logger {
	return logger.NewNoopLogger()
}

func setupTestService(t *testing.T) Service {
	t.Helper()

	db := testutil.NewTestDB(t)
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret: "test-secret",
			TokenTTL:  "1h",
		},
	}

	svc := NewService(&testutil.TestDBProvider{DB: db}, cfg, newTestLogger())
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Failed to start service: %v", err)
	}
	t.Cleanup(func() { svc.Stop(context.Background()) })

	return svc
}

func TestServiceStart(t *testing.T) {
	tests := []struct {
		name     string
		tokenTTL string
		wantTTL  time.Duration
	}{
		{name: "valid TTL", tokenTTL: "2h", wantTTL: 2 * time.Hour},
		{name: "invalid TTL falls back to default", tokenTTL: "invalid", wantTTL: defaultTokenTTL},
		{name: "empty TTL falls back to default", tokenTTL: "", wantTTL: defaultTokenTTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Auth: config.AuthConfig{TokenTTL: tt.tokenTTL}}
			svc := NewService(nil, cfg, newTestLogger())
			if err := svc.Start(context.Background()); err != nil {
				t.Fatalf("Start() error = %v", err)
			}

			if got := svc.TokenTTL(); got != tt.wantTTL {
				t.Errorf("TokenTTL() = %v, want %v", got, tt.wantTTL)
			}
		})
	}
}

func TestServiceRegister(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("Failed to register first user: %v", err)
	}

	tests := []struct {
		name     string
		req      RegisterRequest
		wantErr  error
		wantKind apperr.Kind
	}{
		{
			name: "valid user",
			req:  RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret1"},
		},
		{
			name:    "username taken",
			req:     RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret1"},
			wantErr: ErrUsernameTaken,
		},
		{
			name:    "email in use",
			req:     RegisterRequest{Username: "carol", Email: "alice@example.com", Password: "secret1"},
			wantErr: ErrEmailInUse,
		},
		{
			name:     "username too short",
			req:      RegisterRequest{Username: "ab", Email: "ab@example.com", Password: "secret1"},
			wantKind: apperr.Validation,
		},
		{
			name:     "invalid email",
			req:      RegisterRequest{Username: "dave", Email: "not-an-email", Password: "secret1"},
			wantKind: apperr.Validation,
		},
		{
			name:     "password too short",
			req:      RegisterRequest{Username: "erin", Email: "erin@example.com", Password: "123"},
			wantKind: apperr.Validation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Register(ctx, tt.req)

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
				}
			case tt.wantKind != "":
				if !apperr.Is(err, tt.wantKind) {
					t.Errorf("Register() error = %v, want kind %s", err, tt.wantKind)
				}
			default:
				if err != nil {
					t.Fatalf("Register() error = %v", err)
				}
				if user.ID == 0 {
					t.Error("Register() returned user without ID")
				}
				if user.Role != RoleUser {
					t.Errorf("Role = %q, want %q", user.Role, RoleUser)
				}
				if user.PasswordHash == tt.req.Password {
					t.Error("Password was stored in plain text")
				}
			}
		})
	}
}

func TestServiceCreateUserUniqueViolation(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "alice", "alice@example.com", "secret1", RoleUser); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	_, err := svc.CreateUser(ctx, "alice", "new@example.com", "secret1", RoleUser)
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("CreateUser() duplicate username error = %v, want %v", err, ErrUsernameTaken)
	}

	_, err = svc.CreateUser(ctx, "newname", "alice@example.com", "secret1", RoleUser)
	if !errors.Is(err, ErrEmailInUse) {
		t.Errorf("CreateUser() duplicate email error = %v, want %v", err, ErrEmailInUse)
	}
}

func TestServiceAuthenticate(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Failed to register user: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{name: "valid credentials", username: "alice", password: "secret1"},
		{name: "wrong password", username: "alice", password: "wrong", wantErr: true},
		{name: "unknown user", username: "nobody", password: "secret1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.Authenticate(ctx, tt.username, tt.password)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Errorf("Authenticate() error = %v, want %v", err, ErrInvalidCredentials)
				}
				return
			}
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}

			if session.User.ID != registered.ID {
				t.Errorf("User.ID = %d, want %d", session.User.ID, registered.ID)
			}
			if !session.ExpiresAt.After(time.Now()) {
				t.Errorf("ExpiresAt = %v, want a future time", session.ExpiresAt)
			}

			userID, err := svc.ValidateToken(ctx, session.Token)
			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}
			if userID != strconv.FormatInt(registered.ID, 10) {
				t.Errorf("ValidateToken() = %q, want %d", userID, registered.ID)
			}
		})
	}
}

func TestServiceValidateToken(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	user := &User{ID: 7, Username: "alice", Role: RoleUser}

	valid, _, err := newTokenSigner([]byte("test-secret"), time.Hour).Sign(user, time.Now())
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	expired, _, err := newTokenSigner([]byte("test-secret"), -time.Hour).Sign(user, time.Now())
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	foreign, _, err := newTokenSigner([]byte("other-secret"), time.Hour).Sign(user, time.Now())
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		want    string
		wantErr bool
	}{
		{name: "valid token", token: valid, want: "7"},
		{name: "expired token", token: expired, wantErr: true},
		{name: "signed with another secret", token: foreign, wantErr: true},
		{name: "tampered token", token: valid + "x", wantErr: true},
		{name: "garbage", token: "not-a-jwt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ValidateToken(ctx, tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestServiceGetUser(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "alice", "alice@example.com", "secret1", RoleAdmin)
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	got, err := svc.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if got.Username != "alice" || !got.IsAdmin() {
		t.Errorf("GetUser() = %+v, want admin alice", got)
	}

	if _, err := svc.GetUser(ctx, created.ID+100); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUser() missing error = %v, want %v", err, ErrUserNotFound)
	}
}
