package auth

import (
	"strings"
	"time"

	"github.com/formbase/formbase/pkg/fb/validation"
	"golang.org/x/crypto/bcrypt"
)

// User represents an account that can own forms and author responses.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// NewUser creates a new user with a bcrypt hash of password.
func NewUser(username, email, password, role string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CheckPassword verifies if the provided password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims the identity fields. The password is kept as sent.
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
}

// Validate checks the sign-up constraints.
func (r RegisterRequest) Validate() error {
	var errs validation.ValidationErrors
	errs.Check(validation.RequiredString("username", r.Username))
	errs.Check(validation.StringLength("username", r.Username, 3, 20))
	errs.Check(validation.RequiredString("email", r.Email))
	errs.Check(validation.StringMaxLength("email", r.Email, 50))
	if validation.IsRequired(r.Email) {
		errs.Check(validation.Email("email", r.Email))
	}
	errs.Check(validation.StringLength("password", r.Password, 6, 40))
	return errs.Err()
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}
