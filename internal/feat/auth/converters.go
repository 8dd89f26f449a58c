package auth

import (
	"time"

	"github.com/formbase/formbase/internal/db/queries"
)

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// LoginResponse is the body returned by POST /auth/login.
type LoginResponse struct {
	Token     string       `json:"token"`
	Type      string       `json:"type"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

func fromQueriesUser(u queries.User) *User {
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

func toLoginResponse(s *Session) LoginResponse {
	return LoginResponse{
		Token:     s.Token,
		Type:      "Bearer",
		ExpiresAt: s.ExpiresAt,
		User:      toUserResponse(s.User),
	}
}
