package auth

import (
	"strings"
	"time"

	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
)

const MinPasswordLength = 4

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u User) Identity() Identity {
	return Identity{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// UserInput is the admin form for adding or editing an account. An empty
// Password on edit keeps the current one.
type UserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

func (in UserInput) Normalize() UserInput {
	in.Username = strings.TrimSpace(in.Username)
	in.Role = Role(strings.ToLower(strings.TrimSpace(string(in.Role))))
	return in
}

func (in UserInput) validate(passwordRequired bool) error {
	if in.Username == "" {
		return apperr.Validation("Username tidak boleh kosong")
	}
	if passwordRequired || in.Password != "" {
		if len(in.Password) < MinPasswordLength {
			return apperr.Validation("Password minimal %d karakter", MinPasswordLength)
		}
	}
	if !in.Role.Valid() {
		return apperr.Validation("Role tidak valid")
	}
	return nil
}
