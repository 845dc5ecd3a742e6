package auth

import (
	"fmt"

	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleCashier }

// Identity is the authenticated actor attached to every core operation that
// needs attribution or authorization.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (id Identity) IsZero() bool { return id.Username == "" }

// Authorize reports whether id may perform an operation gated by required.
// Admin inherits every cashier capability.
func Authorize(id Identity, required Role) error {
	if id.IsZero() {
		return apperr.New(apperr.ErrUnauthenticated, "silakan login terlebih dahulu")
	}
	switch required {
	case RoleCashier:
		if id.Role == RoleCashier || id.Role == RoleAdmin {
			return nil
		}
	case RoleAdmin:
		if id.Role == RoleAdmin {
			return nil
		}
	}
	return &apperr.Error{
		Kind: apperr.ErrForbidden,
		Msg:  "Akses ditolak. Hanya admin yang dapat mengakses halaman ini.",
		Err:  fmt.Errorf("role %q lacks %q", id.Role, required),
	}
}
