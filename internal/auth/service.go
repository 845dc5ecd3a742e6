package auth

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the persistence behind user management.
type UserRepository interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id int64) (User, error)
	ByUsername(ctx context.Context, username string) (User, error)
	UsernameTaken(ctx context.Context, username string, exceptID int64) (bool, error)
	Create(ctx context.Context, username, hash string, role Role) (User, error)
	Update(ctx context.Context, id int64, username string, role Role) (User, error)
	SetPassword(ctx context.Context, id int64, hash string) error
	SetActive(ctx context.Context, id int64, active bool) error
}

var errBadCredentials = apperr.New(apperr.ErrUnauthenticated, "Username atau password salah!")

// dipakai saat username tidak ada supaya waktu respon tetap sama
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("gacoan-dummy"), bcrypt.DefaultCost)
	return h
})

type Service struct {
	Repo UserRepository
	// Cost is the bcrypt cost for new hashes; zero means bcrypt.DefaultCost.
	Cost int
}

func (s *Service) cost() int {
	if s.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return s.Cost
}

func (s *Service) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return "", apperr.System("hash password", err)
	}
	return string(h), nil
}

// Authenticate checks a username/password pair. Unknown users, wrong passwords
// and inactive accounts all fail with the same error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Identity, error) {
	u, err := s.Repo.ByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			return Identity{}, system("authenticate", err)
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return Identity{}, errBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil || !u.Active {
		return Identity{}, errBadCredentials
	}
	log.Printf("auth: %s logged in as %s", u.Username, u.Role)
	return u.Identity(), nil
}

func (s *Service) ChangePassword(ctx context.Context, id Identity, oldPassword, newPassword, confirm string) error {
	if id.IsZero() {
		return apperr.New(apperr.ErrUnauthenticated, "silakan login terlebih dahulu")
	}
	u, err := s.Repo.Get(ctx, id.UserID)
	if err != nil {
		return system("get user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		return apperr.Validation("Password lama salah!")
	}
	if newPassword != confirm {
		return apperr.Validation("Password baru dan konfirmasi password tidak sama!")
	}
	if len(newPassword) < MinPasswordLength {
		return apperr.Validation("Password minimal %d karakter!", MinPasswordLength)
	}
	h, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.SetPassword(ctx, u.ID, h); err != nil {
		return system("set password", err)
	}
	log.Printf("auth: %s changed password", id.Username)
	return nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	us, err := s.Repo.List(ctx)
	if err != nil {
		return nil, system("list users", err)
	}
	return us, nil
}

func (s *Service) AddUser(ctx context.Context, actor Identity, in UserInput) (User, error) {
	in = in.Normalize()
	if err := in.validate(true); err != nil {
		return User{}, err
	}
	if err := s.ensureUniqueUsername(ctx, in.Username, 0); err != nil {
		return User{}, err
	}
	h, err := s.hash(in.Password)
	if err != nil {
		return User{}, err
	}
	u, err := s.Repo.Create(ctx, in.Username, h, in.Role)
	if err != nil {
		return User{}, system("create user", err)
	}
	log.Printf("auth: %s added user %s (%s)", actor.Username, u.Username, u.Role)
	return u, nil
}

// EditUser renames an account, changes its role and, when in.Password is set,
// resets its password.
func (s *Service) EditUser(ctx context.Context, actor Identity, id int64, in UserInput) (User, error) {
	in = in.Normalize()
	if err := in.validate(false); err != nil {
		return User{}, err
	}
	if _, err := s.Repo.Get(ctx, id); err != nil {
		return User{}, system("get user", err)
	}
	if err := s.ensureUniqueUsername(ctx, in.Username, id); err != nil {
		return User{}, err
	}
	u, err := s.Repo.Update(ctx, id, in.Username, in.Role)
	if err != nil {
		return User{}, system("update user", err)
	}
	if in.Password != "" {
		h, err := s.hash(in.Password)
		if err != nil {
			return User{}, err
		}
		if err := s.Repo.SetPassword(ctx, id, h); err != nil {
			return User{}, system("set password", err)
		}
	}
	log.Printf("auth: %s edited user id=%d", actor.Username, id)
	return u, nil
}

// ToggleActive flips the active flag of another user's account.
func (s *Service) ToggleActive(ctx context.Context, actor Identity, id int64) (User, error) {
	if actor.UserID == id {
		return User{}, apperr.Validation("Tidak dapat menonaktifkan akun sendiri")
	}
	u, err := s.Repo.Get(ctx, id)
	if err != nil {
		return User{}, system("get user", err)
	}
	u.Active = !u.Active
	if err := s.Repo.SetActive(ctx, id, u.Active); err != nil {
		return User{}, system("set active", err)
	}
	status := "dinonaktifkan"
	if u.Active {
		status = "diaktifkan"
	}
	log.Printf("auth: %s: user %s %s", actor.Username, u.Username, status)
	return u, nil
}

func (s *Service) ensureUniqueUsername(ctx context.Context, username string, exceptID int64) error {
	taken, err := s.Repo.UsernameTaken(ctx, username, exceptID)
	if err != nil {
		return system("username check", err)
	}
	if taken {
		return apperr.New(apperr.ErrDuplicateName, "Username sudah digunakan")
	}
	return nil
}

func system(op string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	log.Printf("auth: %s: %v", op, err)
	return apperr.System(op, err)
}
