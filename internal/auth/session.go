package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
	"github.com/ariefcatur/go-kasir-pos.git/internal/redisx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	errSessionExpired  = apperr.New(apperr.ErrUnauthenticated, "Sesi berakhir, silakan login kembali")
	errAccountInactive = apperr.New(apperr.ErrUnauthenticated, "Akun tidak aktif, hubungi admin")
)

// UserLookup loads the current user record behind a session.
type UserLookup interface {
	Get(ctx context.Context, id int64) (User, error)
}

type sessionClaims struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// SessionStore issues signed session tokens. The token only names a server side
// session record in Redis, so Logout takes effect before the token expires.
// When Users is set, every Resolve reloads the account so deactivation and role
// changes apply to live sessions.
type SessionStore struct {
	Redis  redis.Cmdable
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
	Users  UserLookup
}

func (s *SessionStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create stores a session for id and returns its token.
func (s *SessionStore) Create(ctx context.Context, id Identity) (string, error) {
	sid := uuid.NewString()
	now := s.now()
	claims := sessionClaims{
		Username: id.Username,
		Role:     id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sid,
			Subject:   strconv.FormatInt(id.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", apperr.System("sign session", err)
	}

	key := fmt.Sprintf(redisx.KeySession, sid)
	_, err = s.Redis.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, map[string]any{
			"user_id":  id.UserID,
			"username": id.Username,
			"role":     string(id.Role),
		})
		p.Expire(ctx, key, s.TTL)
		return nil
	})
	if err != nil {
		return "", apperr.System("store session", err)
	}
	return token, nil
}

func (s *SessionStore) parse(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Resolve returns the identity behind a live session token.
func (s *SessionStore) Resolve(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, apperr.New(apperr.ErrUnauthenticated, "silakan login terlebih dahulu")
	}
	claims, err := s.parse(token)
	if err != nil {
		return Identity{}, errSessionExpired
	}
	fields, err := s.Redis.HGetAll(ctx, fmt.Sprintf(redisx.KeySession, claims.ID)).Result()
	if err != nil {
		return Identity{}, apperr.System("load session", err)
	}
	if len(fields) == 0 {
		return Identity{}, errSessionExpired
	}
	uid, err := strconv.ParseInt(fields["user_id"], 10, 64)
	if err != nil {
		return Identity{}, errSessionExpired
	}
	if s.Users == nil {
		return Identity{UserID: uid, Username: fields["username"], Role: Role(fields["role"])}, nil
	}

	u, err := s.Users.Get(ctx, uid)
	if errors.Is(err, apperr.ErrNotFound) {
		return Identity{}, errSessionExpired
	}
	if err != nil {
		return Identity{}, apperr.System("load session user", err)
	}
	if !u.Active {
		return Identity{}, errAccountInactive
	}
	return u.Identity(), nil
}

// Logout deletes the session behind token. Expired or unknown tokens are ignored.
func (s *SessionStore) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil
		}
		return errSessionExpired
	}
	if err := s.Redis.Del(ctx, fmt.Sprintf(redisx.KeySession, claims.ID)).Err(); err != nil {
		return apperr.System("delete session", err)
	}
	return nil
}
