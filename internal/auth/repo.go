package auth

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const userColumns = `id, username, password_hash, role, is_active, created_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.Active, &u.CreatedAt); err != nil {
		return User{}, err
	}
	u.Role = Role(role)
	return u, nil
}

func (r *Repo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("User %d tidak ditemukan", id)
	}
	return u, err
}

func (r *Repo) ByUsername(ctx context.Context, username string) (User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("User %s tidak ditemukan", username)
	}
	return u, err
}

func (r *Repo) UsernameTaken(ctx context.Context, username string, exceptID int64) (bool, error) {
	var taken bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username=$1 AND id<>$2)`, username, exceptID).Scan(&taken)
	return taken, err
}

func (r *Repo) Create(ctx context.Context, username, hash string, role Role) (User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `
		INSERT INTO users(username, password_hash, role)
		VALUES ($1,$2,$3)
		RETURNING `+userColumns, username, hash, string(role)))
	return u, mapUserErr(err)
}

func (r *Repo) Update(ctx context.Context, id int64, username string, role Role) (User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `
		UPDATE users SET username=$2, role=$3 WHERE id=$1
		RETURNING `+userColumns, id, username, string(role)))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("User %d tidak ditemukan", id)
	}
	return u, mapUserErr(err)
}

func (r *Repo) SetPassword(ctx context.Context, id int64, hash string) error {
	ct, err := r.DB.Exec(ctx, `UPDATE users SET password_hash=$2 WHERE id=$1`, id, hash)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFound("User %d tidak ditemukan", id)
	}
	return nil
}

func (r *Repo) SetActive(ctx context.Context, id int64, active bool) error {
	ct, err := r.DB.Exec(ctx, `UPDATE users SET is_active=$2 WHERE id=$1`, id, active)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFound("User %d tidak ditemukan", id)
	}
	return nil
}

func mapUserErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return apperr.New(apperr.ErrDuplicateName, "Username sudah digunakan")
		case "23514":
			return apperr.Validation("Role tidak valid")
		}
	}
	return err
}
