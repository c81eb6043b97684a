package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// User mirrors a row of the users table.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// Users bundles the account queries against the connection pool.
type Users struct {
	pool *pgxpool.Pool
}

// NewUsers returns a Users query helper backed by pool.
func NewUsers(pool *pgxpool.Pool) *Users {
	return &Users{pool: pool}
}

// ErrNoRows reports whether err means the query matched nothing.
func ErrNoRows(err error) bool {
	return err == pgx.ErrNoRows
}

// CreateUser inserts a new account and returns the stored row.
// A duplicate email surfaces as a unique violation (see IsUniqueViolation).
func (u *Users) CreateUser(ctx context.Context, email, passwordHash, name, role string) (User, error) {
	const q = `
		INSERT INTO users (email, password_hash, name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password_hash, name, role, created_at, last_login_at`

	var user User
	err := u.pool.QueryRow(ctx, q, email, passwordHash, name, role).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Role,
		&user.CreatedAt, &user.LastLoginAt,
	)
	return user, err
}

// GetUserByEmail fetches an account by its unique email.
func (u *Users) GetUserByEmail(ctx context.Context, email string) (User, error) {
	const q = `
		SELECT id, email, password_hash, name, role, created_at, last_login_at
		FROM users WHERE email = $1`

	var user User
	err := u.pool.QueryRow(ctx, q, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Role,
		&user.CreatedAt, &user.LastLoginAt,
	)
	return user, err
}

// GetUserByID fetches an account by id.
func (u *Users) GetUserByID(ctx context.Context, id string) (User, error) {
	const q = `
		SELECT id, email, password_hash, name, role, created_at, last_login_at
		FROM users WHERE id = $1`

	var user User
	err := u.pool.QueryRow(ctx, q, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Role,
		&user.CreatedAt, &user.LastLoginAt,
	)
	return user, err
}

// UpdateLastLogin stamps last_login_at with the current time.
func (u *Users) UpdateLastLogin(ctx context.Context, id string) error {
	const q = `UPDATE users SET last_login_at = now() WHERE id = $1`

	_, err := u.pool.Exec(ctx, q, id)
	return err
}
