package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type User struct {
	ID           string // username
	FirstName    string
	LastName     string
	Email        string
	IsAdmin      bool
	PasswordHash *string
	CreatedAt    time.Time
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
}

type pgUserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &pgUserRepository{pool: pool}
}

const userColumns = `id, first_name, last_name, email, is_admin, password_hash, created_at`

func (r *pgUserRepository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, email, is_admin, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.IsAdmin, user.PasswordHash,
	).Scan(&user.CreatedAt)
	return mapWriteErr(err)
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user := &User{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.IsAdmin, &user.PasswordHash, &user.CreatedAt,
	)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) FindByIDs(ctx context.Context, ids []string) ([]*User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1) ORDER BY id`
	return r.scanUsers(ctx, query, ids)
}

func (r *pgUserRepository) FindAll(ctx context.Context) ([]*User, error) {
	return r.scanUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY last_name, first_name`)
}

func (r *pgUserRepository) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET is_admin = $2 WHERE id = $1`, id, isAdmin)
	return err
}

func (r *pgUserRepository) scanUsers(ctx context.Context, query string, args ...interface{}) ([]*User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(
			&user.ID, &user.FirstName, &user.LastName, &user.Email,
			&user.IsAdmin, &user.PasswordHash, &user.CreatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
