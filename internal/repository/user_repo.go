package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"parkhouse/internal/db"
	"parkhouse/internal/engine"

	"github.com/lib/pq"
)

type UserRepository interface {
	Create(ctx context.Context, user *db.User) error
	GetByUsername(ctx context.Context, username string) (*db.User, error)
	GetByID(ctx context.Context, id int) (*db.User, error)
	ListByRole(ctx context.Context, role string) ([]db.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(conn *sql.DB) UserRepository {
	return &userRepository{db: conn}
}

func (r *userRepository) Create(ctx context.Context, user *db.User) error {
	query := `
		INSERT INTO users (username, password_hash, role, email, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.Role, user.Email, user.Phone,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: username %q already taken", engine.ErrValidation, user.Username)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*db.User, error) {
	return r.get(ctx, `WHERE username = $1`, username)
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*db.User, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *userRepository) get(ctx context.Context, where string, arg any) (*db.User, error) {
	u := &db.User{}
	query := `SELECT id, username, password_hash, role, email, phone, created_at FROM users ` + where
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Email, &u.Phone, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user", engine.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role string) ([]db.User, error) {
	query := `
		SELECT id, username, password_hash, role, email, phone, created_at
		FROM users WHERE role = $1
		ORDER BY username`
	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []db.User
	for rows.Next() {
		var u db.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Email, &u.Phone, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
