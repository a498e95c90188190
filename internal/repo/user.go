package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/quote-api/internal/models"
	"github.com/google/uuid"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Find By Email
// ==========================

// FindByEmail returns (nil, nil) when no user has the given email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "find user by email", Err: err}
	}

	return user, nil
}

// ==========================
// Create User
// ==========================

// Create inserts a user with a store-assigned id. A second user with the same
// email fails with ErrConstraint.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (id, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := checkRequired(user); err != nil {
		return nil, err
	}

	err := r.DB.QueryRowContext(ctx, query, user.ID, username, email, passwordHash).
		Scan(&user.CreatedAt)

	if err != nil {
		return nil, classify("create user", err)
	}

	return user, nil
}
