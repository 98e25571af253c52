// internal/repository/user_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/taskdeck/internal/models"
	"github.com/gurkanbulca/taskdeck/pkg/auth"
)

// UserRepository is the credential store: it persists user records and
// verifies login credentials.
type UserRepository struct {
	db        *sqlx.DB
	passwords *auth.PasswordManager
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{
		db:        db,
		passwords: auth.NewPasswordManager(),
	}
}

// Register hashes the password and inserts a new user row. It returns
// ErrDuplicateCredential when the username or email is already taken.
func (r *UserRepository) Register(ctx context.Context, username, email, password string) (int64, error) {
	hash, err := r.passwords.HashPassword(password)
	if err != nil {
		return 0, err
	}

	query := r.db.Rebind(
		"INSERT INTO users (username, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
	)
	args := []interface{}{username, email, hash, time.Now().UTC()}

	id, err := insertReturningID(ctx, r.db, query, args)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateCredential
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// dummyHash is a valid bcrypt digest compared against when the username is
// unknown, so that path costs the same as a wrong password.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// Authenticate looks up the user by username and verifies the password.
// A missing user or a wrong password both return (nil, nil): invalid
// credentials are an expected outcome, not a failure.
func (r *UserRepository) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	query := r.db.Rebind("SELECT * FROM users WHERE username = ?")
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = r.passwords.ComparePassword(dummyHash, password)
			return nil, nil
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	if err := r.passwords.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil
	}
	return &user, nil
}

// insertReturningID runs an INSERT and reports the generated id, papering
// over the lastval/RETURNING split between the drivers.
func insertReturningID(ctx context.Context, db *sqlx.DB, query string, args []interface{}) (int64, error) {
	if db.DriverName() == "postgres" {
		var id int64
		err := db.QueryRowxContext(ctx, query+" RETURNING id", args...).Scan(&id)
		return id, err
	}

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
