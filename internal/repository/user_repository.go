package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/jperalta/cinema-ticketing/internal/model"
)

// UserRepo provides CRUD operations for registered users.  Users are
// keyed by email; bookings reference them through that email.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// mysqlErrDuplicateEntry is ER_DUP_ENTRY.
const mysqlErrDuplicateEntry = 1062

// Create inserts a new user.  The email must be unique; a collision is
// reported as ErrDuplicate.  The password must already be hashed by the
// caller.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `INSERT INTO users (email, first_name, last_name, phone, password_hash) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, u.Email, u.FirstName, u.LastName, u.Phone, u.PasswordHash)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry {
			return ErrDuplicate
		}
		return err
	}
	// Query back the row to populate the creation timestamp.
	const sel = `SELECT created_at FROM users WHERE email = ?`
	return r.db.QueryRowContext(ctx, sel, u.Email).Scan(&u.CreatedAt)
}

// GetByEmail returns the user with the given email or ErrNotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT email, first_name, last_name, phone, password_hash, created_at FROM users WHERE email = ?`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&u.Email, &u.FirstName, &u.LastName, &u.Phone, &u.PasswordHash, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
