package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/movie-api/internal/model"
	"github.com/iliyamo/movie-api/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts a user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash) VALUES (?,?)",
		email, hash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(ctx,
		"SELECT id,email,password_hash,firstName,lastName,dob,address FROM users WHERE email=? LIMIT 1",
		email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(ctx,
		"SELECT id,email,password_hash,firstName,lastName,dob,address FROM users WHERE id=? LIMIT 1",
		id)
}

// UpdateProfile overwrites the optional profile fields of the user with the
// given email.  sql.ErrNoRows is returned when the email is unknown.
func (r *UserRepo) UpdateProfile(ctx context.Context, email, firstName, lastName string, dob time.Time, address string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET firstName=?, lastName=?, dob=?, address=? WHERE email=?",
		firstName, lastName, dob, address, email)
	if err != nil {
		return err
	}
	// MySQL reports 0 affected rows for a no-op update of identical values,
	// so confirm existence instead of relying on RowsAffected.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := r.GetByEmail(ctx, email); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepo) scanOne(ctx context.Context, query string, arg any) (model.User, error) {
	var (
		u         model.User
		firstName sql.NullString
		lastName  sql.NullString
		dob       sql.NullTime
		address   sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &firstName, &lastName, &dob, &address)
	if err != nil {
		return model.User{}, err
	}
	if firstName.Valid {
		u.FirstName = &firstName.String
	}
	if lastName.Valid {
		u.LastName = &lastName.String
	}
	if dob.Valid {
		t := dob.Time
		u.DOB = &t
	}
	if address.Valid {
		u.Address = &address.String
	}
	return u, nil
}
