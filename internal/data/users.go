package data

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/aoideee/book-catalog/internal/validator"
)

// User is a registered account. The password hash never leaves the server.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
}

// UserModel creates and authenticates users.
type UserModel struct {
	DB *sqlx.DB
	// HashCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	HashCost int
}

// ValidateCredentials records blank usernames or passwords in v.
func ValidateCredentials(v *validator.Validator, username, password string) {
	v.Check(validator.NotBlank(username), "username", "must be provided")
	v.Check(validator.NotBlank(password), "password", "must be provided")
}

func (m UserModel) cost() int {
	if m.HashCost == 0 {
		return bcrypt.DefaultCost
	}
	return m.HashCost
}

// Insert registers username with a bcrypt hash of password.
// Returns ErrDuplicateUsername if the username is already taken.
func (m UserModel) Insert(ctx context.Context, username, password string) (*User, error) {
	v := validator.New()
	if ValidateCredentials(v, username, password); !v.Valid() {
		return nil, &ValidationError{Errors: v.Errors}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost())
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, &ValidationError{Errors: map[string]string{"password": "must not be more than 72 bytes long"}}
	}
	if err != nil {
		return nil, err
	}

	user := User{Username: strings.TrimSpace(username), PasswordHash: string(hash)}

	err = withTx(ctx, m.DB, "create user", func(tx *sqlx.Tx) error {
		var taken bool
		err := tx.GetContext(ctx, &taken, tx.Rebind(`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`), user.Username)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateUsername
		}

		err = tx.GetContext(ctx, &user.ID, tx.Rebind(`
            INSERT INTO users (username, password_hash)
            VALUES (?, ?)
            RETURNING id`), user.Username, user.PasswordHash)
		if isUniqueViolation(err) {
			return ErrDuplicateUsername
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByUsername looks a user up by exact username.
// Returns ErrRecordNotFound if there is no such user.
func (m UserModel) GetByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := m.DB.GetContext(ctx, &user, m.DB.Rebind(`
		SELECT id, username, password_hash
		FROM users
		WHERE username = ?`), strings.TrimSpace(username))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, &StorageError{Op: "get user", Err: err}
		}
	}
	return &user, nil
}

var (
	dummyMu     sync.Mutex
	dummyHashes = make(map[int][]byte)
)

// dummyHash returns a hash made at cost, so an unknown username costs the
// same bcrypt work as a wrong password. Hashes are computed once per cost.
func dummyHash(cost int) []byte {
	dummyMu.Lock()
	defer dummyMu.Unlock()

	if h, ok := dummyHashes[cost]; ok {
		return h
	}
	h, err := bcrypt.GenerateFromPassword([]byte("catalog-dummy-password"), cost)
	if err != nil {
		h, _ = bcrypt.GenerateFromPassword([]byte("catalog-dummy-password"), bcrypt.DefaultCost)
	}
	dummyHashes[cost] = h
	return h
}

// Authenticate returns the user when password matches the stored hash.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (m UserModel) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := m.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, ErrRecordNotFound):
		_ = bcrypt.CompareHashAndPassword(dummyHash(m.cost()), []byte(password))
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
