package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/zombar/categorizer/models"
)

// CreateUser inserts a new account. Email collisions return
// ErrDuplicateEmail.
func (db *DB) CreateUser(username, email, passwordHash string) (*models.User, error) {
	defer observe("create_user", time.Now())

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}

	err := db.conn.QueryRow(`
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`, user.ID, user.Username, user.Email, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves an account by email
func (db *DB) GetUserByEmail(email string) (*models.User, error) {
	defer observe("get_user_by_email", time.Now())
	return db.getUserWhere("email = $1", email)
}

// GetUserByID retrieves an account by id
func (db *DB) GetUserByID(id string) (*models.User, error) {
	defer observe("get_user_by_id", time.Now())
	return db.getUserWhere("id = $1", id)
}

func (db *DB) getUserWhere(condition string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	err := db.conn.QueryRow(`
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE `+condition,
		arg,
	).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
