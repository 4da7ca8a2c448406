package repository

import (
	"database/sql"
	"errors"

	"github.com/Ishtiak2/notes-app/models"

	"github.com/lib/pq"
)

type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (username or email already taken). Used to map races that slip
// past the explicit pre-checks.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func (r *UsersRepository) CreateUser(username, email, passwordHash string) (*models.User, error) {
	user := &models.User{Username: username, Email: email, PasswordHash: passwordHash}
	err := r.db.QueryRow(`
		INSERT INTO users (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		username, email, passwordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UsersRepository) GetUserByID(id int) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(`
		SELECT id, username, email, password, created_at
		FROM users
		WHERE id = $1`, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UsersRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(`
		SELECT id, username, email, password, created_at
		FROM users
		WHERE username = $1`, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UsernameOrEmailTaken reports whether any user other than excludeUserID
// already holds the given username or email.
func (r *UsersRepository) UsernameOrEmailTaken(username, email string, excludeUserID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE (username = $1 OR email = $2) AND id != $3
		)`, username, email, excludeUserID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UsersRepository) UpdateProfile(id int, username, email string) error {
	_, err := r.db.Exec(`
		UPDATE users SET username = $1, email = $2
		WHERE id = $3`, username, email, id)
	return err
}

func (r *UsersRepository) UpdatePassword(id int, passwordHash string) error {
	_, err := r.db.Exec(`
		UPDATE users SET password = $1
		WHERE id = $2`, passwordHash, id)
	return err
}

// DeleteUser removes the user row; owned notes go with it through the
// ON DELETE CASCADE rule on notes.user_id. Returns false when no row matched.
func (r *UsersRepository) DeleteUser(id int) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
