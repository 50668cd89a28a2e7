package repository

import (
	"context"
	"database/sql"

	"hopskip/internal/database"
	"hopskip/internal/models"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT user_id, email, password_hash, first_name, surname, birthday,
		       registered_at, is_active, last_logged_in
		FROM users
		WHERE email = $1 AND is_active = TRUE`

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.UserID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.Surname,
		&user.Birthday,
		&user.RegisteredAt,
		&user.IsActive,
		&user.LastLoggedIn,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return user, err
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, first_name, surname, birthday)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id, registered_at, is_active, last_logged_in`

	return r.db.QueryRowContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.Surname,
		user.Birthday,
	).Scan(&user.UserID, &user.RegisteredAt, &user.IsActive, &user.LastLoggedIn)
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, userID int64) error {
	query := `UPDATE users SET last_logged_in = NOW() WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
