package database

import (
	"context"
	"fmt"

	"github.com/example/trainbot/pkg/models"
)

// UserRepository handles database operations for users
type UserRepository struct{}

// NewUserRepository creates a new repository instance
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// GetByTelegramID returns a user by Telegram ID
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	query := DB.Rebind("SELECT telegram_id, username, first_name, last_name, is_admin, created_at, last_activity FROM users WHERE telegram_id = ?")
	if err := DB.GetContext(ctx, &user, query, telegramID); err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return &user, nil
}

// GetOrCreate returns the stored user, creating or refreshing the record on
// every interaction (last activity, current profile fields, admin flag).
func (r *UserRepository) GetOrCreate(ctx context.Context, user *models.User) (*models.User, error) {
	query := DB.Rebind(`
		INSERT INTO users (telegram_id, username, first_name, last_name, is_admin)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (telegram_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			is_admin = excluded.is_admin,
			last_activity = CURRENT_TIMESTAMP
	`)
	_, err := DB.ExecContext(ctx, query,
		user.TelegramID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.IsAdmin,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %v", err)
	}

	return r.GetByTelegramID(ctx, user.TelegramID)
}

// Count returns the total number of known users
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM users"); err != nil {
		return 0, fmt.Errorf("failed to count users: %v", err)
	}
	return count, nil
}
