package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mbrou/shop-backend/internal/hash"
	"github.com/mbrou/shop-backend/internal/logging"
	"github.com/mbrou/shop-backend/internal/models"
)

// SeedAdmin provisions the configured admin account at startup. The admin is
// a normal user row with role "admin"; core logic never compares emails.
func SeedAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	if email == "" {
		return nil
	}
	if password == "" {
		return fmt.Errorf("seed admin: password required for %s", email)
	}

	var user models.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashed, err := hash.HashPassword(password)
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		user = models.User{Email: email, PasswordHash: hashed, Role: "admin"}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		logging.FromContext(ctx).Info("seed_admin_created", "user_id", user.ID)
	case err != nil:
		return fmt.Errorf("seed admin: %w", err)
	default:
		if user.Role != "admin" {
			if err := db.WithContext(ctx).Model(&user).Update("role", "admin").Error; err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
			logging.FromContext(ctx).Info("seed_admin_promoted", "user_id", user.ID)
		}
	}
	return nil
}
