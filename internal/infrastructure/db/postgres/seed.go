package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/obituaryapp/obituary-api/internal/core/domain"
)

// Seed provisions the role catalog and, when credentials are configured, an
// admin account. Roles are created exactly once; reruns are no-ops.
func Seed(ctx context.Context, db *gorm.DB, adminEmail, adminPassword string, log zerolog.Logger) error {
	for _, name := range []string{domain.RoleAdmin, domain.RoleUser} {
		role := roleModel{Name: name}
		if err := db.WithContext(ctx).Where(roleModel{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}

	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	var existing userModel
	err := db.WithContext(ctx).Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var adminRole roleModel
	if err := db.WithContext(ctx).Where("name = ?", domain.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := userModel{
		ID:           uuid.NewString(),
		Email:        adminEmail,
		PasswordHash: string(hash),
		Roles:        []roleModel{adminRole},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return err
	}

	log.Info().Str("email", adminEmail).Msg("seeded admin account")
	return nil
}
