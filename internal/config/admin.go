package config

import (
	"context"
	"time"

	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/models"
	"github.com/theGenesisio/GenesisioAdmin-sub001/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// EnsureAdminUser creates the bootstrap admin account when it does not exist.
func EnsureAdminUser(ctx context.Context, adminRepo repository.AdminRepository, cfg *Config) error {
	admin, err := adminRepo.GetAdminByUsername(ctx, cfg.AdminUser)
	if err != nil {
		return err
	}
	if admin != nil {
		zap.L().Info("Admin user already exists", zap.String("username", cfg.AdminUser))
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPass), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin = &models.AdminAccount{
		Username:  cfg.AdminUser,
		Email:     cfg.AdminEmail,
		Password:  string(hashedPassword),
		Role:      "admin",
		CreatedAt: time.Now(),
	}
	if err := adminRepo.SaveAdmin(ctx, admin); err != nil {
		return err
	}

	zap.L().Info("Default admin user created", zap.String("username", cfg.AdminUser))
	return nil
}
