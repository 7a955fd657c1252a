package seeders

import (
	"context"

	"github.com/rishavanand/bazario/app/models"
	"github.com/rishavanand/bazario/app/repositories"
	"github.com/rishavanand/bazario/config"
	"github.com/rishavanand/bazario/pkg/apperr"
	"github.com/rishavanand/bazario/pkg/auth"
	"github.com/rishavanand/bazario/pkg/crypt"
	"github.com/rishavanand/bazario/pkg/logger"
)

func init() {
	Register("01_admin_user", seedAdminUser)
}

// seedAdminUser creates the initial admin account. Credentials come from
// ADMIN_EMAIL / ADMIN_PASSWORD; the password default is dev-only.
func seedAdminUser(ctx context.Context) error {
	users := repositories.NewUserRepository()

	email := config.Get("ADMIN_EMAIL", "admin@bazario.app")
	if _, err := users.FindByEmail(ctx, email); err == nil {
		return nil // already seeded
	}

	hash, err := auth.HashPassword(config.Get("ADMIN_PASSWORD", "changeme123"))
	if err != nil {
		return err
	}
	answer, err := crypt.Encrypt(config.Get("ADMIN_ANSWER", "bazario"))
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     "Admin",
		Email:    email,
		Password: hash,
		Phone:    "0000000000",
		Address:  "HQ",
		Answer:   answer,
		Role:     models.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		// A concurrent seed run hitting the unique index is fine.
		if apperr.KindOf(err) == apperr.KindConflict {
			return nil
		}
		return err
	}

	logger.Info("seeders: admin user created", "email", email)
	return nil
}
