// Command seeduser creates the first admin account, or resets its password
// and privileges when it already exists.
//
//	seeduser --username admin --password 's3cret!' --email admin@koal.local
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"koalgroup/internal/config"
	"koalgroup/internal/infra"
	"koalgroup/internal/model"
	"koalgroup/internal/policy"
	"koalgroup/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	username := pflag.String("username", "admin", "admin username")
	password := pflag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "admin password (default $SEED_ADMIN_PASSWORD)")
	email := pflag.String("email", "", "admin email")
	pflag.Parse()

	if len(*password) < 8 {
		log.Fatal().Msg("a password of at least 8 characters is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	u, err := users.FindByUsername(ctx, *username)
	exists := err == nil
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		u = &model.User{Username: *username}
	case err != nil:
		log.Fatal().Err(err).Msg("lookup failed")
	}

	u.PasswordHash = string(hash)
	u.Role = model.RoleAdmin
	u.IsSuperuser, u.IsStaff, u.IsActive = true, true, true
	if *email != "" {
		u.Email = *email
	}

	if exists {
		err = users.Update(ctx, u)
	} else {
		err = users.Create(ctx, u)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("save failed")
	}
	// Read back through the normal path so a broken row fails loudly here.
	if _, err := users.FindByID(ctx, policy.All(), u.ID); err != nil {
		log.Fatal().Err(err).Msg("verify failed")
	}
	log.Info().Str("username", u.Username).Str("id", u.ID.String()).Msg("admin user ready")
}
