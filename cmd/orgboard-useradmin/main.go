package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	autherrors "orgboard/internal/auth/errors"
	"orgboard/internal/auth/repository"
	"orgboard/pkg/config"
	"orgboard/pkg/model"
)

const JobName = "orgboard-useradmin"

// Creates or updates an administrator account out of band, for when
// nobody can log in anymore.
func main() {
	username := flag.String("username", "admin", "username of the administrator account")
	password := flag.String("password", "", "new password (required)")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	if *password == "" {
		cfg.Log.Fatal("A password is required (-password)")
	}

	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	if err := upsertAdmin(ctx, cfg, *username, *password); err != nil {
		cfg.Log.Fatal("Failed to upsert administrator", "username", *username, "error", err)
	}
	fmt.Printf("Administrator %q is ready.\n", *username)
}

func upsertAdmin(ctx context.Context, cfg *config.Config, username, password string) error {
	users := repository.NewMongoUserRepository(cfg)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, autherrors.ErrUserNotFound) {
			return err
		}
		id, err := users.NextID(ctx)
		if err != nil {
			return err
		}
		user = &model.User{
			ID:       id,
			Username: username,
			Roles:    []model.Role{model.RoleAdmin},
		}
	}

	user.Password = string(hash)
	if !hasRole(user.Roles, model.RoleAdmin) {
		user.Roles = append(user.Roles, model.RoleAdmin)
	}

	return users.Save(ctx, user)
}

func hasRole(roles []model.Role, role model.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
