package main

import (
	"flag"
	"log"

	"lingobridge/internal/config"
	"lingobridge/internal/database"
	"lingobridge/internal/models"
	"lingobridge/internal/repository"
	"lingobridge/internal/security"
)

// Seeds the initial admin account. Re-running with an existing username
// resets that account's password instead of failing.
func main() {
	username := flag.String("username", "admin", "Admin username")
	password := flag.String("password", "", "Admin password (required)")
	name := flag.String("name", "Administrator", "Display name")
	flag.Parse()

	if *password == "" {
		log.Fatal("the -password flag is required")
	}

	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	hash, err := security.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	userRepo := repository.NewUserRepository(db)

	existing, err := userRepo.GetUserByUsername(*username)
	if err != nil {
		log.Fatalf("Failed to look up user: %v", err)
	}
	if existing != nil {
		if err := userRepo.UpdatePassword(existing.ID, hash); err != nil {
			log.Fatalf("Failed to reset password: %v", err)
		}
		log.Printf("Reset password for existing user %q (role %s)", existing.Username, existing.Role)
		return
	}

	admin, err := userRepo.CreateUser(&models.User{
		Name:         *name,
		Username:     *username,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}
	log.Printf("Created admin account %q (id %d)", admin.Username, admin.ID)
}
