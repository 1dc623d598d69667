package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"globetrotter/internal/config"
	"globetrotter/internal/db"
	"globetrotter/internal/model"
	"globetrotter/internal/repository"
	"globetrotter/internal/service"
)

const usage = `usage: dbctl [-force] <command>

commands:
  init    create the users, trips and activities tables if absent
  reset   delete all data and recreate the schema (development only)
  seed    insert demo users, skipping emails that already exist`

// demoUsers are inserted by the seed command.
var demoUsers = []model.User{
	{Email: "alice@example.com", FirstName: "Alice", LastName: "Liddell"},
	{Email: "bob.s@x.co", FirstName: "Bob", LastName: "Smith"},
}

func main() {
	force := flag.Bool("force", false, "skip the confirmation prompt for reset")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	ctx := context.Background()

	store, err := db.NewStore(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	switch flag.Arg(0) {
	case "init":
		if err := store.InitializeSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		log.Println("Database initialized successfully")
	case "reset":
		if !*force && cfg.IsProduction() {
			log.Fatal("Refusing to reset a production database without -force")
		}
		if err := store.ResetSchema(ctx); err != nil {
			log.Fatalf("Failed to reset schema: %v", err)
		}
		log.Println("Database reset complete")
	case "seed":
		if err := store.InitializeSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		created, skipped, err := seedUsers(ctx, repository.NewUserRepository(store), cfg.DefaultPassword)
		if err != nil {
			log.Fatalf("Failed to seed users: %v", err)
		}
		log.Printf("Seed completed: %d created, %d skipped", created, skipped)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// seedUsers inserts demoUsers with the default password, skipping existing emails.
func seedUsers(ctx context.Context, repo repository.UserRepository, password string) (created int, skipped int, err error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, 0, fmt.Errorf("hash password: %w", err)
	}

	for _, u := range demoUsers {
		_, err := repo.FindByEmail(ctx, u.Email)
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return created, skipped, fmt.Errorf("error checking user %s: %w", u.Email, err)
		}

		user := u
		user.Username = service.UsernameFromEmail(u.Email)
		user.PasswordHash = string(hash)
		if err := repo.Create(ctx, &user); err != nil {
			return created, skipped, fmt.Errorf("error creating user %s: %w", u.Email, err)
		}
		created++
	}
	return created, skipped, nil
}
