package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"modqueue/internal/auth"
	"modqueue/internal/config"
	"modqueue/internal/db"
	apperrors "modqueue/internal/errors"
	"modqueue/internal/logger"
	"modqueue/internal/repository"
	"modqueue/internal/service"
)

func main() {
	app := &cli.App{
		Name:  "seed",
		Usage: "register users from a JSON file of signup payloads",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "path to a JSON array of {username, email, password, first_name, last_name}; - reads stdin",
				Required: true,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	users, err := readUsers(c.String("file"))
	if err != nil {
		return err
	}
	log.Info().Int("count", len(users)).Msg("loaded seed users")

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	hasher, err := auth.NewPasswordHasher(auth.HashConfig{Algorithm: cfg.PasswordAlgo, BcryptCost: cfg.BcryptCost})
	if err != nil {
		return err
	}
	authService := service.NewAuthService(
		repository.NewUserRepository(gormDB),
		hasher,
		auth.NewJWTService(auth.StaticSecret(cfg.SecretKey)),
		log,
	)

	created, skipped, err := seedUsers(c.Context, authService, users, log)
	if err != nil {
		return err
	}

	log.Info().Int("created", created).Int("skipped", skipped).Msg("seed completed")
	return nil
}

func readUsers(path string) ([]service.RegisterInput, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open seed file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var users []service.RegisterInput
	if err := json.NewDecoder(r).Decode(&users); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return users, nil
}

// seedUsers registers each user. Users whose username or email is already taken
// are skipped; any other failure stops the run.
func seedUsers(ctx context.Context, svc service.AuthService, users []service.RegisterInput, log zerolog.Logger) (created int, skipped int, err error) {
	for i, u := range users {
		_, err := svc.Register(ctx, u)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrUserExists):
			log.Info().Str("username", u.Username).Msg("already exists, skipping")
			skipped++
		default:
			return created, skipped, fmt.Errorf("seed user %d (%s): %w", i, u.Username, err)
		}
	}
	return created, skipped, nil
}
