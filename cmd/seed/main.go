package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"skill-swap/internal/config"
	"skill-swap/internal/database/migration"
	dbpostgres "skill-swap/internal/database/postgres"
	"skill-swap/internal/database/seeder"
	"skill-swap/internal/logging"
	"skill-swap/internal/pkg/jwt"

	"github.com/rs/zerolog"
)

func main() {
	printTokens := flag.Bool("tokens", false, "print an access token for every demo profile")
	migrationsDir := flag.String("migrations", "", "read migrations from this directory instead of the embedded set")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	logger := logging.New(cfg.Log, os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer func() {
		_ = db.Close()
	}()

	r := migration.Runner{Dir: *migrationsDir, Logger: logger}
	if err := r.Run(ctx, db.SQLDB()); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	s := seeder.Runner{Seeders: seeder.Defaults(), Logger: logger}
	if err := s.Run(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("seed failed")
	}

	if !*printTokens {
		return
	}

	tokens := jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.Issuer, cfg.JWT.AccessExpiresIn)
	for _, p := range seeder.DemoProfiles() {
		tok, err := tokens.GenerateAccessToken(p.ID)
		if err != nil {
			logger.Fatal().Err(err).Str("profile", p.DisplayName).Msg("failed to mint token")
		}
		fmt.Printf("%s\t%s\t%s\n", p.DisplayName, p.ID, tok)
	}
}
