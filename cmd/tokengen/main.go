package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/auth"
	"github.com/gokatarajesh/trivia-api/internal/auth/jwt"
	"github.com/gokatarajesh/trivia-api/internal/config"
)

func main() {
	var (
		subject     = flag.String("subject", "editor", "Token subject")
		permissions = flag.String("permissions", strings.Join(auth.EditorPermissions, ","), "Comma-separated permissions to grant")
	)
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}

	var authCfg config.Auth
	if err := config.Parse(&authCfg); err != nil {
		log.Fatal().Err(err).Msg("failed to load auth configuration")
	}
	if !authCfg.Enabled() {
		log.Fatal().Msg("AUTH_JWT_SECRET must be set to mint tokens")
	}

	var perms []string
	for _, p := range strings.Split(*permissions, ",") {
		if p = strings.TrimSpace(p); p != "" {
			perms = append(perms, p)
		}
	}

	tokens := jwt.NewManager(jwt.TokenConfig{
		Secret: []byte(authCfg.JWTSecret),
		TTL:    authCfg.TokenTTL,
		Issuer: authCfg.Issuer,
	})
	token, err := tokens.Generate(*subject, perms)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign token")
	}
	fmt.Println(token)
}
