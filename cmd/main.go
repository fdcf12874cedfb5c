// Command cmd issues identity tokens for local clients, signed with the
// server's configured jwt_secret.
//
//	go run ./cmd -sub user-42 -name Alice -ttl 24h
package main

import (
	"Undercover/config"
	"Undercover/middleware"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	sub := flag.String("sub", "", "identity id (token subject)")
	name := flag.String("name", "", "display name carried in the token")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	godotenv.Load()

	if *sub == "" {
		log.Fatal().Msg("-sub is required")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	verifier := middleware.NewIdentityVerifier(cfg.JWTSecret)
	if !verifier.Enabled() {
		log.Fatal().Msg("JWT_SECRET is not set")
	}

	now := time.Now()
	token, err := verifier.Sign(*sub, *name, jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error signing token")
	}
	fmt.Println(token)
}
