// Command devtoken mints bearer tokens for the local identity provider.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/cinelist/cinelist-go/internal/config"
	"github.com/cinelist/cinelist-go/internal/identity"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	var (
		uid    = flag.String("uid", "dev-user", "user id placed in the token subject")
		email  = flag.String("email", "dev@example.com", "email claim")
		name   = flag.String("name", "", "display name claim")
		expiry = flag.Duration("expiry", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	if cfg.IsProduction() {
		slog.Error("refusing to mint local tokens in production")
		os.Exit(1)
	}

	v := identity.NewLocalVerifier(cfg.LocalTokenSecret)
	token, err := v.IssueToken(identity.Identity{UserID: *uid, Email: *email, Name: *name}, *expiry)
	if err != nil {
		slog.Error("issuing token", "error", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
