// Command admin-token mints a bearer token for the admin endpoints.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/slhlabs/wallet-middleware/pkg/auth"
	"github.com/slhlabs/wallet-middleware/pkg/config"
)

var (
	configPath = flag.String("config", "config.yaml", "Path to configuration file")
	subject    = flag.String("subject", "operator", "Token subject")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if cfg.Admin.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "admin.jwt_secret is not configured")
		os.Exit(1)
	}

	issuer := auth.NewTokenIssuer(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	token, err := issuer.Issue(*subject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
