package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iyhunko/sheets-storefront/internal/config"
	"github.com/iyhunko/sheets-storefront/internal/http/middleware"
)

func main() {
	var (
		ttl     = flag.Duration("ttl", 30*time.Minute, "token TTL (e.g. 30m, 2h)")
		subject = flag.String("sub", "operator", "subject (sub)")
		envKey  = flag.String("env", config.AdminJWTSecretEnv, "env var containing the HS256 secret")
	)
	flag.Parse()

	secret := strings.TrimSpace(os.Getenv(*envKey))
	if secret == "" {
		fmt.Fprintf(os.Stderr, "%s is not set\n", *envKey)
		os.Exit(1)
	}

	token, err := middleware.SignAdminToken([]byte(secret), *subject, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
