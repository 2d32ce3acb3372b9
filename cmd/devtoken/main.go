// Command devtoken mints an access token for local testing. The API only
// verifies tokens; identity issuance lives outside this service.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/grocerly/storefront-api/pkg/auth"
	"github.com/grocerly/storefront-api/pkg/config"
	"github.com/grocerly/storefront-api/pkg/enums"
)

func main() {
	_ = godotenv.Load()

	userFlag := flag.String("user", "", "user id (uuid); random when empty")
	roleFlag := flag.String("role", string(enums.RoleCustomer), "customer|seller|admin")
	ttl := flag.Duration("ttl", 0, "token lifetime; defaults to GROCER_JWT_EXPIRATION_MINUTES")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		exitf("load config: %v", err)
	}

	role, err := enums.ParseRole(*roleFlag)
	if err != nil {
		exitf("%v", err)
	}

	userID := uuid.New()
	if *userFlag != "" {
		userID, err = uuid.Parse(*userFlag)
		if err != nil {
			exitf("invalid -user: %v", err)
		}
	}

	jwtCfg := cfg.JWT
	if *ttl > 0 {
		jwtCfg.ExpirationMinutes = int((*ttl + time.Minute - 1) / time.Minute)
	}

	token, err := auth.MintAccessToken(jwtCfg, time.Now(), auth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
	})
	if err != nil {
		exitf("mint token: %v", err)
	}

	fmt.Fprintf(os.Stderr, "user=%s role=%s\n", userID, role)
	fmt.Println(token)
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
