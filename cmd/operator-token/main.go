// Command operator-token mints an operator JWT for the connector API.
//
//	OPERATOR_TOKEN_SECRET=... operator-token -sub alice -scopes accounts:read,tokens:read
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aussiebroadwan/reelhub/pkg/jwtx"
)

func main() {
	var (
		subject = flag.String("sub", "", "operator id (token subject)")
		scopes  = flag.String("scopes", "accounts:read,accounts:write,tokens:read", "comma separated scopes")
		issuer  = flag.String("iss", envOr("OPERATOR_TOKEN_ISSUER", "reelhub-connector"), "issuer claim")
		ttl     = flag.Duration("ttl", jwtx.DefaultOperatorTokenTTL, "token lifetime")
	)
	flag.Parse()

	secret := os.Getenv("OPERATOR_TOKEN_SECRET")
	if secret == "" {
		fatalf("OPERATOR_TOKEN_SECRET is not set")
	}
	if strings.TrimSpace(*subject) == "" {
		fatalf("-sub is required")
	}

	signer, err := jwtx.NewSignerHS256([]byte(secret))
	if err != nil {
		fatalf("invalid secret: %v", err)
	}

	claims := jwtx.NewOperatorClaims(*subject, *issuer, splitScopes(*scopes), *ttl, time.Now())
	token, err := signer.Sign(claims)
	if err != nil {
		fatalf("failed to sign token: %v", err)
	}

	fmt.Println(token)
}

func splitScopes(s string) []string {
	var out []string
	for _, scope := range strings.Split(s, ",") {
		if scope = strings.TrimSpace(scope); scope != "" {
			out = append(out, scope)
		}
	}
	return out
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "operator-token: "+format+"\n", args...)
	os.Exit(1)
}
