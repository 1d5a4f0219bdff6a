//go:build ignore

// Generates the secrets a fipe-service deployment needs.
// Run with: go run scripts/generate_keys.go
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
)

type secret struct {
	env    string
	length int
	// password makes the value satisfy the registration password rules.
	password bool
}

var secrets = []secret{
	{env: "JWT_SECRET_KEY", length: 32},
	{env: "JWT_REFRESH_SECRET_KEY", length: 32},
	{env: "API_KEYS", length: 24},
	{env: "ADMIN_PASSWORD", length: 12, password: true},
	{env: "SWAGGER_PASS", length: 12},
}

func randomString(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func main() {
	fmt.Println("# fipe-service secrets - add to your .env, never commit")
	for _, s := range secrets {
		value, err := randomString(s.length)
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate %s: %v\n", s.env, err)
			os.Exit(1)
		}
		if s.password {
			value += "Aa1"
		}
		fmt.Printf("%s=%s\n", s.env, value)
	}
}
