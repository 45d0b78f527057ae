package cmd

import "os"

// envOr reads an environment variable override for a flag default, in the
// shape of arl-go-detour's cmd/recast/cmd/config.go: flags are the primary
// surface, environment variables only supply their defaults.
func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
