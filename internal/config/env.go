package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvListingURL = "NEWBEACH_LISTING_URL"
	EnvLimit      = "NEWBEACH_LIMIT"
	EnvOutputRoot = "NEWBEACH_OUTPUT_ROOT"
	EnvNamespace  = "NEWBEACH_NAMESPACE"
	EnvPlayer     = "NEWBEACH_PLAYER"
	EnvYtDlpPath  = "YTDLP_PATH"
)

// LoadEnv loads variables from the given .env files into the process
// environment, defaulting to ".env" in the working directory. Variables
// already set are not overridden and missing files are ignored.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		_ = godotenv.Load(file)
	}
}

// ApplyEnv overrides settings from environment variables.
func (s *Settings) ApplyEnv() error {
	if v := lookup(EnvListingURL); v != "" {
		s.ListingURL = v
	}
	if v := lookup(EnvLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvLimit, v, err)
		}
		s.Limit = n
	}
	if v := lookup(EnvOutputRoot); v != "" {
		s.OutputRoot = v
	}
	if v := lookup(EnvNamespace); v != "" {
		s.Namespace = v
	}
	if v := lookup(EnvPlayer); v != "" {
		s.PlayerCommand = v
	}
	if v := lookup(EnvYtDlpPath); v != "" {
		s.YtDlpPath = v
	}
	return nil
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
