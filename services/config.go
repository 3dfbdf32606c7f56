package services

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config collects the tunable game parameters. Values come from the
// environment with the original game's defaults.
type Config struct {
	CodeLength int

	// CheckInterval is how often the sweeper runs.
	CheckInterval time.Duration

	// ReadyTimeout resets idle players who set a code but never entered a
	// registered tournament.
	ReadyTimeout time.Duration

	// TurnTimeout passes the turn to the opponent when the current player
	// idles too long. It never forfeits the match.
	TurnTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		CodeLength:    5,
		CheckInterval: 10 * time.Second,
		ReadyTimeout:  600 * time.Second,
		TurnTimeout:   900 * time.Second,
	}
}

// LoadConfig reads overrides from the environment on top of the defaults.
func LoadConfig() Config {
	cfg := DefaultConfig()
	cfg.CheckInterval = envSeconds("CHECK_INTERVAL_SECONDS", cfg.CheckInterval)
	cfg.ReadyTimeout = envSeconds("WAIT_READY_TIMEOUT_SECONDS", cfg.ReadyTimeout)
	cfg.TurnTimeout = envSeconds("IN_MATCH_TIMEOUT_SECONDS", cfg.TurnTimeout)
	return cfg
}

func envSeconds(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		log.Printf("⚠️ Invalid %s=%q, using default %v", key, raw, fallback)
		return fallback
	}
	return time.Duration(secs) * time.Second
}
