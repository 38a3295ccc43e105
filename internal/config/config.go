package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port          string
	APIKey        string
	DatabaseURL   string
	RedisURL      string
	JupiterAPIKey string
	SolanaRPCURL  string
	YieldPollSecs int
}

func Load() *Config {
	cfg := &Config{
		Port:          os.Getenv("PORT"),
		APIKey:        os.Getenv("API_KEY"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		JupiterAPIKey: os.Getenv("JUP_API_KEY"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.APIKey == "" {
		log.Println("Warning: API_KEY not set, endpoints are unauthenticated")
	}
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set, rate history will not persist")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}
	if cfg.JupiterAPIKey == "" {
		log.Println("Warning: JUP_API_KEY not set, Jupiter Lend source disabled")
	}

	cfg.SolanaRPCURL = strings.TrimSpace(os.Getenv("SOLANA_RPC_URL"))
	if cfg.SolanaRPCURL == "" {
		cfg.SolanaRPCURL = "https://api.mainnet-beta.solana.com"
	}

	cfg.YieldPollSecs = 30
	if v := os.Getenv("YIELD_POLL_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.YieldPollSecs = n
		}
	}

	return cfg
}
