package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds environment-driven configuration.
type Config struct {
	Port             string
	SolanaRPCURL     string
	HeliusAPIURL     string
	HeliusAPIKey     string
	ShyftAPIURL      string
	ShyftAPIKey      string
	IntentAPIURL     string
	IntentAPIKey     string
	IntentModel      string
	MongoURI         string
	MongoDB          string
	Network          string
	SolCommitment    string
	QueryMinInterval time.Duration
	ProviderTimeout  time.Duration
	TxDetailCacheTTL time.Duration
	SessionCacheTTL  time.Duration
	RateLimitRPM     int
	TxLimitMax       int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// Load loads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		Port:             getenv("PORT", "8080"),
		SolanaRPCURL:     getenv("SOLANA_RPC_URL", ""),
		HeliusAPIURL:     getenv("HELIUS_API_URL", "https://api.helius.xyz"),
		HeliusAPIKey:     getenv("HELIUS_API_KEY", ""),
		ShyftAPIURL:      getenv("SHYFT_API_URL", "https://api.shyft.to"),
		ShyftAPIKey:      getenv("SHYFT_API_KEY", ""),
		IntentAPIURL:     getenv("INTENT_API_URL", ""),
		IntentAPIKey:     getenv("INTENT_API_KEY", ""),
		IntentModel:      getenv("INTENT_MODEL", "deepseek-chat"),
		MongoURI:         getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          getenv("MONGO_DB", "walletchat"),
		Network:          getenv("SOL_NETWORK", "mainnet-beta"),
		SolCommitment:    getenv("SOL_COMMITMENT", "finalized"),
		QueryMinInterval: getdur("QUERY_MIN_INTERVAL", 10*time.Second),
		ProviderTimeout:  getdur("PROVIDER_TIMEOUT", 8*time.Second),
		TxDetailCacheTTL: getdur("TX_DETAIL_CACHE_TTL", 5*time.Minute),
		SessionCacheTTL:  getdur("SESSION_CACHE_TTL", 60*time.Second),
		RateLimitRPM:     getint("RATE_LIMIT_RPM", 60),
		TxLimitMax:       getint("TX_LIMIT_MAX", 50),
	}
}
