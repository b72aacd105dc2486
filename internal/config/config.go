// README: Config loader with env defaults for HTTP, the model backend, and the flight provider.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"flightchat/internal/ai"
	"flightchat/internal/modules/flights"
)

const (
	ProviderFireworks = "fireworks"
	ProviderGemini    = "gemini"
)

var defaultOrigins = []string{
	"http://localhost:2323",
	"http://localhost:2325",
	"http://localhost:3000",
	"http://127.0.0.1:2323",
	"http://127.0.0.1:2325",
	"http://127.0.0.1:3000",
}

type Config struct {
	HTTP struct {
		Addr           string
		RequestTimeout time.Duration
		AllowedOrigins []string
	}
	AI struct {
		Provider       string
		FireworksKey   string
		FireworksURL   string
		FireworksModel string
		GeminiKey      string
		GeminiModel    string
	}
	Provider struct {
		SerpAPIKey string
		BaseURL    string
	}
	Normalize flights.Policy
}

// Load reads the environment, after merging an optional .env file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[CONFIG] .env not loaded: %v", err)
	}

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("FLIGHTCHAT_HTTP_ADDR", ":2325")
	cfg.HTTP.RequestTimeout = time.Duration(envOrDefaultInt("FLIGHTCHAT_REQUEST_TIMEOUT_SECONDS", 60)) * time.Second
	cfg.HTTP.AllowedOrigins = envOrDefaultList("CORS_ALLOWED_ORIGINS", defaultOrigins)

	cfg.AI.Provider = strings.ToLower(envOrDefault("FLIGHTCHAT_AI_PROVIDER", ProviderFireworks))
	cfg.AI.FireworksURL = envOrDefault("FIREWORKS_BASE_URL", ai.DefaultFireworksBaseURL)
	cfg.AI.FireworksModel = envOrDefault("FIREWORKS_MODEL", ai.DefaultFireworksModel)
	cfg.AI.GeminiModel = envOrDefault("GEMINI_MODEL", ai.DefaultGeminiModel)

	switch cfg.AI.Provider {
	case ProviderFireworks:
		key, err := envOrError("FIREWORKS_API_KEY")
		if err != nil {
			return cfg, err
		}
		cfg.AI.FireworksKey = key
	case ProviderGemini:
		key, err := envOrError("GEMINI_API_KEY")
		if err != nil {
			return cfg, err
		}
		cfg.AI.GeminiKey = key
	default:
		return cfg, fmt.Errorf("unsupported FLIGHTCHAT_AI_PROVIDER %q", cfg.AI.Provider)
	}

	key, err := envOrError("SERPAPI_API_KEY")
	if err != nil {
		return cfg, err
	}
	cfg.Provider.SerpAPIKey = key
	cfg.Provider.BaseURL = envOrDefault("SERPAPI_BASE_URL", flights.DefaultProviderBaseURL)

	policy, err := flights.ParsePolicy(envOrDefault("FLIGHTCHAT_NORMALIZE_POLICY", string(flights.PolicyStrict)))
	if err != nil {
		return cfg, err
	}
	cfg.Normalize = policy
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envOrError(key string) (string, error) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("environment variable %s is required", key)
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envOrDefaultList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, o := range strings.Split(v, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
