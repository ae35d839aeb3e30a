package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all runtime settings for the SkillLink client and the local
// dev server. Mode selects which MarketplaceAPI implementation is composed;
// nothing else in the system branches on it.
type Config struct {
	Mode      string `env:"SKILLLINK_MODE,      default=demo"` // demo | live
	APIBase   string `env:"SKILLLINK_API_URL,   default=http://127.0.0.1:8000/api"`
	JWTSecret string `env:"SKILLLINK_JWT_SECRET, default=skilllink-dev-secret"`
	LogLevel  string `env:"LOG_LEVEL,           default=info"`
	LogPretty bool   `env:"LOG_PRETTY,          default=false"`

	Storage StorageConfig
	Server  ServerConfig
}

// StorageConfig selects the local key-value backend used for credentials and
// message ledgers.
type StorageConfig struct {
	Backend string `env:"SKILLLINK_STORAGE,     default=file"` // file | memory | redis
	Dir     string `env:"SKILLLINK_STORAGE_DIR, default=.skilllink"`

	Redis RedisConfig
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// ServerConfig applies to the local dev server only.
type ServerConfig struct {
	Port           string  `env:"PORT,                 default=8000"`
	AuthRatePerSec float64 `env:"AUTH_RATE_PER_SEC,    default=5"`
	AuthRateBurst  int     `env:"AUTH_RATE_BURST,      default=10"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
