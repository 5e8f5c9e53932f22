package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"

	// DevJWTSecret n'est accepté qu'en développement.
	DevJWTSecret = "mon-auxiliaire-dev-secret"
)

type Config struct {
	Env           string
	ServerPort    string
	StorageDriver string
	DBDSN         string
	JWTSecret     string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
	SeedDemo      bool
	LogLevel      string
	CORSOrigins   []string
}

// Load lit un éventuel fichier .env puis l'environnement.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Env:           get("APP_ENV", EnvDevelopment),
		ServerPort:    get("SERVER_PORT", "8080"),
		StorageDriver: strings.ToLower(get("STORAGE_DRIVER", StorageMemory)),
		DBDSN:         get("DB_DSN", ""),
		JWTSecret:     get("JWT_SECRET", ""),
		AdminUsername: get("ADMIN_USERNAME", "admin"),
		AdminPassword: get("ADMIN_PASSWORD", "admin123"),
		LogLevel:      get("LOG_LEVEL", "info"),
	}

	ttl, err := time.ParseDuration(get("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL: invalid duration %q", getenv("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	cfg.SeedDemo, err = strconv.ParseBool(get("SEED_DEMO", "false"))
	if err != nil {
		return nil, fmt.Errorf("SEED_DEMO: %w", err)
	}

	for _, o := range strings.Split(get("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	switch cfg.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DBDSN == "" {
			return nil, errors.New("DB_DSN is not set")
		}
	case StorageSQLite:
		if cfg.DBDSN == "" {
			cfg.DBDSN = "mon-auxiliaire.db"
		}
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER: unsupported value %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == "" {
		if cfg.Env != EnvDevelopment {
			return nil, errors.New("JWT_SECRET is not set")
		}
		cfg.JWTSecret = DevJWTSecret
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool { return c.Env == EnvProduction }
