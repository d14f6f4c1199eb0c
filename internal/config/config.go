package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cinelist/cinelist-go/internal/catalog"
)

const devTokenSecret = "dev-secret-change-in-production"

const (
	ProviderFirebase = "firebase"
	ProviderLocal    = "local"

	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

type Config struct {
	Port         string
	Env          string
	LogLevel     string
	LogFile      string
	LogMaxSizeMB int

	StorageDriver string
	DatabaseDSN   string

	IdentityProvider        string
	IdentityCredentialsPath string
	LocalTokenSecret        string

	TMDBAPIKey   string
	TMDBBaseURL  string
	TMDBLanguage string
	TMDBRegion   string
	TMDBTimeout  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSAllowedOrigins []string
	PublicRateLimitRPS float64
	PublicRateBurst    int
}

func Load() Config {
	return Config{
		Port:         getEnv("PORT", "8000"),
		Env:          getEnv("ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      os.Getenv("LOG_FILE"),
		LogMaxSizeMB: getInt("LOG_MAX_SIZE_MB", 100),

		StorageDriver: getEnv("STORAGE_DRIVER", StorageMySQL),
		DatabaseDSN:   getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/cinelist?parseTime=true"),

		IdentityProvider:        getEnv("IDENTITY_PROVIDER", ProviderFirebase),
		IdentityCredentialsPath: os.Getenv("IDENTITY_CREDENTIALS_PATH"),
		LocalTokenSecret:        getEnv("LOCAL_TOKEN_SECRET", devTokenSecret),

		TMDBAPIKey:   os.Getenv("TMDB_API_KEY"),
		TMDBBaseURL:  getEnv("TMDB_BASE_URL", catalog.DefaultBaseURL),
		TMDBLanguage: getEnv("TMDB_LANGUAGE", catalog.DefaultLanguage),
		TMDBRegion:   getEnv("TMDB_REGION", catalog.DefaultRegion),
		TMDBTimeout:  getDuration("TMDB_TIMEOUT", catalog.DefaultTimeout),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		PublicRateLimitRPS: getFloat("PUBLIC_RATE_LIMIT_RPS", 10),
		PublicRateBurst:    getInt("PUBLIC_RATE_LIMIT_BURST", 20),
	}
}

// Validate reports every setting that would keep the server from starting.
func (c Config) Validate() error {
	var errs []error

	if c.TMDBAPIKey == "" {
		errs = append(errs, errors.New("TMDB_API_KEY must be set"))
	}

	switch c.IdentityProvider {
	case ProviderFirebase:
		if c.IdentityCredentialsPath == "" {
			errs = append(errs, errors.New("IDENTITY_CREDENTIALS_PATH must be set for the firebase provider"))
		}
	case ProviderLocal:
		if c.LocalTokenSecret == "" {
			errs = append(errs, errors.New("LOCAL_TOKEN_SECRET must be set for the local provider"))
		}
		if c.IsProduction() && c.LocalTokenSecret == devTokenSecret {
			errs = append(errs, errors.New("LOCAL_TOKEN_SECRET must be set in production environment"))
		}
	default:
		errs = append(errs, errors.New("IDENTITY_PROVIDER must be firebase or local"))
	}

	switch c.StorageDriver {
	case StorageMySQL:
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("DATABASE_DSN must be set"))
		}
	case StorageMemory:
		if c.IsProduction() {
			errs = append(errs, errors.New("STORAGE_DRIVER=memory is not allowed in production environment"))
		}
	default:
		errs = append(errs, errors.New("STORAGE_DRIVER must be mysql or memory"))
	}

	if c.TMDBTimeout <= 0 {
		errs = append(errs, errors.New("TMDB_TIMEOUT must be positive"))
	}
	if c.PublicRateLimitRPS <= 0 || c.PublicRateBurst <= 0 {
		errs = append(errs, errors.New("PUBLIC_RATE_LIMIT_RPS and PUBLIC_RATE_LIMIT_BURST must be positive"))
	}

	return errors.Join(errs...)
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
