package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

type Config struct {
	AppEnv        string
	LogLevel      string
	HTTPAddr      string
	MetricsAddr   string
	HTTPTimeout   time.Duration
	StoreBackend  string
	MongoURI      string
	MongoDB       string
	SeedDir       string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	CacheTTL      time.Duration
	ReseedWorkers int
	InsertRPS     int
}

// Bootstrap loads .env, installs the global logger built from APP_ENV and
// LOG_LEVEL, and only then reads the rest of the config, so warnings from
// Load go through that logger.
func Bootstrap(newLogger func(env, level string) zerolog.Logger) Config {
	_ = godotenv.Load()
	log.Logger = newLogger(env("APP_ENV", "prod"), env("LOG_LEVEL", "info"))
	return Load()
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists. Variables already set win over the file.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		LogLevel:      env("LOG_LEVEL", "info"),
		HTTPAddr:      env("HTTP_ADDR", ":3030"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		HTTPTimeout:   time.Duration(atoi("HTTP_TIMEOUT_SECONDS", 0)) * time.Second,
		StoreBackend:  env("STORE_BACKEND", BackendMongo),
		MongoURI:      env("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       env("MONGO_DB", "dealershipsDB"),
		SeedDir:       env("SEED_DIR", "./data"),
		RedisAddr:     env("REDIS_ADDR", ""),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		ReseedWorkers: atoi("RESEED_WORKERS", 2),
		InsertRPS:     atoi("INSERT_RPS", 0),
	}
	if c.StoreBackend != BackendMongo && c.StoreBackend != BackendMemory {
		log.Warn().Str("backend", c.StoreBackend).Msg("unknown STORE_BACKEND, using mongo")
		c.StoreBackend = BackendMongo
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
