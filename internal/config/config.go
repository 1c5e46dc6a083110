package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/newsroom-dev/newsroom/internal/log"
)

const DefaultMaxPage = 10

type Config struct {
	MaxPage     int
	HTTPTimeout time.Duration
	UserAgent   string

	AppPort        string
	BasicAuthUser  string
	BasicAuthPass  string
	BasicAuthRealm string

	RedisAddr string
	CacheTTL  time.Duration

	CronSpec string
}

// Load 读取环境变量；若当前目录存在 .env 则先加载（不覆盖已有变量）。
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("config: load .env failed", "error", err)
	}

	cfg := &Config{
		MaxPage:        getEnvInt("NEWSROOM_MAX_PAGE", DefaultMaxPage),
		HTTPTimeout:    getEnvDuration("NEWSROOM_HTTP_TIMEOUT", 15*time.Second),
		UserAgent:      getEnv("NEWSROOM_USER_AGENT", "newsroom/1.0"),
		AppPort:        getEnv("APP_PORT", "9000"),
		BasicAuthUser:  os.Getenv("APP_BASIC_USER"),
		BasicAuthPass:  os.Getenv("APP_BASIC_PASS"),
		BasicAuthRealm: os.Getenv("APP_BASIC_REALM"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		CacheTTL:       getEnvDuration("CACHE_TTL", 5*time.Minute),
		CronSpec:       getEnv("CRON_SPEC", "*/30 * * * *"),
	}

	log.Debug("config loaded", "port", cfg.AppPort, "cron", cfg.CronSpec, "max_page", cfg.MaxPage)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Warn("config: invalid positive integer, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Warn("config: invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}
