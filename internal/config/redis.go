package config

import (
	"os"
	"strconv"
	"time"
)

const (
	defaultRedisAddr        = "localhost:6379"
	defaultRedisDialTimeout = 5 * time.Second
)

// RedisConfig points at the reminder store.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	TLS         bool
	PoolSize    int // 0 keeps the client default
	DialTimeout time.Duration
}

func LoadRedisConfig() (*RedisConfig, error) {
	cfg := &RedisConfig{
		Addr:        os.Getenv("REDIS_ADDR"),
		Password:    os.Getenv("REDIS_PASSWORD"),
		TLS:         os.Getenv("REDIS_TLS") == "true",
		DialTimeout: defaultRedisDialTimeout,
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultRedisAddr
	}

	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil || db < 0 {
			return nil, ErrInvalidRedisDB
		}
		cfg.DB = db
	}

	if raw := os.Getenv("REDIS_POOL_SIZE"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 0 {
			return nil, ErrInvalidRedisPoolSize
		}
		cfg.PoolSize = size
	}

	if raw := os.Getenv("REDIS_DIAL_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			cfg.DialTimeout = time.Duration(secs) * time.Second
		}
	}

	return cfg, nil
}

func (c *RedisConfig) Validate() error {
	if c == nil || c.Addr == "" {
		return ErrRedisAddrMissing
	}
	return nil
}
