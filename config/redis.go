package config

import (
	"github.com/redis/go-redis/v9"
)

// NewRedis returns a client for cfg.RedisAddr, or nil when Redis is not configured.
func NewRedis(cfg *Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})
}
