// Package redisx builds go-redis clients from REDIS_URL style settings.
// This is part of the platform layer and contains no business logic.
package redisx

import (
	"crypto/tls"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ParseOptions parses redisURL and applies the insecure TLS override.
func ParseOptions(redisURL string, tlsInsecure bool) (*redis.Options, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		opt.TLSConfig = clone
	} else if tlsInsecure {
		opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return opt, nil
}

// NewClient creates a go-redis client for redisURL.
func NewClient(redisURL string, tlsInsecure bool) (*redis.Client, error) {
	opt, err := ParseOptions(redisURL, tlsInsecure)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}
