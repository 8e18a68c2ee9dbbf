// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultRedisImage matches the Redis major version used in deployment.
	DefaultRedisImage = "redis:7-alpine"

	// DefaultRedisPort is the Redis server port inside the container.
	DefaultRedisPort = "6379"
)

// RedisContainer is a running Redis server for cache integration tests.
type RedisContainer struct {
	testcontainers.Container
	// URL is a redis:// URL for database 0.
	URL string
}

// RedisOption configures the Redis container.
type RedisOption func(*redisConfig)

type redisConfig struct {
	image        string
	startTimeout time.Duration
}

// WithRedisImage sets a custom Redis Docker image.
func WithRedisImage(image string) RedisOption {
	return func(c *redisConfig) {
		c.image = image
	}
}

// WithStartTimeout sets the timeout for waiting for the server to start.
func WithStartTimeout(timeout time.Duration) RedisOption {
	return func(c *redisConfig) {
		c.startTimeout = timeout
	}
}

// NewRedisContainer creates and starts a Redis container.
//
// Example:
//
//	redis, err := testinfra.NewRedisContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, redis.Container)
//
//	store, err := cache.NewRedis(redis.URL)
func NewRedisContainer(ctx context.Context, opts ...RedisOption) (*RedisContainer, error) {
	cfg := &redisConfig{
		image:        DefaultRedisImage,
		startTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultRedisPort + "/tcp"},
		// No persistence: every test run starts from an empty keyspace.
		Cmd: []string{"redis-server", "--save", "", "--appendonly", "no"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultRedisPort+"/tcp"),
			wait.ForLog("Ready to accept connections"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, DefaultRedisPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &RedisContainer{
		Container: container,
		URL:       fmt.Sprintf("redis://%s:%s/0", host, port.Port()),
	}, nil
}

// StartRedis starts a Redis container for t, skipping when Docker is
// unavailable or -short is set. The container is terminated on cleanup.
func StartRedis(t *testing.T) *RedisContainer {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	redis, err := NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to create Redis container: %v", err)
	}
	t.Cleanup(func() {
		CleanupContainer(t, context.Background(), redis.Container)
	})
	return redis
}

// FlushAll removes every key so tests sharing a container start clean.
func (c *RedisContainer) FlushAll(ctx context.Context) error {
	code, _, err := c.Exec(ctx, []string{"redis-cli", "FLUSHALL"})
	if err != nil {
		return fmt.Errorf("exec redis-cli: %w", err)
	}
	if code != 0 {
		return fmt.Errorf("redis-cli FLUSHALL exited with code %d", code)
	}
	return nil
}
