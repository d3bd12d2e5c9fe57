package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lifesystem/core"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration
type Config struct {
	Addr         string        `json:"addr" yaml:"addr" env:"LIFESYSTEM_REDIS_ADDR"`
	Password     string        `json:"password,omitempty" yaml:"password" env:"LIFESYSTEM_REDIS_PASSWORD"`
	DB           int           `json:"db" yaml:"db" env:"LIFESYSTEM_REDIS_DB"`
	PoolSize     int           `json:"pool_size" yaml:"pool_size" env:"LIFESYSTEM_REDIS_POOL_SIZE"`
	MinIdleConns int           `json:"min_idle_conns" yaml:"min_idle_conns" env:"LIFESYSTEM_REDIS_MIN_IDLE_CONNS"`
	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout" env:"LIFESYSTEM_REDIS_DIAL_TIMEOUT"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout" env:"LIFESYSTEM_REDIS_READ_TIMEOUT"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" env:"LIFESYSTEM_REDIS_WRITE_TIMEOUT"`
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		PoolSize:     4,
		MinIdleConns: 1,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Store implements engine.Storage on Redis.
// Data structure:
// - lifesystem:state:{slot} -> JSON blob of the player state
// - lifesystem:meta:{slot}  -> hash with saved_at and saves
type Store struct {
	client *redis.Client
	slot   string
}

// New creates a new Redis-backed storage with the provided configuration
func New(config Config, slot string) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: client, slot: slot}, nil
}

// NewWithClient creates a Store using an existing Redis client (useful for testing)
func NewWithClient(client *redis.Client, slot string) *Store {
	return &Store{client: client, slot: slot}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

func stateKey(slot string) string {
	return fmt.Sprintf("lifesystem:state:%s", slot)
}

func metaKey(slot string) string {
	return fmt.Sprintf("lifesystem:meta:%s", slot)
}

// Load returns the saved blob or core.ErrNotFound.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, stateKey(s.slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return data, nil
}

// Save overwrites the blob and its bookkeeping in one transaction.
func (s *Store) Save(ctx context.Context, data []byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, stateKey(s.slot), data, 0)
		pipe.HSet(ctx, metaKey(s.slot), "saved_at", time.Now().UTC().Format(time.RFC3339Nano))
		pipe.HIncrBy(ctx, metaKey(s.slot), "saves", 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// Saves returns how many times the slot has been written.
func (s *Store) Saves(ctx context.Context) (int64, error) {
	n, err := s.client.HGet(ctx, metaKey(s.slot), "saves").Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}
