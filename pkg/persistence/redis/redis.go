package redis

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Schwifty101/Algo-MerkleTree/pkg/persistence"
)

// Key prefixes for namespacing in Redis
const (
	keyPrefixBaseline    = "merkle:baseline:"
	keySchemaVersion     = "merkle:metadata:schema_version"
	currentSchemaVersion = "v1"

	// Key set for listing operations (Redis doesn't support prefix iteration natively)
	keySetBaselines = "merkle:baselines:index"
)

// RedisStore is a baseline store backed by Redis, suitable for sharing
// baselines across hosts.
type RedisStore struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string // Custom prefix for all keys
	mu        sync.RWMutex
	closed    bool
}

// RedisConfig holds the configuration for connecting to Redis
type RedisConfig struct {
	// Address is the Redis server address (host:port)
	Address string
	// Password is the optional Redis password
	Password string
	// DB is the Redis database number (0-15)
	DB int
	// KeyPrefix is an optional custom prefix for all keys, for sharing a
	// Redis instance between deployments. If empty, keys use the default
	// "merkle:" namespace.
	KeyPrefix string
}

// NewRedisStore creates a new Redis-backed baseline store.
func NewRedisStore(cfg *RedisConfig, logger *zap.Logger) (*RedisStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	rs := &RedisStore{
		client:    client,
		logger:    logger,
		keyPrefix: cfg.KeyPrefix,
	}

	if err := rs.initSchema(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Sugar().Infow("Redis baseline store initialized", "address", cfg.Address, "db", cfg.DB)

	return rs, nil
}

// key prepends the custom prefix (if any) to a namespaced key.
func (r *RedisStore) key(k string) string {
	return r.keyPrefix + k
}

// initSchema initializes or validates the schema version.
func (r *RedisStore) initSchema(ctx context.Context) error {
	existing, err := r.client.Get(ctx, r.key(keySchemaVersion)).Result()
	if err == redis.Nil {
		return r.client.Set(ctx, r.key(keySchemaVersion), currentSchemaVersion, 0).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if existing != currentSchemaVersion {
		return fmt.Errorf("unsupported schema version: %s (expected: %s)", existing, currentSchemaVersion)
	}

	return nil
}

// SaveBaseline persists a baseline snapshot under its dataset name.
func (r *RedisStore) SaveBaseline(baseline *persistence.Baseline) error {
	if baseline == nil {
		return fmt.Errorf("cannot save nil Baseline")
	}
	if baseline.DatasetName == "" {
		return fmt.Errorf("cannot save Baseline without a dataset name")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("baseline store is closed")
	}

	data, err := persistence.MarshalBaseline(baseline)
	if err != nil {
		return fmt.Errorf("failed to marshal Baseline: %w", err)
	}

	ctx := context.Background()
	key := r.key(keyPrefixBaseline + baseline.DatasetName)

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, r.key(keySetBaselines), baseline.DatasetName)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save Baseline: %w", err)
	}

	return nil
}

// LoadBaseline retrieves a baseline snapshot by dataset name.
func (r *RedisStore) LoadBaseline(datasetName string) (*persistence.Baseline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("baseline store is closed")
	}

	ctx := context.Background()
	data, err := r.client.Get(ctx, r.key(keyPrefixBaseline+datasetName)).Bytes()
	if err == redis.Nil {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load Baseline: %w", err)
	}

	baseline, err := persistence.UnmarshalBaseline(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal Baseline: %w", err)
	}

	return baseline, nil
}

// ListBaselines returns all baseline snapshots sorted by dataset name.
func (r *RedisStore) ListBaselines() ([]*persistence.Baseline, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("baseline store is closed")
	}

	ctx := context.Background()
	names, err := r.client.SMembers(ctx, r.key(keySetBaselines)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list Baselines: %w", err)
	}

	baselines := make([]*persistence.Baseline, 0, len(names))
	for _, name := range names {
		data, err := r.client.Get(ctx, r.key(keyPrefixBaseline+name)).Bytes()
		if err == redis.Nil {
			// Index entry without a value, likely a partial delete.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load Baseline %q: %w", name, err)
		}

		baseline, err := persistence.UnmarshalBaseline(data)
		if err != nil {
			r.logger.Sugar().Warnw("Failed to unmarshal Baseline, skipping",
				"dataset", name, "error", err)
			continue
		}

		baselines = append(baselines, baseline)
	}

	sort.Slice(baselines, func(i, j int) bool {
		return baselines[i].DatasetName < baselines[j].DatasetName
	})

	return baselines, nil
}

// DeleteBaseline removes a baseline snapshot. Idempotent.
func (r *RedisStore) DeleteBaseline(datasetName string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("baseline store is closed")
	}

	ctx := context.Background()

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.key(keyPrefixBaseline+datasetName))
	pipe.SRem(ctx, r.key(keySetBaselines), datasetName)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete Baseline: %w", err)
	}

	return nil
}

// Close shuts down the store.
func (r *RedisStore) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil // Already closed, idempotent
	}
	r.closed = true
	r.mu.Unlock()

	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	r.logger.Sugar().Info("Redis baseline store closed")
	return nil
}

// HealthCheck verifies the store is operational.
func (r *RedisStore) HealthCheck() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("baseline store is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return r.client.Ping(ctx).Err()
}
