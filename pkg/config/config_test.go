package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name: "Valid badger config",
			config: Config{
				DataDir:      "/var/lib/merkle",
				StoreBackend: StoreBackendBadger,
				StorePath:    "/var/lib/merkle/badger",
			},
		},
		{
			name: "Valid redis config",
			config: Config{
				DataDir:      "/var/lib/merkle",
				StoreBackend: StoreBackendRedis,
				RedisAddress: "localhost:6379",
				RedisDB:      3,
			},
		},
		{
			name: "Valid memory config",
			config: Config{
				DataDir:      "/var/lib/merkle",
				StoreBackend: StoreBackendMemory,
			},
		},
		{
			name: "Missing data dir",
			config: Config{
				StoreBackend: StoreBackendMemory,
			},
			wantErr: "dataDir",
		},
		{
			name: "Badger without store path",
			config: Config{
				DataDir:      "/var/lib/merkle",
				StoreBackend: StoreBackendBadger,
			},
			wantErr: "storePath",
		},
		{
			name: "Redis without address",
			config: Config{
				DataDir:      "/var/lib/merkle",
				StoreBackend: StoreBackendRedis,
			},
			wantErr: "redisAddress",
		},
		{
			name: "Redis DB out of range",
			config: Config{
				DataDir:      "/var/lib/merkle",
				StoreBackend: StoreBackendRedis,
				RedisAddress: "localhost:6379",
				RedisDB:      16,
			},
			wantErr: "redisDB",
		},
		{
			name: "Unknown backend",
			config: Config{
				DataDir:      "/var/lib/merkle",
				StoreBackend: "postgres",
			},
			wantErr: "storeBackend",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestConfig_ValidateAggregatesErrors(t *testing.T) {
	cfg := Config{StoreBackend: StoreBackendBadger}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataDir")
	assert.Contains(t, err.Error(), "storePath")
}

func TestSupportedBackendsString(t *testing.T) {
	s := SupportedBackendsString()
	assert.Contains(t, s, "badger")
	assert.Contains(t, s, "redis")
	assert.Contains(t, s, "memory")
}
