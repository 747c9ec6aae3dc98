package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		password string
		addr     string
		wantPass string
		db       int
	}{
		{"bare address", "localhost:6379", "secret", "localhost:6379", "secret", 0},
		{"plain url", "redis://cache:6380", "", "cache:6380", "", 0},
		{"credentials and db index", "redis://:pw@host:6379/1", "ignored", "host:6379", "pw", 1},
		{"url without password falls back", "redis://host:6379/2", "fallback", "host:6379", "fallback", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := RedisOptions(tt.url, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.addr, opts.Addr)
			assert.Equal(t, tt.wantPass, opts.Password)
			assert.Equal(t, tt.db, opts.DB)
			assert.Equal(t, 5*time.Second, opts.DialTimeout)
		})
	}
}

func TestRedisOptions_TLS(t *testing.T) {
	opts, err := RedisOptions("rediss://user:pw@secure:6379/0", "")
	require.NoError(t, err)
	assert.Equal(t, "secure:6379", opts.Addr)
	assert.Equal(t, "user", opts.Username)
	assert.NotNil(t, opts.TLSConfig)
}

func TestRedisOptions_Invalid(t *testing.T) {
	_, err := RedisOptions("redis://host:6379/notadb", "")
	assert.Error(t, err)
}
