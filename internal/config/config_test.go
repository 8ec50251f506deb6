// AngelaMos | 2026
// config_test.go

package config

import (
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	k := koanf.New(".")
	require.NoError(t, loadDefaults(k))

	assert.Equal(t, 10, k.Int("redis.pool_size"))
	assert.Equal(t, 30*time.Second, k.Duration("redis.pool_timeout"))
	assert.Equal(t, 5*time.Minute, k.Duration("redis.conn_max_idle_time"))
	assert.Equal(t, 5*time.Second, k.Duration("redis.ping_timeout"))

	assert.Equal(t, 2*time.Minute, k.Duration("sweeper.interval"))
	assert.Equal(t, 12, k.Int("security.bcrypt_cost"))
}

func TestEnvKeyReplacer(t *testing.T) {
	assert.Equal(t, "database.url", envKeyReplacer("DATABASE_URL"))
	assert.Equal(t, "jwt.access_secret", envKeyReplacer("JWT_ACCESS_SECRET"))

	// Unmapped variables are dropped instead of leaking into the tree.
	assert.Equal(t, "", envKeyReplacer("PATH"))
}
