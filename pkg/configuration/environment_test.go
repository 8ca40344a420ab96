package configuration

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfiguration_Load_Defaults(t *testing.T) {
	c := &Configuration{}
	require.NoError(t, c.load(nil))

	assert.Equal(t, "taskwall", c.Database.Name)
	assert.Equal(t, ":3200", c.SocketAddress)
	assert.Equal(t, "redis", c.Realtime.Transport)
	assert.False(t, c.Multitenancy.Enabled)
	assert.NotNil(t, c.Logger())
}

func TestConfiguration_Load_Overrides(t *testing.T) {
	t.Setenv("DB_NAME", "wall")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("PORT", "8080")
	t.Setenv("REALTIME_TRANSPORT", "postgres")
	t.Setenv("MULTITENANCY_ENABLED", "true")

	c := &Configuration{}
	require.NoError(t, c.load(nil))

	assert.Equal(t, ":8080", c.SocketAddress)
	assert.Equal(t, "postgres", c.Realtime.Transport)
	assert.True(t, c.Multitenancy.Enabled)
	assert.Contains(t, c.Database.ConnectionString(), "host=db.internal")
	assert.Contains(t, c.Database.ConnectionString(), "dbname=wall")
	assert.Contains(t, c.Database.ConnectionStringFor("acme"), "dbname=wall_acme")
}

func TestConfiguration_Load_InvalidTransport(t *testing.T) {
	t.Setenv("REALTIME_TRANSPORT", "carrier-pigeon")

	c := &Configuration{}
	require.Error(t, c.load(nil))
}

func TestConfiguration_Load_ProxyRequiresURL(t *testing.T) {
	t.Setenv("DB_PROXY_ENABLED", "true")

	c := &Configuration{}
	require.Error(t, c.load(nil))
}

func TestConfiguration_LogrusLogLevel(t *testing.T) {
	c := &Configuration{LogLevel: "debug"}
	assert.Equal(t, logrus.DebugLevel, c.LogrusLogLevel())

	c.LogLevel = "warn"
	assert.Equal(t, logrus.WarnLevel, c.LogrusLogLevel())

	c.LogLevel = "bogus"
	assert.Equal(t, logrus.ErrorLevel, c.LogrusLogLevel())
}
