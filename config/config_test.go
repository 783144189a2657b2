package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MONGODB_URI", "MONGODB_DB_NAME", "PORT", "LOG_LEVEL",
		"KAFKA_BOOTSTRAP_SERVERS", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaultsWithoutFiles(t *testing.T) {
	clearEnv(t)

	c, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, defaultMongoURI, c.Mongo.URI)
	assert.Equal(t, defaultMongoDBName, c.Mongo.DBName)
	assert.Equal(t, defaultConnectTimeout, c.Mongo.ConnectTimeout)
	assert.Equal(t, "", c.Server.Port)
	assert.Equal(t, "", c.Server.ListenAddr())
	assert.Equal(t, []string{"*"}, c.Server.CORSAllowedOrigins)
	assert.Equal(t, defaultEventsTopic, c.Events.Topic)
	assert.Empty(t, c.Events.Brokers)
}

func TestLoadReadsYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yml := `
logging:
  level: debug
mongo:
  uri: mongodb://db:27017
  db_name: posts
  connect_timeout: 3s
server:
  port: "9090"
  h2c: true
  shutdown_timeout: 2s
events:
  brokers: kafka:9092
  topic: custom.topic
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, CONFIG_FILE), []byte(yml), 0o600))

	c, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "mongodb://db:27017", c.Mongo.URI)
	assert.Equal(t, "posts", c.Mongo.DBName)
	assert.Equal(t, 3*time.Second, c.Mongo.ConnectTimeout)
	assert.Equal(t, ":9090", c.Server.ListenAddr())
	assert.True(t, c.Server.H2C)
	assert.Equal(t, 2*time.Second, c.Server.ShutdownTimeout)
	assert.Equal(t, "kafka:9092", c.Events.Brokers)
	assert.Equal(t, "custom.topic", c.Events.Topic)
	assert.Equal(t, defaultPublishTimeout, c.Events.PublishTimeout)
}

func TestEnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CONFIG_FILE), []byte("server:\n  port: \"9090\"\n"), 0o600))

	t.Setenv("PORT", "7000")
	t.Setenv("MONGODB_URI", "mongodb://env:27017")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	c, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":7000", c.Server.ListenAddr())
	assert.Equal(t, "mongodb://env:27017", c.Mongo.URI)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.Server.CORSAllowedOrigins)
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("MONGODB_DB_NAME")
	t.Cleanup(func() { os.Unsetenv("MONGODB_DB_NAME") })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ENV_FILE), []byte("MONGODB_DB_NAME=from_dotenv\n"), 0o600))

	c, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from_dotenv", c.Mongo.DBName)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CONFIG_FILE), []byte("server: [unclosed"), 0o600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestListenAddrKeepsHostPort(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8080", ServerConfig{Port: "127.0.0.1:8080"}.ListenAddr())
}
