package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "pw")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("MONGODB_URI", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "10000", cfg.Port)
	assert.Equal(t, DriverFile, cfg.StorageDriver)
	assert.Equal(t, "./db.json", cfg.DataFile)
	assert.Equal(t, "vmnc", cfg.MongoDatabase)
	assert.Equal(t, 24*time.Hour, cfg.AdminSessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.SessionSweepInterval)
	assert.Equal(t, 10*time.Second, cfg.NotifyTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.AllowAllOrigins())
}

func TestLoad_MongoWhenURISet(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "pw")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("NOTIFY_EMAIL_TO", "a@example.com,b@example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMongo, cfg.StorageDriver)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.NotifyEmailTo)
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"no admin secret":    {},
		"unknown driver":     {"ADMIN_PASSWORD": "pw", "STORAGE_DRIVER": "redis"},
		"mongo without uri":  {"ADMIN_PASSWORD": "pw", "STORAGE_DRIVER": "mongodb"},
		"firestore no proj":  {"ADMIN_PASSWORD": "pw", "STORAGE_DRIVER": "firestore"},
		"bad ttl":            {"ADMIN_PASSWORD": "pw", "ADMIN_SESSION_TTL": "soon"},
		"non positive sweep": {"ADMIN_PASSWORD": "pw", "SESSION_SWEEP_INTERVAL": "0s"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("ADMIN_PASSWORD", "")
			t.Setenv("ADMIN_PASSWORD_HASH", "")
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestOrigins(t *testing.T) {
	cfg := Config{CORSHosts: []string{" https://a.example ", "", "https://b.example"}}
	assert.False(t, cfg.AllowAllOrigins())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
}
