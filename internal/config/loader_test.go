package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, resolved, err := Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)
	assert.Equal(t, Default(), cfg)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "default config should be written")
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("addr: \":9090\"\nsnapshot_driver: sqlite\nsnapshot_source: inbox.db\nshutdown_timeout: 2s\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))

	t.Setenv("INBOX_SNAPSHOT_SOURCE", "override.db")
	t.Setenv("INBOX_USER_NAME", "Alice")

	cfg, _, err := Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, DriverSQLite, cfg.SnapshotDriver)
	assert.Equal(t, "override.db", cfg.SnapshotSource)
	assert.Equal(t, "Alice", cfg.UserName)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "customer@mail.com", cfg.UserID)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	limit, err := cfg.AttachmentLimit()
	require.NoError(t, err)
	assert.Equal(t, int64(25<<20), limit)

	bad := cfg
	bad.SnapshotDriver = "carrier-pigeon"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.MaxAttachmentBytes = "lots"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.UserID = ""
	assert.Error(t, bad.Validate())

	unlimited := cfg
	unlimited.MaxAttachmentBytes = "0"
	n, err := unlimited.AttachmentLimit()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateFrom(t *testing.T) {
	cfg := Default()
	cfg.UpdateFrom(Config{Addr: ":1", UserName: "Bob"})

	assert.Equal(t, ":1", cfg.Addr)
	assert.Equal(t, "Bob", cfg.UserName)
	assert.Equal(t, Default().UserID, cfg.UserID)
}
