package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsApplied(t *testing.T) {
	t.Setenv("VKDISK_CONFIG_DIR", t.TempDir())

	var config Config
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://api.vk.com/method", cfg.VK.APIBase)
	assert.Equal(t, "5.199", cfg.VK.APIVersion)
	assert.Equal(t, "https://cloud-api.yandex.net/v1/disk", cfg.Disk.APIBase)
	assert.Equal(t, "vkdisk_", cfg.Disk.FilePrefix)
	assert.Equal(t, "info", cfg.General.LogLevel)
	assert.NotEmpty(t, cfg.General.StorageDir)
}

func TestLoadConfig_WritesFileOnFirstRun(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VKDISK_CONFIG_DIR", dir)

	var config Config
	_, err := config.LoadConfig()
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "config.yml"))
	assert.NoError(t, err, "defaults should be persisted on first load")
}

func TestLoadConfig_FileValuesKept(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VKDISK_CONFIG_DIR", dir)

	content := `General:
  logLevel: debug
Disk:
  filePrefix: custom_
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0644))

	var config Config
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.General.LogLevel)
	assert.Equal(t, "custom_", cfg.Disk.FilePrefix)
	// Unset fields still get defaults
	assert.Equal(t, "https://api.vk.com/method", cfg.VK.APIBase)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VKDISK_CONFIG_DIR", dir)
	t.Setenv("VKDISK_DISK_API_BASE", "http://127.0.0.1:9090/v1/disk")

	var config Config
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9090/v1/disk", cfg.Disk.APIBase)

	// The override must not be written back to disk
	saved, err := os.ReadFile(filepath.Join(dir, "config.yml"))
	require.NoError(t, err)
	assert.NotContains(t, string(saved), "127.0.0.1:9090")
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("VKDISK_CONFIG_DIR", t.TempDir())

	var config Config
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	cfg.General.DownloadDir = "/tmp/photos"
	require.NoError(t, cfg.SaveConfig())

	var reloaded Config
	got, err := reloaded.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/photos", got.General.DownloadDir)
}
