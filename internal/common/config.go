package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/stormozov/vkdisk/pkg/logger"
	"gopkg.in/yaml.v3"
)

type Config struct {
	General GeneralConfig `yaml:"General"`
	VK      VKConfig      `yaml:"VK"`
	Disk    DiskConfig    `yaml:"Disk"`
}

type GeneralConfig struct {
	StorageDir  string `yaml:"storageDir"`  // key-value store location
	DownloadDir string `yaml:"downloadDir"` // where downloaded files land
	LogLevel    string `yaml:"logLevel"`
}

type VKConfig struct {
	APIBase    string `yaml:"apiBase"`
	APIVersion string `yaml:"apiVersion"`
}

type DiskConfig struct {
	APIBase    string `yaml:"apiBase"`
	FilePrefix string `yaml:"filePrefix"` // namespaces our uploads in the cloud account
}

// Default values
var (
	defaultVKAPIBase    = "https://api.vk.com/method"
	defaultVKAPIVersion = "5.199"
	defaultDiskAPIBase  = "https://cloud-api.yandex.net/v1/disk"
	defaultFilePrefix   = "vkdisk_"
	defaultLogLevel     = "info"
)

// applyDefaultsToConfig applies default values to any fields that have zero values.
// Returns true if any defaults were applied.
func applyDefaultsToConfig(config *Config) bool {
	defaultsApplied := false

	if config.General.LogLevel == "" {
		config.General.LogLevel = defaultLogLevel
		defaultsApplied = true
	}
	if config.General.StorageDir == "" {
		config.General.StorageDir = filepath.Join(getConfigDirMustExist(), "storage")
		defaultsApplied = true
	}
	if config.General.DownloadDir == "" {
		config.General.DownloadDir = "."
		defaultsApplied = true
	}
	if config.VK.APIBase == "" {
		config.VK.APIBase = defaultVKAPIBase
		defaultsApplied = true
	}
	if config.VK.APIVersion == "" {
		config.VK.APIVersion = defaultVKAPIVersion
		defaultsApplied = true
	}
	if config.Disk.APIBase == "" {
		config.Disk.APIBase = defaultDiskAPIBase
		defaultsApplied = true
	}
	if config.Disk.FilePrefix == "" {
		config.Disk.FilePrefix = defaultFilePrefix
		defaultsApplied = true
	}

	return defaultsApplied
}

// loadConfigFromEnv overlays VKDISK_* environment variables on top of the
// file-based configuration. A .env file in the working directory is
// honored when present.
func loadConfigFromEnv(config *Config) {
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded environment from .env file")
	}

	overlay := func(field *string, env string) {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}

	overlay(&config.General.StorageDir, "VKDISK_STORAGE_DIR")
	overlay(&config.General.DownloadDir, "VKDISK_DOWNLOAD_DIR")
	overlay(&config.General.LogLevel, "VKDISK_LOG_LEVEL")
	overlay(&config.VK.APIBase, "VKDISK_VK_API_BASE")
	overlay(&config.VK.APIVersion, "VKDISK_VK_API_VERSION")
	overlay(&config.Disk.APIBase, "VKDISK_DISK_API_BASE")
	overlay(&config.Disk.FilePrefix, "VKDISK_FILE_PREFIX")
}

// getConfigDir returns the directory holding config.yml and the storage dir.
func getConfigDir() (string, error) {
	if dir := os.Getenv("VKDISK_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, ".vkdisk"), nil
}

// getConfigDirMustExist returns the config directory and creates it if it
// doesn't exist
func getConfigDirMustExist() string {
	configDir, err := getConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".vkdisk")
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		logger.Warn("Failed to create config directory", "dir", configDir, "error", err)
	}
	return configDir
}

// LoadConfig reads config.yml, applies defaults and environment
// overrides, and writes the file back when defaults were filled in for
// the first time.
func (config *Config) LoadConfig() (*Config, error) {
	configDir := getConfigDirMustExist()
	configFilePath := filepath.Join(configDir, "config.yml")

	content, err := os.ReadFile(configFilePath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(content, config); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configFilePath, err)
		}
	case os.IsNotExist(err):
		logger.Debug("No config file yet, starting from defaults", "path", configFilePath)
	default:
		return nil, fmt.Errorf("failed to read %s: %w", configFilePath, err)
	}

	// Persist filled-in defaults before the env overlay so environment
	// values never leak into the config file.
	if applyDefaultsToConfig(config) {
		if err := config.SaveConfig(); err != nil {
			return nil, err
		}
	}
	loadConfigFromEnv(config)

	return config, nil
}

// SaveConfig writes the current configuration to config.yml.
func (config *Config) SaveConfig() error {
	configDir := getConfigDirMustExist()
	configFilePath := filepath.Join(configDir, "config.yml")

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFilePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configFilePath, err)
	}
	return nil
}
