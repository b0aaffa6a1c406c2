package cli

import (
	"fmt"

	"github.com/stormozov/vkdisk/internal/common"
	"github.com/stormozov/vkdisk/internal/disk"
	"github.com/stormozov/vkdisk/internal/vk"
	"github.com/stormozov/vkdisk/pkg/kv"
	"github.com/stormozov/vkdisk/pkg/logger"
)

// App wires the configuration, the credential store and the two API
// clients together for the commands.
type App struct {
	Config *common.Config
	Store  *kv.Store
	VK     *vk.Client
	Disk   *disk.Client
	Build  *common.BuildConfig
}

// NewApp initializes a new App with configuration, storage and clients.
func NewApp(build *common.BuildConfig) (*App, error) {
	var config common.Config
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.GetLogger().SetLogLevel(cfg.General.LogLevel)
	logger.GetLogger().ConfigureFromEnv()

	store, err := kv.Open(cfg.General.StorageDir)
	if err != nil {
		return nil, err
	}

	return &App{
		Config: cfg,
		Store:  store,
		VK:     vk.NewClient(cfg.VK.APIBase, cfg.VK.APIVersion, NewVKTokenSource(store)),
		Disk:   disk.NewClient(cfg.Disk.APIBase, cfg.Disk.FilePrefix, NewDiskTokenSource(store)),
		Build:  build,
	}, nil
}

// Close releases the credential store.
func (a *App) Close() error {
	return a.Store.Close()
}
