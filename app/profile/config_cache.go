package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/lysyi3m/foaf-comb/app/feed"
	"github.com/lysyi3m/foaf-comb/app/linkeddata"
	"github.com/lysyi3m/foaf-comb/app/vocab"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWarmInterval      = 3600 // seconds
	DefaultActivityCacheTime = 3600 // seconds
)

type ConfigCache struct {
	profilesDir string
	cache       map[string]*Config
	mu          sync.RWMutex
}

func NewConfigCache(profilesDir string) *ConfigCache {
	return &ConfigCache{
		profilesDir: profilesDir,
		cache:       make(map[string]*Config),
	}
}

func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.profilesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.profilesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		fileName := filepath.Base(file)
		profileName := fileName[:len(fileName)-4]

		config, err := cc.LoadConfig(profileName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Configuration loaded", "profile", profileName, "uri", config.URI, "enabled", config.Settings.Enabled)
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(profileName string) (*Config, error) {
	configFile := cc.getConfigFilePath(profileName)
	config, err := cc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	config.Name = profileName

	if err := cc.validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[config.Name] = config

	return config, nil
}

func (cc *ConfigCache) GetConfig(profileName string) (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	config, ok := cc.cache[profileName]
	if !ok {
		return nil, fmt.Errorf("profile config with name '%s' not found", profileName)
	}
	return config, nil
}

func (cc *ConfigCache) GetConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configsCopy := make(map[string]*Config, len(cc.cache))
	for k, v := range cc.cache {
		configsCopy[k] = v
	}
	return configsCopy
}

func (cc *ConfigCache) GetEnabledConfigs() map[string]*Config {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	enabledConfigs := make(map[string]*Config)
	for k, v := range cc.cache {
		if v.Settings.Enabled {
			enabledConfigs[k] = v
		}
	}
	return enabledConfigs
}

// Names returns the loaded profile names in sorted order.
func (cc *ConfigCache) Names() []string {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	names := make([]string, 0, len(cc.cache))
	for k := range cc.cache {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *ConfigCache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	settings := &config.Settings
	if settings.LevelMax == 0 {
		settings.LevelMax = linkeddata.DefaultLevelMax
	}
	if settings.RequestsMax == 0 {
		settings.RequestsMax = linkeddata.DefaultRequestsMax
	}
	if settings.Timeout == 0 {
		settings.Timeout = int(linkeddata.DefaultRequestTimeout.Seconds())
	}
	if settings.WarmInterval == 0 {
		settings.WarmInterval = DefaultWarmInterval
	}
	if settings.Activity.MaxItems == 0 {
		settings.Activity.MaxItems = linkeddata.DefaultMaxItems
	}
	if settings.Activity.CacheTime == 0 {
		settings.Activity.CacheTime = DefaultActivityCacheTime
	}

	return &config, nil
}

func (cc *ConfigCache) validateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	if config.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	if config.URI == "" {
		return fmt.Errorf("profile URI is required")
	}
	if !vocab.IsAbsolute(config.URI) {
		return fmt.Errorf("profile URI must be absolute: %s", config.URI)
	}

	nonNegativeFields := map[string]int{
		"level max":           config.Settings.LevelMax,
		"requests max":        config.Settings.RequestsMax,
		"timeout":             config.Settings.Timeout,
		"warm interval":       config.Settings.WarmInterval,
		"activity max items":  config.Settings.Activity.MaxItems,
		"activity cache time": config.Settings.Activity.CacheTime,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	validKinds := make(map[string]bool)
	for _, kind := range linkeddata.DefaultRelationKinds() {
		validKinds[string(kind)] = true
	}
	for i, kind := range config.Settings.Activity.Kinds {
		if !validKinds[kind] {
			return fmt.Errorf("invalid activity kind at index %d: %s", i, kind)
		}
	}

	for i, filter := range config.Filters {
		if !feed.FilterFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}

func (cc *ConfigCache) getConfigFilePath(profileName string) string {
	return filepath.Join(cc.profilesDir, profileName+".yml")
}
