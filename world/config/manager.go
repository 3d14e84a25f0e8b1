package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wricardo/tilenav/world/nav"
	"github.com/wricardo/tilenav/world/service"
)

// DefaultMapID is preferred as the default map when present.
const DefaultMapID = "default"

var (
	ErrConfigNotFound = fmt.Errorf("map configuration %w", service.ErrNotFound)
	ErrInvalidConfig  = fmt.Errorf("%w: invalid map configuration", service.ErrInvalidInput)
)

// Manager handles map configuration loading and caching
type Manager struct {
	configDir     string
	defaultID     string
	defaultConfig *nav.MapConfig
	configs       map[string]*nav.MapConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*nav.MapConfig),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// LoadConfig loads a map configuration by ID
func (m *Manager) LoadConfig(name string) (*nav.MapConfig, error) {
	id, err := mapID(name)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	if config, exists := m.configs[id]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[id]; exists {
		return config, nil
	}

	data, err := os.ReadFile(m.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config nav.MapConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, id, err)
	}

	if err := nav.ValidateMapConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.configs[id] = &config
	return &config, nil
}

// ListConfigs returns information about all loadable map configurations.
// Invalid files are skipped.
func (m *Manager) ListConfigs() ([]*service.MapInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	configs := []*service.MapInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		config, err := m.LoadConfig(id)
		if err != nil {
			continue
		}

		configs = append(configs, mapInfo(entry.Name(), id, config))
	}

	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *nav.MapConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// DefaultID returns the ID of the default configuration
func (m *Manager) DefaultID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultID
}

// SetDefault sets the default configuration by ID
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultID = strings.TrimSuffix(name, ".json")
	m.defaultConfig = config
	return nil
}

// RefreshCache drops all cached configurations and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*nav.MapConfig)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// SaveConfig validates and writes a configuration to disk
func (m *Manager) SaveConfig(name string, config *nav.MapConfig) error {
	id, err := mapID(name)
	if err != nil {
		return err
	}

	if err := nav.ValidateMapConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.path(id), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[id] = config
	m.mu.Unlock()

	return nil
}

// loadDefaultConfig picks DefaultMapID, then the first loadable map, then
// a built-in open room.
func (m *Manager) loadDefaultConfig() error {
	id := DefaultMapID
	config, err := m.LoadConfig(id)
	if err != nil {
		configs, listErr := m.ListConfigs()
		if listErr != nil || len(configs) == 0 {
			m.setDefault(DefaultMapID, createMinimalConfig())
			return nil
		}

		id = configs[0].MapID
		config, err = m.LoadConfig(id)
		if err != nil {
			m.setDefault(DefaultMapID, createMinimalConfig())
			return nil
		}
	}

	m.setDefault(id, config)
	return nil
}

func (m *Manager) setDefault(id string, config *nav.MapConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultID = id
	m.defaultConfig = config
	if _, cached := m.configs[id]; !cached {
		m.configs[id] = config
	}
}

func (m *Manager) path(id string) string {
	return filepath.Join(m.configDir, id+".json")
}

// mapID strips the .json extension and rejects names that would escape
// the config directory.
func mapID(name string) (string, error) {
	id := strings.TrimSuffix(strings.TrimSpace(name), ".json")
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("%w: bad map id %q", ErrInvalidConfig, name)
	}
	return id, nil
}

func mapInfo(filename, id string, config *nav.MapConfig) *service.MapInfo {
	info := &service.MapInfo{
		Filename:    filename,
		MapID:       id,
		Name:        config.Name,
		Description: config.Description,
		Height:      len(config.Layout),
	}

	legend := config.EffectiveLegend()
	for _, row := range config.Layout {
		runes := []rune(row)
		info.Width = max(info.Width, len(runes))
		for _, r := range runes {
			if spec, ok := legend[string(r)]; ok && spec.Walkable {
				info.WalkableCells++
			}
		}
	}
	return info
}

// createMinimalConfig creates a minimal valid configuration
func createMinimalConfig() *nav.MapConfig {
	return &nav.MapConfig{
		Name:        "default",
		Description: "Default open room",
		Layout: []string{
			"#######",
			"#.....#",
			"#.....#",
			"#.....#",
			"#######",
		},
	}
}
