package source

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Manager holds the registered sources, keyed by name. It is safe for
// concurrent use by the HTTP and MCP surfaces.
type Manager struct {
	mu      sync.RWMutex
	sources map[string]Source
	configs map[string]Config
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		sources: make(map[string]Source),
		configs: make(map[string]Config),
	}
}

// Open connects a source from its config and registers it. Registering
// an existing name replaces and closes the previous source.
func (m *Manager) Open(cfg Config) error {
	if cfg.Name == "" {
		return fmt.Errorf("source name is required")
	}

	var (
		src Source
		err error
	)
	switch cfg.Driver {
	case "csv":
		src, err = OpenCSV(cfg.Name, cfg.Path, cfg.RowCap)
	default:
		src, err = OpenSQL(cfg)
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sources[cfg.Name]; ok {
		existing.Close()
	}
	m.sources[cfg.Name] = src
	m.configs[cfg.Name] = cfg
	return nil
}

// Get returns a registered source.
func (m *Manager) Get(name string) (Source, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src, ok := m.sources[name]
	if !ok {
		return nil, fmt.Errorf("source %q not found (available: %v)", name, m.names())
	}
	return src, nil
}

// Remove closes and unregisters a source.
func (m *Manager) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	src, ok := m.sources[name]
	if !ok {
		return fmt.Errorf("source %q not found", name)
	}
	err := src.Close()
	delete(m.sources, name)
	delete(m.configs, name)
	return err
}

// List returns the registered source names, sorted.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := m.names()
	sort.Strings(names)
	return names
}

// CloseAll closes every registered source.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, src := range m.sources {
		src.Close()
		delete(m.sources, name)
		delete(m.configs, name)
	}
}

func (m *Manager) names() []string {
	names := make([]string, 0, len(m.sources))
	for n := range m.sources {
		names = append(names, n)
	}
	return names
}

// manifest is the on-disk form of the registered source configs.
type manifest struct {
	Sources []Config `yaml:"sources"`
}

// LoadManifest opens every source listed in a YAML manifest file.
// Environment variables referenced as ${VAR_NAME} are expanded before
// parsing, so DSNs can keep credentials out of the file.
func (m *Manager) LoadManifest(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	content := os.ExpandEnv(string(data))

	var mf manifest
	if err := yaml.Unmarshal([]byte(content), &mf); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}
	for _, cfg := range mf.Sources {
		if err := m.Open(cfg); err != nil {
			return fmt.Errorf("open source %q: %w", cfg.Name, err)
		}
	}
	return nil
}

// SaveManifest writes the current source configs to a YAML file, in
// sorted name order.
func (m *Manager) SaveManifest(path string) error {
	m.mu.RLock()
	names := m.names()
	sort.Strings(names)
	mf := manifest{Sources: make([]Config, 0, len(names))}
	for _, n := range names {
		mf.Sources = append(mf.Sources, m.configs[n])
	}
	m.mu.RUnlock()

	data, err := yaml.Marshal(mf)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
