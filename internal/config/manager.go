package config

import (
	"fmt"
	"sync"
)

// managerState represents the lifecycle state of the Manager.
type managerState int

const (
	stateUninitialized managerState = iota
	stateInitialized
)

// Manager provides thread-safe access to the team-defaults configuration.
// It must be initialized via Load or LoadFile before use.
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	loader    *Loader
	state     managerState
	providers []string
	fromFile  bool
}

// NewManager creates a Manager in uninitialized state. knownProviders
// is used to validate the default_provider field; pass the registered
// provider names.
func NewManager(knownProviders []string) *Manager {
	return &Manager{
		loader:    NewLoader(),
		state:     stateUninitialized,
		providers: knownProviders,
	}
}

// Load reads .gemini-bootstrap.json from the working directory, merges
// it over compiled defaults, and validates the result.
func (m *Manager) Load(workDir string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg, err := m.loader.Load(workDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return m.store(cfg)
}

// LoadFile reads an explicitly requested config file. Errors are not
// downgraded to warnings here; see Loader.LoadFile.
func (m *Manager) LoadFile(path string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg, err := m.loader.LoadFile(path)
	if err != nil {
		return nil, err
	}

	return m.store(cfg)
}

// Get returns the current in-memory configuration.
// Returns nil if the manager has not been initialized.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Require returns the current configuration or ErrNotInitialized if
// neither Load nor LoadFile has succeeded yet.
func (m *Manager) Require() (*Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state == stateUninitialized {
		return nil, ErrNotInitialized
	}
	return m.config, nil
}

// FromFile reports whether the active configuration came from a file
// rather than compiled defaults.
func (m *Manager) FromFile() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fromFile
}

// store validates cfg and records it. Caller must hold the write lock.
func (m *Manager) store(cfg *Config) (*Config, error) {
	if err := Validate(cfg, m.providers); err != nil {
		return nil, err
	}

	m.config = cfg
	m.fromFile = m.loader.Loaded()
	m.state = stateInitialized
	return cfg, nil
}
