package plugin

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// ManifestFile is the manifest name looked up in every hook directory.
const ManifestFile = "plugin.json"

// ErrPluginNotFound is returned by Get for an unknown hook name.
var ErrPluginNotFound = errors.New("plugin not found")

// Manager holds the hooks discovered under one directory.
type Manager struct {
	pluginDir string

	mu     sync.RWMutex
	sorted []*Plugin
	byName map[string]*Plugin
}

func NewManager(pluginDir string) *Manager {
	return &Manager{
		pluginDir: pluginDir,
		byName:    make(map[string]*Plugin),
	}
}

// Discover rescans the plugin directory and replaces the loaded set.
// A missing directory yields no hooks. Directories without a manifest are
// ignored; broken manifests are skipped and reported together once the
// scan is complete.
func (m *Manager) Discover() error {
	entries, err := os.ReadDir(m.pluginDir)
	if errors.Is(err, fs.ErrNotExist) {
		m.replace(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("scan %s: %w", m.pluginDir, err)
	}

	var (
		found []*Plugin
		errs  []error
	)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		p, err := loadPlugin(filepath.Join(m.pluginDir, entry.Name()))
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", entry.Name(), err))
		default:
			found = append(found, p)
		}
	}

	m.replace(found)
	return errors.Join(errs...)
}

func loadPlugin(dir string) (*Plugin, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if manifest.Name == "" || manifest.Executable == "" {
		return nil, errors.New("manifest needs name and executable")
	}

	return &Plugin{
		Manifest:   manifest,
		Path:       dir,
		Executable: filepath.Join(dir, manifest.Executable),
	}, nil
}

// replace installs plugins as the current set. A later duplicate name wins.
func (m *Manager) replace(plugins []*Plugin) {
	byName := make(map[string]*Plugin, len(plugins))
	for _, p := range plugins {
		byName[p.Manifest.Name] = p
	}
	sorted := make([]*Plugin, 0, len(byName))
	for _, p := range byName {
		sorted = append(sorted, p)
	}
	slices.SortFunc(sorted, func(a, b *Plugin) int {
		return cmp.Compare(a.Manifest.Name, b.Manifest.Name)
	})

	m.mu.Lock()
	m.byName = byName
	m.sorted = sorted
	m.mu.Unlock()
}

func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if p, ok := m.byName[name]; ok {
		return p, nil
	}
	return nil, ErrPluginNotFound
}

// List returns every loaded hook ordered by name.
func (m *Manager) List() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.sorted)
}

// ForGesture returns the hooks subscribed to gesture, ordered by name.
func (m *Manager) ForGesture(gesture string) []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Plugin
	for _, p := range m.sorted {
		if p.Manifest.Subscribes(gesture) {
			out = append(out, p)
		}
	}
	return out
}

func (m *Manager) PluginDir() string {
	return m.pluginDir
}
