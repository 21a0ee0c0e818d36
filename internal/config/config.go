package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrRootExists   = errors.New("music directory already configured")
	ErrRootNotFound = errors.New("music directory not configured")
	ErrLastRoot     = errors.New("cannot remove the last music directory")
)

// Config represents the application configuration
type Config struct {
	Library  LibraryConfig       `json:"library"`
	UI       UIConfig            `json:"ui"`
	Behavior BehaviorConfig      `json:"behavior"`
	Search   SearchConfig        `json:"search"`
	Keys     map[string][]string `json:"keys,omitempty"` // action -> keys, overrides defaults
}

// LibraryConfig lists the music directories and how they are scanned
type LibraryConfig struct {
	MusicDirs       []string `json:"musicDirs"`
	StartDepth      int      `json:"startDepth"` // levels loaded when a root is opened
	AudioExtensions []string `json:"audioExtensions"`
	IndexOnStart    bool     `json:"indexOnStart"`
}

// UIConfig contains display settings
type UIConfig struct {
	Theme           ThemeConfig `json:"theme"`
	HighlightSymbol string      `json:"highlightSymbol"`
	PlaylistWidth   int         `json:"playlistWidth"` // percent of the terminal width
}

// ThemeConfig holds lipgloss color strings (ANSI index or hex)
type ThemeConfig struct {
	Directory string `json:"directory"`
	File      string `json:"file"`
	Branch    string `json:"branch"`
	Selected  string `json:"selected"`
	Accent    string `json:"accent"`
	Error     string `json:"error"`
}

// BehaviorConfig contains behavior settings
type BehaviorConfig struct {
	ConfirmDelete   bool `json:"confirmDelete"`
	UseTrash        bool `json:"useTrash"`
	RestoreLastRoot bool `json:"restoreLastRoot"`
}

// SearchConfig contains library search settings
type SearchConfig struct {
	MaxResults int `json:"maxResults"`
}

// Manager handles loading and saving configuration
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	parseErr error // set when the file exists but could not be parsed
}

// NewManager creates a new config manager holding the defaults
func NewManager() *Manager {
	return &Manager{
		config: DefaultConfig(),
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Library: LibraryConfig{
			MusicDirs:       []string{filepath.Join(home, "Music")},
			StartDepth:      2,
			AudioExtensions: []string{"mp3", "flac", "ogg", "opus", "m4a", "aac", "wav", "wma", "ape", "aiff"},
			IndexOnStart:    true,
		},
		UI: UIConfig{
			Theme: ThemeConfig{
				Directory: "4",
				File:      "7",
				Branch:    "8",
				Selected:  "6",
				Accent:    "5",
				Error:     "1",
			},
			HighlightSymbol: "▶ ",
			PlaylistWidth:   40,
		},
		Behavior: BehaviorConfig{
			ConfirmDelete:   true,
			UseTrash:        true,
			RestoreLastRoot: true,
		},
		Search: SearchConfig{
			MaxResults: 500,
		},
	}
}

// ConfigPath returns the default config file location
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "crate", "config.json")
}

// DataDir returns the directory holding the library index
func DataDir() string {
	return filepath.Dir(ConfigPath())
}

// Load reads the config from the default location
func (m *Manager) Load() error {
	return m.LoadFrom(ConfigPath())
}

// LoadFrom reads the config from path, writing the defaults there if the
// file does not exist. A file that fails to parse leaves the defaults in
// place and is reported by ParseError.
func (m *Manager) LoadFrom(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.path = path
	m.parseErr = nil

	configDir := filepath.Dir(m.path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		log.Printf("Config: failed to create directory %s: %v", configDir, err)
		return err
	}

	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		log.Printf("Config: creating default config at %s", m.path)
		m.config = DefaultConfig()
		return m.saveUnlocked()
	}
	if err != nil {
		log.Printf("Config: failed to read %s: %v", m.path, err)
		return err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		log.Printf("Config: JSON parse error: %v", err)
		m.parseErr = err
		m.config = DefaultConfig()
		return nil
	}
	if cfg.Library.StartDepth <= 0 {
		cfg.Library.StartDepth = 2
	}

	log.Printf("Config: loaded from %s", m.path)
	m.config = cfg
	return nil
}

func (m *Manager) saveUnlocked() error {
	if m.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

// Save writes the current config to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveUnlocked()
}

// Get returns a copy of the current config
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return *DefaultConfig()
	}
	return *m.config
}

// ParseError returns the parse error from the last load, if any
func (m *Manager) ParseError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parseErr
}

// Roots returns the configured music directories, cleaned and with ~ expanded
func (m *Manager) Roots() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	roots := make([]string, 0, len(m.config.Library.MusicDirs))
	for _, d := range m.config.Library.MusicDirs {
		roots = append(roots, filepath.Clean(ExpandHome(d)))
	}
	return roots
}

// AddRoot appends path to the music directories and saves
func (m *Manager) AddRoot(path string) error {
	path = filepath.Clean(ExpandHome(path))

	m.mu.Lock()
	for _, d := range m.config.Library.MusicDirs {
		if filepath.Clean(ExpandHome(d)) == path {
			m.mu.Unlock()
			return ErrRootExists
		}
	}
	m.config.Library.MusicDirs = append(m.config.Library.MusicDirs, path)
	m.mu.Unlock()
	return m.Save()
}

// RemoveRoot drops path from the music directories and saves.
// The last directory cannot be removed.
func (m *Manager) RemoveRoot(path string) error {
	path = filepath.Clean(ExpandHome(path))

	m.mu.Lock()
	dirs := m.config.Library.MusicDirs
	idx := -1
	for i, d := range dirs {
		if filepath.Clean(ExpandHome(d)) == path {
			idx = i
			break
		}
	}
	switch {
	case idx < 0:
		m.mu.Unlock()
		return ErrRootNotFound
	case len(dirs) == 1:
		m.mu.Unlock()
		return ErrLastRoot
	}
	m.config.Library.MusicDirs = append(dirs[:idx:idx], dirs[idx+1:]...)
	m.mu.Unlock()
	return m.Save()
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
