// Package storage persists the recipe history and runtime settings as
// YAML under the user config directory. It is a collaborator of the
// timer core: the core only ever sees it through the
// ConfigurationProvider interface.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"lapclock/internal/core/model"
)

const historyFileName = "recipes.yaml"

// Settings is the persisted application state: the auto-restart flag
// and the recipe history, most recently used first.
type Settings struct {
	AutoRestart bool
	Recipes     []model.TimerConfiguration
}

type yamlRecipe struct {
	ID          string    `yaml:"id"`
	Laps        int       `yaml:"laps"`
	WorkSeconds int       `yaml:"work_seconds"`
	RestSeconds int       `yaml:"rest_seconds"`
	LastUsed    time.Time `yaml:"last_used"`
}

type yamlFile struct {
	AutoRestart bool         `yaml:"auto_restart"`
	Recipes     []yamlRecipe `yaml:"recipes"`
}

// DefaultDir returns the per-user data directory for the given app name.
func DefaultDir(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName), nil
}

// Load reads settings from dir. A missing file yields empty defaults.
func Load(dir string) (Settings, error) {
	var settings Settings

	rawData, err := os.ReadFile(filepath.Join(dir, historyFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read history file: %w", err)
	}

	var fileData yamlFile
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse history yaml: %w", err)
	}

	settings.AutoRestart = fileData.AutoRestart
	for _, recipe := range fileData.Recipes {
		settings.Recipes = append(settings.Recipes, model.TimerConfiguration{
			ID:           recipe.ID,
			Laps:         recipe.Laps,
			WorkDuration: time.Duration(recipe.WorkSeconds) * time.Second,
			RestDuration: time.Duration(recipe.RestSeconds) * time.Second,
			LastUsed:     recipe.LastUsed,
		}.Normalized())
	}
	sortByRecency(settings.Recipes)
	return settings, nil
}

// Save writes settings to dir, creating it if needed.
func Save(dir string, settings Settings) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	fileData := yamlFile{AutoRestart: settings.AutoRestart}
	for _, recipe := range settings.Recipes {
		fileData.Recipes = append(fileData.Recipes, yamlRecipe{
			ID:          recipe.ID,
			Laps:        recipe.Laps,
			WorkSeconds: int(recipe.WorkDuration / time.Second),
			RestSeconds: int(recipe.RestDuration / time.Second),
			LastUsed:    recipe.LastUsed,
		})
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal history yaml: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, historyFileName), serialized, 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}

func sortByRecency(recipes []model.TimerConfiguration) {
	sort.SliceStable(recipes, func(i, j int) bool {
		return recipes[i].LastUsed.After(recipes[j].LastUsed)
	})
}

// Store is an in-memory view over the persisted settings. It implements
// the core's ConfigurationProvider: Current returns the most recently
// used recipe, falling back to the built-in default when the history is
// empty.
type Store struct {
	mu       sync.Mutex
	dir      string
	settings Settings
}

// Open loads the store from dir.
func Open(dir string) (*Store, error) {
	settings, err := Load(dir)
	if err != nil {
		return nil, err
	}
	return &Store{dir: dir, settings: settings}, nil
}

// Current returns the most recently used recipe.
func (store *Store) Current() model.TimerConfiguration {
	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.settings.Recipes) == 0 {
		return model.DefaultConfiguration()
	}
	return store.settings.Recipes[0]
}

// AutoRestart reports the persisted auto-restart flag.
func (store *Store) AutoRestart() bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.settings.AutoRestart
}

// SetAutoRestart updates and persists the auto-restart flag.
func (store *Store) SetAutoRestart(enabled bool) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.settings.AutoRestart = enabled
	return Save(store.dir, store.settings)
}

// Recipes returns a copy of the history, most recently used first.
func (store *Store) Recipes() []model.TimerConfiguration {
	store.mu.Lock()
	defer store.mu.Unlock()
	return append([]model.TimerConfiguration(nil), store.settings.Recipes...)
}

// SaveRecipe clamps, upserts by ID, stamps LastUsed and persists.
func (store *Store) SaveRecipe(config model.TimerConfiguration, now time.Time) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	config = config.Normalized()
	config.LastUsed = now

	replaced := false
	for i, recipe := range store.settings.Recipes {
		if recipe.ID == config.ID {
			store.settings.Recipes[i] = config
			replaced = true
			break
		}
	}
	if !replaced {
		store.settings.Recipes = append(store.settings.Recipes, config)
	}
	sortByRecency(store.settings.Recipes)
	return Save(store.dir, store.settings)
}

// Touch stamps an existing recipe as used now and persists. Unknown IDs
// are ignored.
func (store *Store) Touch(id string, now time.Time) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for i := range store.settings.Recipes {
		if store.settings.Recipes[i].ID == id {
			store.settings.Recipes[i].LastUsed = now
			sortByRecency(store.settings.Recipes)
			return Save(store.dir, store.settings)
		}
	}
	return nil
}
