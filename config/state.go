package config

import (
	"context"
	"encoding/json"
	"fmt"
	"medviz/log"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	StateFileName = "state.json"
	// LockFileName is the name of the lock file.
	LockFileName = "state.lock"
	// DefaultLockTimeout is the default timeout for acquiring locks.
	DefaultLockTimeout = 5 * time.Second
)

// LaunchStorage handles launch-history operations.
type LaunchStorage interface {
	// SaveLaunches saves the raw launch history data.
	SaveLaunches(launchesJSON json.RawMessage) error
	// GetLaunches returns the raw launch history data.
	GetLaunches() json.RawMessage
	// DeleteAllLaunches removes all stored launch records.
	DeleteAllLaunches() error
}

// AppState handles application-level state.
type AppState interface {
	// GetHelpScreensSeen returns the bitmask of seen help screens.
	GetHelpScreensSeen() uint32
	// SetHelpScreensSeen updates the bitmask of seen help screens.
	SetHelpScreensSeen(seen uint32) error
}

// StateManager combines launch storage and app state management.
type StateManager interface {
	LaunchStorage
	AppState

	// RefreshState reloads state from disk to pick up changes made by
	// other processes.
	RefreshState() error

	// Close releases any resources held by the state manager.
	Close() error
}

// UIState represents UI preferences that persist between runs.
type UIState struct {
	// SelectedCategory is the last selected category index.
	SelectedCategory int `json:"selected_category"`
	// ShowOutput tracks whether the output pane was active.
	ShowOutput bool `json:"show_output"`
}

// State is the application state that persists between runs.
type State struct {
	// HelpScreensSeen is a bitmask tracking which help screens have been shown.
	HelpScreensSeen uint32 `json:"help_screens_seen"`
	// LaunchesData stores the serialized launch history as raw JSON.
	LaunchesData json.RawMessage `json:"launches"`
	// UI stores the UI preferences.
	UI UIState `json:"ui"`

	// Lock file for coordinating state access across processes.
	lockFile    *flock.Flock  `json:"-"`
	lockTimeout time.Duration `json:"-"`
}

// DefaultState returns the default state.
func DefaultState() *State {
	configDir, err := GetConfigDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get config directory: %v", err)
		// Minimal state without locking if the config dir is unavailable.
		return &State{
			HelpScreensSeen: 0,
			LaunchesData:    json.RawMessage("[]"),
		}
	}

	lockPath := filepath.Join(configDir, LockFileName)

	return &State{
		HelpScreensSeen: 0,
		LaunchesData:    json.RawMessage("[]"),
		lockFile:        flock.New(lockPath),
		lockTimeout:     DefaultLockTimeout,
	}
}

// LoadState loads the state from disk with locking. If it cannot be done,
// the default state is returned.
func LoadState() *State {
	state := DefaultState()

	if err := state.loadFromDisk(); err != nil {
		log.WarningLog.Printf("failed to load state from disk: %v", err)
	}

	return state
}

// loadFromDisk loads state from disk with a shared read lock.
func (s *State) loadFromDisk() error {
	if s.lockFile == nil {
		log.WarningLog.Printf("lock file not initialized, loading state without locking")
		return s.loadFromDiskWithoutLocking()
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.lockTimeout)
	defer cancel()

	locked, err := s.lockFile.TryRLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire read lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire read lock within timeout")
	}
	defer s.lockFile.Unlock()

	return s.loadFromDiskWithoutLocking()
}

func (s *State) loadFromDiskWithoutLocking() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	statePath := filepath.Join(configDir, StateFileName)
	data, err := os.ReadFile(statePath)
	if err != nil {
		if os.IsNotExist(err) {
			// No state yet, keep the defaults.
			return nil
		}
		return fmt.Errorf("failed to read state file: %w", err)
	}

	var newState State
	if err := json.Unmarshal(data, &newState); err != nil {
		return fmt.Errorf("failed to parse state file: %w", err)
	}

	// Update the fields but keep the lock file and timeout.
	s.HelpScreensSeen = newState.HelpScreensSeen
	s.LaunchesData = newState.LaunchesData
	s.UI = newState.UI
	if s.LaunchesData == nil {
		s.LaunchesData = json.RawMessage("[]")
	}

	return nil
}

// SaveState saves the state to disk with locking.
func SaveState(state *State) error {
	return state.saveToDisk()
}

// saveToDisk saves state to disk with an exclusive write lock.
func (s *State) saveToDisk() error {
	if s.lockFile == nil {
		log.WarningLog.Printf("lock file not initialized, saving state without locking")
		return s.saveToDiskWithoutLocking()
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.lockTimeout)
	defer cancel()

	locked, err := s.lockFile.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire write lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire write lock within timeout")
	}
	defer s.lockFile.Unlock()

	return s.saveToDiskWithoutLocking()
}

func (s *State) saveToDiskWithoutLocking() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	statePath := filepath.Join(configDir, StateFileName)
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// Write to a temporary file first so the update is atomic.
	tmpPath := statePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}

	if err := os.Rename(tmpPath, statePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to atomically update state file: %w", err)
	}

	return nil
}

// LaunchStorage interface implementation

// SaveLaunches saves the raw launch history with locking.
func (s *State) SaveLaunches(launchesJSON json.RawMessage) error {
	s.LaunchesData = launchesJSON
	return SaveState(s)
}

// GetLaunches returns the raw launch history after refreshing from disk.
func (s *State) GetLaunches() json.RawMessage {
	if err := s.RefreshState(); err != nil {
		log.WarningLog.Printf("failed to refresh state: %v", err)
	}
	return s.LaunchesData
}

// DeleteAllLaunches removes all stored launch records with locking.
func (s *State) DeleteAllLaunches() error {
	s.LaunchesData = json.RawMessage("[]")
	return SaveState(s)
}

// AppState interface implementation

// GetHelpScreensSeen returns the bitmask of seen help screens.
func (s *State) GetHelpScreensSeen() uint32 {
	return s.HelpScreensSeen
}

// SetHelpScreensSeen updates the bitmask of seen help screens.
func (s *State) SetHelpScreensSeen(seen uint32) error {
	s.HelpScreensSeen = seen
	return SaveState(s)
}

// RefreshState reloads state from disk with locking.
func (s *State) RefreshState() error {
	return s.loadFromDisk()
}

// Close releases any locks held by this state.
func (s *State) Close() error {
	if s.lockFile != nil {
		return s.lockFile.Unlock()
	}
	return nil
}

// UI state management

// SetSelectedCategory updates the persisted category selection.
func (s *State) SetSelectedCategory(index int) error {
	s.UI.SelectedCategory = index
	return SaveState(s)
}

// GetSelectedCategory returns the last selected category index.
func (s *State) GetSelectedCategory() int {
	return s.UI.SelectedCategory
}

// SetShowOutput updates the persisted output-pane preference.
func (s *State) SetShowOutput(show bool) error {
	s.UI.ShowOutput = show
	return SaveState(s)
}
