package config

import (
	"encoding/json"
	"testing"

	"medviz/anatomy"
)

func TestStateRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	state := DefaultState()
	if err := state.SetHelpScreensSeen(0b101); err != nil {
		t.Fatalf("SetHelpScreensSeen failed: %v", err)
	}
	if err := state.SaveLaunches(json.RawMessage(`[{"id":"l1"}]`)); err != nil {
		t.Fatalf("SaveLaunches failed: %v", err)
	}
	if err := state.SetSelectedCategory(2); err != nil {
		t.Fatalf("SetSelectedCategory failed: %v", err)
	}

	loaded := LoadState()
	defer loaded.Close()

	if loaded.GetHelpScreensSeen() != 0b101 {
		t.Errorf("help screens seen = %b, want 101", loaded.GetHelpScreensSeen())
	}
	if string(loaded.GetLaunches()) != `[{"id":"l1"}]` {
		t.Errorf("launches = %s", loaded.GetLaunches())
	}
	if loaded.GetSelectedCategory() != 2 {
		t.Errorf("selected category = %d, want 2", loaded.GetSelectedCategory())
	}
}

func TestLoadStateMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	state := LoadState()
	defer state.Close()

	if state.GetHelpScreensSeen() != 0 {
		t.Error("fresh state should have no help screens seen")
	}
	if string(state.LaunchesData) != "[]" {
		t.Errorf("fresh state launches = %s, want []", state.LaunchesData)
	}
}

func TestDeleteAllLaunches(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	state := DefaultState()
	if err := state.SaveLaunches(json.RawMessage(`[{"id":"l1"},{"id":"l2"}]`)); err != nil {
		t.Fatalf("SaveLaunches failed: %v", err)
	}
	if err := state.DeleteAllLaunches(); err != nil {
		t.Fatalf("DeleteAllLaunches failed: %v", err)
	}

	loaded := LoadState()
	defer loaded.Close()
	if string(loaded.GetLaunches()) != "[]" {
		t.Errorf("launches after delete = %s, want []", loaded.GetLaunches())
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := LoadConfig()
	if cfg.Interpreter != "python3" {
		t.Errorf("default interpreter = %q, want python3", cfg.Interpreter)
	}
	if len(cfg.ScriptExtensions) != 1 || cfg.ScriptExtensions[0] != ".py" {
		t.Errorf("default script extensions = %v", cfg.ScriptExtensions)
	}
	if cfg.LaunchHistoryLimit <= 0 {
		t.Error("default launch history limit should be positive")
	}

	// The first load writes the defaults out; a second load reads them back.
	again := LoadConfig()
	if again.Interpreter != cfg.Interpreter || again.DataDir != cfg.DataDir {
		t.Error("reloaded config does not match saved defaults")
	}
}

func TestDataPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/imaging"

	if got := cfg.DataPath(anatomy.Nervous); got != "/imaging/brain.nii.gz" {
		t.Errorf("DataPath(Nervous) = %q", got)
	}

	cfg.DataFiles = map[string]string{"nervous": "custom_brain.vtk"}
	if got := cfg.DataPath(anatomy.Nervous); got != "/imaging/custom_brain.vtk" {
		t.Errorf("DataPath with relative override = %q", got)
	}

	cfg.DataFiles["nervous"] = "/abs/brain.vtk"
	if got := cfg.DataPath(anatomy.Nervous); got != "/abs/brain.vtk" {
		t.Errorf("DataPath with absolute override = %q", got)
	}

	// Other categories are unaffected by the override.
	if got := cfg.DataPath(anatomy.Dental); got != "/imaging/dental.nii.gz" {
		t.Errorf("DataPath(Dental) = %q", got)
	}
}
