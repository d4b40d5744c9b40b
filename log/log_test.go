package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetLogDir(t *testing.T) {
	// Nil config falls back to the default directory.
	dir, err := GetLogDir(nil)
	if err != nil {
		t.Errorf("GetLogDir failed with nil config: %v", err)
	}
	if dir == "" {
		t.Error("GetLogDir returned empty string for nil config")
	}

	// Disabled logging goes to the temp directory.
	cfg := &LogConfig{
		LogsEnabled: false,
	}
	dir, err = GetLogDir(cfg)
	if err != nil {
		t.Errorf("GetLogDir failed with disabled logging: %v", err)
	}
	if dir != os.TempDir() {
		t.Errorf("GetLogDir should return temp dir for disabled logging, got %s", dir)
	}

	// Custom log directory is used as-is.
	cfg = &LogConfig{
		LogsEnabled: true,
		LogsDir:     "/custom/log/dir",
	}
	dir, err = GetLogDir(cfg)
	if err != nil {
		t.Errorf("GetLogDir failed with custom log dir: %v", err)
	}
	if dir != "/custom/log/dir" {
		t.Errorf("GetLogDir should return custom log dir, got %s", dir)
	}
}

func TestGetLogFilePath(t *testing.T) {
	tmp := t.TempDir()
	cfg := &LogConfig{
		LogsEnabled: true,
		LogsDir:     tmp,
	}

	path, err := GetLogFilePath(cfg)
	if err != nil {
		t.Fatalf("GetLogFilePath failed: %v", err)
	}
	if path != filepath.Join(tmp, "medviz.log") {
		t.Errorf("unexpected log file path: %s", path)
	}
}

func TestGetLaunchLogFilePathSanitizes(t *testing.T) {
	tmp := t.TempDir()
	cfg := &LogConfig{
		LogsEnabled: true,
		LogsDir:     tmp,
	}

	path, err := GetLaunchLogFilePath(cfg, "heart/surface rendering:1")
	if err != nil {
		t.Fatalf("GetLaunchLogFilePath failed: %v", err)
	}

	base := filepath.Base(path)
	if strings.ContainsAny(base, "/: ") {
		t.Errorf("launch ID was not sanitized: %s", base)
	}
	if !strings.HasPrefix(base, "launch_") || !strings.HasSuffix(base, ".log") {
		t.Errorf("unexpected launch log file name: %s", base)
	}
}

func TestLaunchLoggersReused(t *testing.T) {
	tmp := t.TempDir()
	InitializeWithConfig(&LogConfig{
		LogsEnabled:   true,
		LogsDir:       tmp,
		UseLaunchLogs: true,
	})

	first, err := GetLaunchLoggers("test-launch")
	if err != nil {
		t.Fatalf("GetLaunchLoggers failed: %v", err)
	}
	second, err := GetLaunchLoggers("test-launch")
	if err != nil {
		t.Fatalf("GetLaunchLoggers failed on second call: %v", err)
	}
	if first != second {
		t.Error("expected the same loggers for the same launch ID")
	}
}

func TestEveryShouldLog(t *testing.T) {
	e := NewEvery(time.Hour)
	if !e.ShouldLog() {
		t.Error("first ShouldLog should return true")
	}
	if e.ShouldLog() {
		t.Error("second ShouldLog within the timeout should return false")
	}
}
