package launcher

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"medviz/anatomy"
)

func writeScript(t *testing.T, name, body string) anatomy.Script {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	kind, known := anatomy.InferKind(name)
	return anatomy.Script{Name: name, Path: path, Kind: kind, KindKnown: known}
}

func waitFor(t *testing.T, l *Launch) {
	t.Helper()
	select {
	case <-l.Wait():
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for launch to finish")
	}
}

func TestStartMissingScript(t *testing.T) {
	_, err := Start(Options{
		Interpreter: "sh",
		Script:      anatomy.Script{Name: "HeartFlyThrough.py", Path: "/nonexistent/HeartFlyThrough.py"},
		Category:    anatomy.Cardiovascular,
	})
	if err == nil {
		t.Fatal("expected error for missing script")
	}
}

func TestStartMissingData(t *testing.T) {
	script := writeScript(t, "heart_surface_rendering.sh", "#!/bin/sh\nexit 0\n")

	_, err := Start(Options{
		Interpreter: "sh",
		Script:      script,
		Category:    anatomy.Cardiovascular,
		DataPath:    filepath.Join(t.TempDir(), "heart.nii.gz"),
	})
	if err == nil {
		t.Fatal("expected MissingDataError")
	}

	var missing *MissingDataError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingDataError, got %T: %v", err, err)
	}
	if missing.Category != anatomy.Cardiovascular {
		t.Errorf("error category = %v, want Cardiovascular", missing.Category)
	}
}

func TestLaunchCapturesOutputAndExit(t *testing.T) {
	script := writeScript(t, "brain_fly_through.sh", "#!/bin/sh\necho rendering brain\nexit 0\n")

	l, err := Start(Options{
		Interpreter: "sh",
		Script:      script,
		Category:    anatomy.Nervous,
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitFor(t, l)

	if l.Status() != Exited {
		t.Errorf("status = %v, want Exited", l.Status())
	}
	if l.ExitCode() != 0 {
		t.Errorf("exit code = %d, want 0", l.ExitCode())
	}
	if !strings.Contains(l.Output(), "rendering brain") {
		t.Errorf("output does not contain script output: %q", l.Output())
	}
	if l.EndedAt().IsZero() {
		t.Error("EndedAt should be set after exit")
	}
}

func TestLaunchFailureIsNonZeroExit(t *testing.T) {
	script := writeScript(t, "tooth_mpr.sh", "#!/bin/sh\necho cannot open dataset >&2\nexit 3\n")

	l, err := Start(Options{
		Interpreter: "sh",
		Script:      script,
		Category:    anatomy.Dental,
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitFor(t, l)

	if l.Status() != Failed {
		t.Errorf("status = %v, want Failed", l.Status())
	}
	if l.ExitCode() != 3 {
		t.Errorf("exit code = %d, want 3", l.ExitCode())
	}
	if l.Err() == nil {
		t.Error("Err should be non-nil for a failed launch")
	}
	// The pty merges stderr into the captured output.
	if !strings.Contains(l.Output(), "cannot open dataset") {
		t.Errorf("output does not contain stderr text: %q", l.Output())
	}
}

func TestLaunchReceivesDataPath(t *testing.T) {
	script := writeScript(t, "heart_surface_rendering.sh", "#!/bin/sh\necho \"data=$1\"\n")

	dataDir := t.TempDir()
	dataPath := filepath.Join(dataDir, "heart.nii.gz")
	if err := os.WriteFile(dataPath, []byte{0}, 0644); err != nil {
		t.Fatalf("failed to write data file: %v", err)
	}

	l, err := Start(Options{
		Interpreter: "sh",
		Script:      script,
		Category:    anatomy.Cardiovascular,
		DataPath:    dataPath,
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitFor(t, l)

	if !strings.Contains(l.Output(), "data="+dataPath) {
		t.Errorf("script did not receive data path: %q", l.Output())
	}
	if !strings.Contains(l.Command(), dataPath) {
		t.Errorf("Command() missing data path: %q", l.Command())
	}
}

func TestKillTerminatesLaunch(t *testing.T) {
	script := writeScript(t, "muscle_focus_navigation.sh", "#!/bin/sh\nsleep 60\n")

	l, err := Start(Options{
		Interpreter: "sh",
		Script:      script,
		Category:    anatomy.Musculoskeletal,
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := l.Kill(); err != nil {
		t.Fatalf("Kill failed: %v", err)
	}
	waitFor(t, l)

	if l.Status() != Failed {
		t.Errorf("status after kill = %v, want Failed", l.Status())
	}

	// Killing a finished launch is a no-op.
	if err := l.Kill(); err != nil {
		t.Errorf("Kill on finished launch returned %v", err)
	}
}

func TestOutputBufferKeepsTail(t *testing.T) {
	b := newOutputBuffer(8)
	if _, err := b.Write([]byte("0123456789")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := b.String(); got != "23456789" {
		t.Errorf("buffer = %q, want tail of 8 bytes", got)
	}

	if _, err := b.Write([]byte("ab")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := b.String(); got != "456789ab" {
		t.Errorf("buffer after second write = %q", got)
	}
}
