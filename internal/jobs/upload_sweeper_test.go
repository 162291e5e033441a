package jobs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSweepRemovesOnlyStaleFiles(t *testing.T) {
	dir := t.TempDir()

	stale := filepath.Join(dir, "1000-old.pdf")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale, past, past); err != nil {
		t.Fatal(err)
	}

	fresh := filepath.Join(dir, "2000-new.pdf")
	if err := os.WriteFile(fresh, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}

	sub := filepath.Join(dir, "keepdir")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	s := NewUploadSweeper(dir, time.Hour, "@every 1h", zap.NewNop())
	s.Sweep()

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale file should be removed, stat err = %v", err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh file should survive the sweep: %v", err)
	}
	if _, err := os.Stat(sub); err != nil {
		t.Errorf("directories should survive the sweep: %v", err)
	}
}

func TestSweepMissingDirectory(t *testing.T) {
	s := NewUploadSweeper(filepath.Join(t.TempDir(), "never-created"), time.Hour, "@every 1h", zap.NewNop())
	s.Sweep()
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewUploadSweeper(t.TempDir(), time.Hour, "not a schedule", zap.NewNop())
	if err := s.Start(); err == nil {
		t.Fatal("expected an error for an unparseable schedule")
	}
}
