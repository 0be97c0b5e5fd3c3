package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func reset() {
	CloseAll()
	Configure(Options{})
}

func TestDisabledByDefault(t *testing.T) {
	defer reset()
	if err := Configure(Options{}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if IsDebugMode() {
		t.Error("debug mode should be off by default")
	}
	// Must not panic or create files.
	Session("hello")
	Get(CategoryParser).Error("still a no-op")
}

func TestWritesToCategoryFile(t *testing.T) {
	defer reset()
	dir := t.TempDir()
	if err := Configure(Options{Dir: dir, Debug: true, Level: "debug"}); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	Parser("parsed %d commands", 3)
	CloseAll()

	matches, err := filepath.Glob(filepath.Join(dir, "*_parser.log"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one parser log file, got %v (err %v)", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "parsed 3 commands") {
		t.Errorf("log content = %q", data)
	}
}

func TestLevelFilter(t *testing.T) {
	defer reset()
	dir := t.TempDir()
	if err := Configure(Options{Dir: dir, Debug: true, Level: "warn"}); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	l := Get(CategoryExecutor)
	l.Debug("dropped")
	l.Info("dropped too")
	l.Warn("kept")
	CloseAll()

	matches, _ := filepath.Glob(filepath.Join(dir, "*_executor.log"))
	if len(matches) != 1 {
		t.Fatalf("expected executor log file, got %v", matches)
	}
	data, _ := os.ReadFile(matches[0])
	if strings.Contains(string(data), "dropped") {
		t.Errorf("below-level entries written: %q", data)
	}
	if !strings.Contains(string(data), "kept") {
		t.Errorf("warn entry missing: %q", data)
	}
}

func TestCategoryFilter(t *testing.T) {
	defer reset()
	dir := t.TempDir()
	err := Configure(Options{
		Dir:        dir,
		Debug:      true,
		Categories: map[string]bool{"store": false},
	})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}

	if IsCategoryEnabled(CategoryStore) {
		t.Error("store should be disabled")
	}
	if !IsCategoryEnabled(CategorySession) {
		t.Error("unlisted categories should default to enabled")
	}

	Store("suppressed")
	CloseAll()
	matches, _ := filepath.Glob(filepath.Join(dir, "*_store.log"))
	if len(matches) != 0 {
		t.Errorf("store log file created despite filter: %v", matches)
	}
}
