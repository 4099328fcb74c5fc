package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Lift.StrictUnpredictable {
		t.Error("Expected StrictUnpredictable=false")
	}
	if cfg.Lift.DefaultMode != "ARM" {
		t.Errorf("Expected DefaultMode=ARM, got %s", cfg.Lift.DefaultMode)
	}

	if cfg.CFG.LineHeight != 14.0 {
		t.Errorf("Expected LineHeight=14.0, got %v", cfg.CFG.LineHeight)
	}
	if cfg.CFG.CharWidth != 7.5 {
		t.Errorf("Expected CharWidth=7.5, got %v", cfg.CFG.CharWidth)
	}
	if cfg.CFG.Padding != 4.0 {
		t.Errorf("Expected Padding=4.0, got %v", cfg.CFG.Padding)
	}

	if cfg.API.Port != 8081 {
		t.Errorf("Expected Port=8081, got %d", cfg.API.Port)
	}
	if cfg.API.MaxSessions != 64 {
		t.Errorf("Expected MaxSessions=64, got %d", cfg.API.MaxSessions)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}

	if filepath.Base(path) != "config.toml" {
		t.Errorf("Expected path to end with config.toml, got %s", path)
	}

	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "config.toml" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}

	case "darwin", "linux":
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "arm-lifter" && path != "config.toml" {
			t.Errorf("Expected path in arm-lifter directory or fallback, got %s", path)
		}
	}
}

func TestGetLogPath(t *testing.T) {
	path := GetLogPath()

	if path == "" {
		t.Error("GetLogPath returned empty string")
	}

	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "logs" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}

	case "darwin", "linux":
		if filepath.Base(path) != "logs" {
			t.Errorf("Expected path to end with logs, got %s", path)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Lift.StrictUnpredictable = true
	cfg.Lift.DefaultMode = "Thumb"
	cfg.CFG.Padding = 6.0
	cfg.API.Port = 9090

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if !loaded.Lift.StrictUnpredictable {
		t.Error("Expected StrictUnpredictable=true")
	}
	if loaded.Lift.DefaultMode != "Thumb" {
		t.Errorf("Expected DefaultMode=Thumb, got %s", loaded.Lift.DefaultMode)
	}
	if loaded.CFG.Padding != 6.0 {
		t.Errorf("Expected Padding=6.0, got %v", loaded.CFG.Padding)
	}
	if loaded.API.Port != 9090 {
		t.Errorf("Expected Port=9090, got %d", loaded.API.Port)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}

	if cfg.API.Port != 8081 {
		t.Error("Expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[api]
port = "not a number"  # Invalid: should be an int
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()

	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Parent directories were not created")
	}
}
