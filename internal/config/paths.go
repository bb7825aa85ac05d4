package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GlobalDir returns <home>/.maharajah. It does not create the directory;
// EnsureGlobalConfig does.
func GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: user home dir: %w", err)
	}
	return filepath.Join(home, ".maharajah"), nil
}

// GlobalConfigPath returns <home>/.maharajah/maharajah.toml.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "maharajah.toml"), nil
}

// DbDir returns <target>/.maharajah/db, the vector table directory.
func DbDir(targetDir string) string {
	return filepath.Join(targetDir, ".maharajah", "db")
}

// ProjectConfigPath returns the first of <target>/.maharajah.toml or
// <target>/maharajah.toml that exists, or "" if neither does.
func ProjectConfigPath(targetDir string) string {
	for _, name := range []string{".maharajah.toml", "maharajah.toml"} {
		candidate := filepath.Join(targetDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// ModelDir returns <home>/.maharajah/models/<model-id>, with the model ID's
// "/" replaced so it fits in a single path segment.
func ModelDir(modelID string) (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	safe := strings.ReplaceAll(modelID, "/", "_")
	return filepath.Join(dir, "models", safe), nil
}

// EnsureGlobalConfig writes a default global config file if one does not
// already exist, auto-creating it on first launch.
func EnsureGlobalConfig() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	path, err := GlobalConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: create %s: %w", dir, err)
	}

	data, err := marshalTOML(Default())
	if err != nil {
		return fmt.Errorf("config: marshal defaults: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
