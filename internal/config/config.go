package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a file path or discovers it in dir.
func Load(configPath, dir string) (map[string]any, error) {
	if configPath != "" {
		return loadFile(configPath)
	}

	// Auto-discover in the working directory
	for _, name := range []string{"uncertainty.yaml", "uncertainty.yml"} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return loadFile(candidate)
		}
	}

	return make(map[string]any), nil
}

func loadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	if result == nil {
		return make(map[string]any), nil
	}
	return result, nil
}

// Section returns a nested map section, or nil when absent.
func Section(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	if mm, ok := m[key].(map[string]any); ok {
		return mm
	}
	return nil
}

// String returns a string value from a section, or fallback.
func String(m map[string]any, key, fallback string) string {
	if m == nil {
		return fallback
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return fallback
}

// Int returns an integer value from a section, or fallback.
func Int(m map[string]any, key string, fallback int) int {
	if m == nil {
		return fallback
	}
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return fallback
}

// Float returns a float value from a section, or fallback.
func Float(m map[string]any, key string, fallback float64) float64 {
	if m == nil {
		return fallback
	}
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	}
	return fallback
}

// Strings returns a string list from a section, or nil.
func Strings(m map[string]any, key string) []string {
	if m == nil {
		return nil
	}
	list, ok := m[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
