package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr string `json:"addr" yaml:"addr" toml:"addr"`

	// Model artifact selection.
	ModelDir   string `json:"model_dir" yaml:"model_dir" toml:"model_dir"`
	ModelPath  string `json:"model_path" yaml:"model_path" toml:"model_path"`
	ScriptPath string `json:"script_path" yaml:"script_path" toml:"script_path"`
	Framework  string `json:"framework" yaml:"framework" toml:"framework"`

	// ArtifactRoot is the local store resolved against when model_dir is a
	// bare identifier rather than a path.
	ArtifactRoot string `json:"artifact_root" yaml:"artifact_root" toml:"artifact_root"`

	// HTTP surface tuning.
	APIKey            string `json:"api_key" yaml:"api_key" toml:"api_key"`
	MaxBodyBytes      int64  `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	PredictTimeoutSec int64  `json:"predict_timeout_sec" yaml:"predict_timeout_sec" toml:"predict_timeout_sec"`
	LogLevel          string `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
