package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads an OrchestratorConfig from a YAML file at path,
// expanding ${VAR}/${VAR:-default}/$VAR references against the process
// environment (and any .env files already loaded via LoadEnvFiles)
// before decoding, then applies defaults and validates the result.
func LoadConfig(path string) (*OrchestratorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return LoadConfigFromString(string(data))
}

// LoadConfigFromString is LoadConfig's in-memory counterpart, used by
// tests and by callers that already have the YAML document in hand.
func LoadConfigFromString(raw string) (*OrchestratorConfig, error) {
	var document map[string]interface{}
	if err := yaml.Unmarshal([]byte(raw), &document); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	expanded := ExpandEnvVarsInData(document)

	var cfg OrchestratorConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		TagName:          "yaml",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("build decoder: %w", err)
	}
	if err := decoder.Decode(expanded); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
