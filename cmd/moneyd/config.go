package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-currency/core"
	"github.com/goliatone/go-currency/telemetry"
)

// fileConfig is the on-disk layout: the money module settings at the top
// level plus a telemetry block.
type fileConfig struct {
	raw       map[string]any
	telemetry telemetry.Config
}

func loadConfigFile(path string) (fileConfig, error) {
	out := fileConfig{raw: map[string]any{}}
	path = strings.TrimSpace(path)
	if path == "" {
		return out, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &out.raw); err != nil {
		return out, fmt.Errorf("parse config %s: %w", path, err)
	}
	out.raw = normalizeNumbers(out.raw).(map[string]any)
	if block, ok := out.raw["telemetry"].(map[string]any); ok {
		out.telemetry = telemetryFromMap(block)
		delete(out.raw, "telemetry")
	}
	return out, nil
}

func (f fileConfig) provider() core.ConfigProvider {
	return core.NewCfgxConfigProvider(core.StaticConfigLoader(f.raw))
}

func telemetryFromMap(block map[string]any) telemetry.Config {
	cfg := telemetry.Config{}
	if v, ok := block["enabled"].(bool); ok {
		cfg.Enabled = v
	}
	if v, ok := block["endpoint_url"].(string); ok {
		cfg.EndpointURL = v
	}
	if v, ok := block["service_name"].(string); ok {
		cfg.ServiceName = v
	}
	switch v := block["sample_ratio"].(type) {
	case float64:
		cfg.SampleRatio = v
	case int:
		cfg.SampleRatio = float64(v)
	}
	return cfg
}

// normalizeNumbers turns integral JSON numbers into ints so they decode into
// the integer fields of the money module config.
func normalizeNumbers(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, item := range v {
			v[key] = normalizeNumbers(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = normalizeNumbers(item)
		}
		return v
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
		return v
	default:
		return value
	}
}
