package ui

import (
	_ "embed"
	"fmt"
	"sync"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

var (
	embeddedConfigOnce sync.Once
	embeddedConfig     Config
	embeddedConfigErr  error
)

// DefaultConfigYAML returns a copy of the embedded default config YAML bytes.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// EmbeddedDefaultConfig parses and returns the embedded default configuration.
func EmbeddedDefaultConfig() (Config, error) {
	embeddedConfigOnce.Do(func() {
		if len(embeddedDefaultConfig) == 0 {
			embeddedConfigErr = fmt.Errorf("embedded default config is empty")
			return
		}
		cfg, err := ParseConfig(embeddedDefaultConfig)
		if err != nil {
			embeddedConfigErr = fmt.Errorf("decode embedded default config: %w", err)
			return
		}
		if cfg.UI.Themes == nil {
			cfg.UI.Themes = map[string]ThemeConfig{}
		}
		embeddedConfig = cfg
	})
	return embeddedConfig, embeddedConfigErr
}
