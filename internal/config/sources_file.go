package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SourcesFile is an optional YAML file overriding per-source settings,
// useful when a ";"-separated env var gets unwieldy.
//
//	stackexchange:
//	  sites: [stackoverflow, superuser]
//	  key: "..."
//	github:
//	  query_additions: "cli OR tui"
type SourcesFile struct {
	StackExchange struct {
		Sites []string `yaml:"sites"`
		Key   string   `yaml:"key"`
	} `yaml:"stackexchange"`
	GitHub struct {
		QueryAdditions string `yaml:"query_additions"`
	} `yaml:"github"`
}

// LoadSourcesFile reads path and applies any non-empty override onto cfg.
func LoadSourcesFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read sources file: %w", err)
	}

	var sf SourcesFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("failed to parse sources yaml: %w", err)
	}

	if len(sf.StackExchange.Sites) > 0 {
		cfg.SESites = sf.StackExchange.Sites
	}
	if sf.StackExchange.Key != "" {
		cfg.SEKey = sf.StackExchange.Key
	}
	if sf.GitHub.QueryAdditions != "" {
		cfg.GHQueryAdditions = sf.GitHub.QueryAdditions
	}
	return nil
}
