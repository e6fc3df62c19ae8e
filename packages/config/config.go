package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Issues  IssuesConfig  `yaml:"issues"`
	Locator LocatorConfig `yaml:"locator"`
	Source  SourceConfig  `yaml:"source"`
	AI      AIConfig      `yaml:"ai"`
	Publish PublishConfig `yaml:"publish"`
}

// IssuesConfig contains issue handling configuration
type IssuesConfig struct {
	RequiredLabels []string `yaml:"required_labels"`
	BranchPrefix   string   `yaml:"branch_prefix"`
}

// LocatorConfig controls file location: the project tree to search, the
// symbol index cache, and the ranking cap.
type LocatorConfig struct {
	ProjectPath     string        `yaml:"project_path"`
	SymbolIndexPath string        `yaml:"symbol_index_path"`
	MaxFiles        int           `yaml:"max_files"`
	RebuildIndex    bool          `yaml:"rebuild_index"`
	FileExtension   string        `yaml:"file_extension"`
	SkipDirs        []string      `yaml:"skip_dirs"`
	SearchTimeoutS  int           `yaml:"search_timeout_seconds"`
}

// SearchTimeout returns the per-call lexical search timeout.
func (c LocatorConfig) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutS) * time.Second
}

// SourceConfig bounds how much file content is fed downstream
type SourceConfig struct {
	MaxFileBytes int `yaml:"max_file_bytes"`
}

// AIConfig contains model tuning for the text-generation calls
type AIConfig struct {
	Model           string  `yaml:"model"`
	Temperature     float32 `yaml:"temperature"`
	TopK            int32   `yaml:"top_k"`
	TopP            float32 `yaml:"top_p"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
}

// PublishConfig contains pull-request publishing configuration
type PublishConfig struct {
	PRTitlePrefix string `yaml:"pr_title_prefix"`
}

var globalConfig *Config

// DefaultConfig returns a config populated with the built-in defaults.
// YAML values override defaults; recognized environment variables
// override both (see applyEnvOverrides).
func DefaultConfig() *Config {
	return &Config{
		Issues: IssuesConfig{
			RequiredLabels: []string{"fixflow-automate"},
			BranchPrefix:   "ai-fix/",
		},
		Locator: LocatorConfig{
			ProjectPath:     ".",
			SymbolIndexPath: ".symbol_index.json",
			MaxFiles:        5,
			RebuildIndex:    false,
			FileExtension:   ".ts",
			SkipDirs:        []string{"node_modules", "dist", "generated", ".git", "coverage"},
			SearchTimeoutS:  15,
		},
		Source: SourceConfig{
			MaxFileBytes: 100 * 1024,
		},
		AI: AIConfig{
			Model:           "gemini-2.5-flash",
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 8192,
		},
		Publish: PublishConfig{
			PRTitlePrefix: "[AI Fix] ",
		},
	}
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// If no path provided, use default
	if configPath == "" {
		configPath = "config/development.yaml"
	}

	config := DefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(config)

	// Set global config
	globalConfig = config

	return config, nil
}

// GetConfig returns the global configuration instance
func GetConfig() *Config {
	if globalConfig == nil {
		config, err := LoadConfig("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("PROJECT_PATH"); v != "" {
		c.Locator.ProjectPath = v
	}
	if v := os.Getenv("SYMBOL_INDEX_PATH"); v != "" {
		c.Locator.SymbolIndexPath = v
	}
	if v := os.Getenv("MAX_LOCATED_FILES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Locator.MaxFiles = n
		}
	}
	if v := os.Getenv("MAX_FILE_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Source.MaxFileBytes = n
		}
	}
	if v := os.Getenv("REBUILD_SYMBOL_INDEX"); v != "" {
		c.Locator.RebuildIndex = true
	}
}
