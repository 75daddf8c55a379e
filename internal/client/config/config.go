// Package config loads runtime configuration for canvasctl.
//
// Sources & precedence (later wins):
//
//  1. Built-in defaults.
//  2. Optional config file (YAML), either the path passed on the command line
//     or canvasctl.yaml found in "." or $HOME/.config/canvasctl.
//  3. Environment variables with the CANVASCTL_ prefix, e.g.
//     CANVASCTL_API_TOKEN. A .env file in the working directory is loaded
//     first via godotenv.
//
// The API token is deliberately not required here: when it is absent the CLI
// prompts for it without echo on first use.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// BaseURL is the root of the Canvas instance, without the /api/v1 suffix.
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// APIToken is the bearer token for the Canvas REST API.
	APIToken string `mapstructure:"api_token"`

	// AccountID scopes the terms listing.
	AccountID int `mapstructure:"account_id" validate:"gte=1"`

	// ScratchDir is the local root under which downloaded submissions are
	// organized by course/assignment/student. "~" expands to the home dir.
	ScratchDir string `mapstructure:"scratch_dir" validate:"required"`

	// DatabasePath is the SQLite file holding cached selections, the roster
	// and per-student file lists.
	DatabasePath string `mapstructure:"database_path" validate:"required"`

	// PageSize is the per_page value for paginated list endpoints.
	PageSize int `mapstructure:"page_size" validate:"gte=1,lte=100"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://canvas.cse.taylor.edu")
	v.SetDefault("api_token", "")
	v.SetDefault("account_id", 1)
	v.SetDefault("scratch_dir", "~/Scratch")
	v.SetDefault("database_path", "canvasctl.db")
	v.SetDefault("page_size", 50)
	v.SetDefault("log_level", "info")
}

// Load builds a Config from defaults, the optional config file at path (or a
// discovered canvasctl.yaml when path is empty), and CANVASCTL_* environment
// variables.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CANVASCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("canvasctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "canvasctl"))
		}
		// A missing discovered file is fine; defaults and env still apply.
		_ = v.ReadInConfig()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.ScratchDir = ExpandHome(cfg.ScratchDir)
	cfg.DatabasePath = ExpandHome(cfg.DatabasePath)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// ExpandHome replaces a leading "~" with the current user's home directory.
func ExpandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
