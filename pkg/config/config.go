// Package config loads CLI settings from .jot.yaml, JOT_* environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// FileName is the config file base name; the .yaml extension is implicit.
const FileName = ".jot"

// Config holds the settings the CLI uses to open a notebook.
type Config struct {
	Path       string        `json:"path"`
	Adapter    string        `json:"adapter"`
	Format     string        `json:"format"`
	Debounce   time.Duration `json:"debounce"`
	Versioning bool          `json:"versioning"`
	SystemDir  string        `json:"system_dir"`
	Validate   bool          `json:"validate"`
	AutoCreate bool          `json:"auto_create"`
	// Source is the config file that was read, empty when only defaults and env applied.
	Source string `json:"source,omitempty"`
}

// Load reads the configuration. Search order for the file: $JOT_CONFIG_PATH,
// the extra dirs, then the working directory and the home directory.
// A missing file is not an error.
func Load(dirs ...string) (*Config, error) {
	v := viper.New()
	v.SetDefault("path", ".")
	v.SetDefault("adapter", "fs")
	v.SetDefault("format", "json")
	v.SetDefault("debounce", "500ms")
	v.SetDefault("versioning", false)
	v.SetDefault("system_dir", ".jot")
	v.SetDefault("validate", false)
	v.SetDefault("auto_create", false)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("JOT")
	v.AutomaticEnv()

	if override := os.Getenv("JOT_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	v.AddConfigPath(".")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", v.GetString("path"), err)
	}

	return &Config{
		Path:       path,
		Adapter:    v.GetString("adapter"),
		Format:     v.GetString("format"),
		Debounce:   v.GetDuration("debounce"),
		Versioning: v.GetBool("versioning"),
		SystemDir:  v.GetString("system_dir"),
		Validate:   v.GetBool("validate"),
		AutoCreate: v.GetBool("auto_create"),
		Source:     v.ConfigFileUsed(),
	}, nil
}
