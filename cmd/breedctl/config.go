package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fileConfig es ~/.config/breedctl/config.yaml. Prioridad: flag > env > archivo > default.
type fileConfig struct {
	APIURL  string        `yaml:"api_url"`
	Cache   string        `yaml:"cache"`
	Timeout time.Duration `yaml:"timeout"`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "breedctl", "config.yaml")
}

// loadFileConfig: un archivo inexistente no es error.
func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fc, nil
	}
	if err != nil {
		return fc, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

// resolve completa los flags que no se pasaron explícitamente.
func (c *cli) resolve(cmd *cobra.Command) error {
	fc, err := loadFileConfig(c.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()

	if !flags.Changed("api-url") {
		switch {
		case os.Getenv(envAPIURL) != "":
			c.apiURL = os.Getenv(envAPIURL)
		case fc.APIURL != "":
			c.apiURL = fc.APIURL
		}
	}
	if !flags.Changed("cache") && fc.Cache != "" {
		c.cachePath = fc.Cache
	}
	if !flags.Changed("timeout") && fc.Timeout > 0 {
		c.timeout = fc.Timeout
	}
	return nil
}
