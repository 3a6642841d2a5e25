/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/orien/lambdaroo/internal/config"
	"gopkg.in/yaml.v3"
)

// Provider implements config.ConfigProvider by reading from a YAML file.
// A missing file is treated as an empty configuration.
type Provider struct {
	filename  string
	rawConfig *Config
}

// Ensure Provider satisfies the interface
var _ config.ConfigProvider = (*Provider)(nil)

// NewProvider creates a new file-based ConfigProvider for the given filename
func NewProvider(filename string) *Provider {
	return &Provider{
		filename: filename,
	}
}

// LoadConfig loads the global settings and shared defaults
func (fp *Provider) LoadConfig(ctx context.Context) (*config.Config, error) {
	if err := fp.ensureLoaded(); err != nil {
		return nil, err
	}

	defaults, err := fp.rawConfig.Defaults.toStackConfig("", fp.resolvePath)
	if err != nil {
		return nil, fmt.Errorf("invalid defaults in '%s': %w", fp.filename, err)
	}

	return &config.Config{
		Region:   fp.rawConfig.Region,
		Profile:  fp.rawConfig.Profile,
		Defaults: defaults,
	}, nil
}

// GetStack returns the shared defaults with the stack's own section applied
func (fp *Provider) GetStack(ctx context.Context, stackName string) (*config.StackConfig, error) {
	cfg, err := fp.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	override, err := fp.rawConfig.Stacks[stackName].toStackConfig(stackName, fp.resolvePath)
	if err != nil {
		return nil, fmt.Errorf("invalid settings for stack '%s' in '%s': %w", stackName, fp.filename, err)
	}

	return config.Merge(cfg.Defaults, override), nil
}

// ListStacks returns the names of stacks with their own section, sorted
func (fp *Provider) ListStacks(ctx context.Context) ([]string, error) {
	if err := fp.ensureLoaded(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(fp.rawConfig.Stacks))
	for name := range fp.rawConfig.Stacks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ensureLoaded loads the raw configuration from file if not already loaded
func (fp *Provider) ensureLoaded() error {
	if fp.rawConfig != nil {
		return nil
	}

	data, err := os.ReadFile(fp.filename)
	if errors.Is(err, fs.ErrNotExist) {
		fp.rawConfig = &Config{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", fp.filename, err)
	}

	var rawConfig Config
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return fmt.Errorf("failed to parse YAML config file '%s': %w", fp.filename, err)
	}

	fp.rawConfig = &rawConfig
	return nil
}

// resolvePath resolves a path relative to the config file directory
func (fp *Provider) resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	configDir := filepath.Dir(fp.filename)
	return filepath.Join(configDir, path)
}
