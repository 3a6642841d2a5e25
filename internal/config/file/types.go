/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package file contains the raw YAML structure of the lambdaroo.yaml
// defaults file and a ConfigProvider that reads it.
package file

import (
	"fmt"
	"time"

	"github.com/orien/lambdaroo/internal/config"
	"github.com/orien/lambdaroo/internal/model"
	"gopkg.in/yaml.v3"
)

// Config represents the raw YAML configuration file structure
type Config struct {
	Region   string            `yaml:"region"`
	Profile  string            `yaml:"profile"`
	Defaults *Stack            `yaml:"defaults"`
	Stacks   map[string]*Stack `yaml:"stacks"`
}

// Stack represents deployment settings as they appear in YAML, either as the
// shared defaults or as one stack's overrides
type Stack struct {
	Template             string         `yaml:"template"`
	Bucket               string         `yaml:"s3-bucket"`
	Prefix               string         `yaml:"s3-prefix"`
	Package              string         `yaml:"package"`
	Parameters           yamlParameters `yaml:"parameters"`
	DisabledCapabilities []string       `yaml:"disable-capabilities"`
	Wait                 *bool          `yaml:"wait"`
	PollInterval         string         `yaml:"poll-interval"`
	Variables            map[string]any `yaml:"variables"`
}

// yamlParameters keeps template parameters in file order
type yamlParameters []model.StackParameter

// UnmarshalYAML implements custom YAML unmarshalling for yamlParameters
func (p *yamlParameters) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: parameters must be a mapping of name to value", node.Line)
	}

	params := make(yamlParameters, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: parameter %s must be a scalar value", value.Line, key.Value)
		}
		params = append(params, model.StackParameter{Key: key.Value, Value: value.Value})
	}
	*p = params
	return nil
}

// toStackConfig converts the raw YAML section to a resolved StackConfig
func (s *Stack) toStackConfig(name string, resolvePath func(string) string) (*config.StackConfig, error) {
	if s == nil {
		return &config.StackConfig{Name: name}, nil
	}

	resolved := &config.StackConfig{
		Name:                 name,
		Template:             resolvePath(s.Template),
		Bucket:               s.Bucket,
		Prefix:               s.Prefix,
		Package:              resolvePath(s.Package),
		Parameters:           append([]model.StackParameter(nil), s.Parameters...),
		DisabledCapabilities: s.DisabledCapabilities,
		Wait:                 s.Wait,
		Variables:            s.Variables,
	}

	if s.PollInterval != "" {
		interval, err := time.ParseDuration(s.PollInterval)
		if err != nil {
			return nil, fmt.Errorf("invalid poll-interval %q: %w", s.PollInterval, err)
		}
		if interval <= 0 {
			return nil, fmt.Errorf("poll-interval must be positive, got %s", s.PollInterval)
		}
		resolved.PollInterval = interval
	}

	return resolved, nil
}
