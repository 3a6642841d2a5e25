/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package config defines deployment defaults read from a configuration source.
package config

import (
	"context"
	"maps"
	"time"

	"github.com/orien/lambdaroo/internal/model"
)

// ConfigProvider defines the interface for loading deployment defaults
type ConfigProvider interface {
	// LoadConfig loads the global settings and the shared defaults
	LoadConfig(ctx context.Context) (*Config, error)

	// GetStack returns the defaults for a stack with its overrides applied.
	// A stack without its own section receives the shared defaults.
	GetStack(ctx context.Context, stackName string) (*StackConfig, error)

	// ListStacks returns the names of stacks with their own section
	ListStacks(ctx context.Context) ([]string, error)
}

// Config represents the resolved global configuration
type Config struct {
	Region   string
	Profile  string
	Defaults *StackConfig
}

// StackConfig represents resolved deployment defaults for one stack.
// Zero values mean "not configured".
type StackConfig struct {
	Name                 string
	Template             string
	Bucket               string
	Prefix               string
	Package              string
	Parameters           []model.StackParameter
	DisabledCapabilities []string
	Wait                 *bool
	PollInterval         time.Duration
	Variables            map[string]any
}

// Merge returns a copy of base with every value configured in override applied.
// Parameters are merged by key with override values taking precedence.
func Merge(base, override *StackConfig) *StackConfig {
	merged := &StackConfig{}
	if base != nil {
		*merged = *base
		merged.Parameters = append([]model.StackParameter(nil), base.Parameters...)
		merged.DisabledCapabilities = append([]string(nil), base.DisabledCapabilities...)
		merged.Variables = maps.Clone(base.Variables)
	}
	if override == nil {
		return merged
	}

	if override.Name != "" {
		merged.Name = override.Name
	}
	if override.Template != "" {
		merged.Template = override.Template
	}
	if override.Bucket != "" {
		merged.Bucket = override.Bucket
	}
	if override.Prefix != "" {
		merged.Prefix = override.Prefix
	}
	if override.Package != "" {
		merged.Package = override.Package
	}
	if override.Wait != nil {
		wait := *override.Wait
		merged.Wait = &wait
	}
	if override.PollInterval != 0 {
		merged.PollInterval = override.PollInterval
	}
	if override.DisabledCapabilities != nil {
		merged.DisabledCapabilities = append([]string(nil), override.DisabledCapabilities...)
	}

	merged.Parameters = MergeParameters(merged.Parameters, override.Parameters)

	if len(override.Variables) > 0 {
		if merged.Variables == nil {
			merged.Variables = make(map[string]any, len(override.Variables))
		}
		maps.Copy(merged.Variables, override.Variables)
	}

	return merged
}

// MergeParameters overlays override onto base by key. Keys keep their first
// position; new keys are appended in override order.
func MergeParameters(base, override []model.StackParameter) []model.StackParameter {
	if len(override) == 0 {
		return base
	}

	merged := append([]model.StackParameter(nil), base...)
	index := make(map[string]int, len(merged))
	for i, p := range merged {
		index[p.Key] = i
	}
	for _, p := range override {
		if i, ok := index[p.Key]; ok {
			merged[i].Value = p.Value
			continue
		}
		index[p.Key] = len(merged)
		merged = append(merged, p)
	}
	return merged
}
