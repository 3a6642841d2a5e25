/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package template

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// renderedExtensions mark template files that are rendered before parsing.
// Plain templates are never rendered because CloudFormation dynamic
// references also use {{ }}.
var renderedExtensions = []string{".tmpl", ".gotmpl"}

// Processor renders Go-templated CloudFormation templates with Sprig functions
type Processor struct{}

// NewProcessor creates a new template processor
func NewProcessor() *Processor {
	return &Processor{}
}

// ShouldRender reports whether the template at path is written as a Go template
func (p *Processor) ShouldRender(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range renderedExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// Process renders templateContent with the provided variables
func (p *Processor) Process(templateContent string, variables map[string]any) (string, error) {
	tmpl, err := template.New("cloudformation").
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(templateContent)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, variables); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
