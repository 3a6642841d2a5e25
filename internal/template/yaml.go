/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package template

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLDocument is a template written as YAML. Comments and short-form
// intrinsic tags such as !Ref survive a round trip.
type YAMLDocument struct {
	tree
}

func (d *YAMLDocument) Format() Format {
	return FormatYAML
}

func (d *YAMLDocument) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.root); err != nil {
		return nil, fmt.Errorf("failed to serialize template: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to serialize template: %w", err)
	}
	return buf.Bytes(), nil
}
