/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package template parses CloudFormation templates into an editable tree,
// repoints function code locations at uploaded artifacts and serializes the
// result in the template's original format.
package template

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Format identifies the textual format of a template
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is a parsed template supporting path-based access. Serialization
// is a pure function of the tree.
type Document interface {
	Format() Format
	// Get returns the scalar value at path. Mappings, sequences and
	// intrinsic-function tags are not scalars.
	Get(path ...string) (string, bool)
	// Exists reports whether any value is present at path
	Exists(path ...string) bool
	// Keys lists the keys of the mapping at path in document order
	Keys(path ...string) []string
	// Set stores a string scalar at path, creating or replacing intermediate mappings
	Set(value string, path ...string) error
	Bytes() ([]byte, error)
}

// utf8BOM is written by some editors at the start of JSON templates
var utf8BOM = []byte("\xef\xbb\xbf")

// Parse detects the template format and builds the matching document.
// A body whose first non-whitespace character is '{' is JSON; anything else is YAML.
func Parse(body []byte) (Document, error) {
	body = bytes.TrimPrefix(body, utf8BOM)
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("template is empty")
	}

	if trimmed[0] == '{' {
		root, err := parseJSON(trimmed)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template: %w", err)
		}
		return &JSONDocument{tree: tree{root: root}}, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New("template root must be a mapping")
	}
	return &YAMLDocument{tree: tree{root: &root}}, nil
}

// DeclaredParameters lists the parameter names a template declares, and
// whether it has a Parameters section at all
func DeclaredParameters(doc Document) ([]string, bool) {
	if !doc.Exists("Parameters") {
		return nil, false
	}
	return doc.Keys("Parameters"), true
}

// tree implements path navigation over a yaml.v3 node tree shared by both formats
type tree struct {
	root *yaml.Node
}

var scalarTags = map[string]bool{
	"!!str":   true,
	"!!int":   true,
	"!!float": true,
	"!!bool":  true,
	"!!null":  true,
}

func (t *tree) body() *yaml.Node {
	return t.root.Content[0]
}

func (t *tree) lookup(path []string) *yaml.Node {
	node := t.body()
	for _, key := range path {
		node = resolveAlias(node)
		if node.Kind != yaml.MappingNode {
			return nil
		}
		_, value := mappingEntry(node, key)
		if value == nil {
			return nil
		}
		node = value
	}
	return resolveAlias(node)
}

func (t *tree) Get(path ...string) (string, bool) {
	node := t.lookup(path)
	if node == nil || node.Kind != yaml.ScalarNode || !scalarTags[node.ShortTag()] {
		return "", false
	}
	return node.Value, true
}

func (t *tree) Exists(path ...string) bool {
	return t.lookup(path) != nil
}

func (t *tree) Keys(path ...string) []string {
	node := t.lookup(path)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}
	return keys
}

func (t *tree) Set(value string, path ...string) error {
	if len(path) == 0 {
		return errors.New("cannot replace the template root")
	}

	node := t.body()
	for _, key := range path[:len(path)-1] {
		_, child := mappingEntry(node, key)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			appendEntry(node, key, child)
		} else if child.Kind != yaml.MappingNode {
			resetNode(child, yaml.MappingNode, "!!map", "")
		}
		node = child
	}

	last := path[len(path)-1]
	_, existing := mappingEntry(node, last)
	if existing == nil {
		appendEntry(node, last, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value})
		return nil
	}
	resetNode(existing, yaml.ScalarNode, "!!str", value)
	return nil
}

func mappingEntry(mapping *yaml.Node, key string) (*yaml.Node, *yaml.Node) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i], mapping.Content[i+1]
		}
	}
	return nil, nil
}

func appendEntry(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

// resetNode rewrites a node in place so surrounding comments stay attached
func resetNode(node *yaml.Node, kind yaml.Kind, tag, value string) {
	style := node.Style
	if kind != yaml.ScalarNode || style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) == 0 {
		style = 0
	}
	node.Kind = kind
	node.Tag = tag
	node.Value = value
	node.Style = style
	node.Content = nil
	node.Alias = nil
	node.Anchor = ""
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}
