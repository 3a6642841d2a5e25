/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/orien/lambdaroo/internal/model"
)

// ParseKeyValuePairs parses a semicolon-separated list of key=value pairs.
// A value wrapped in double quotes may contain ';' and '=', and \" inside it
// stands for a literal quote. Empty entries are ignored.
func ParseKeyValuePairs(input string) ([]model.StackParameter, error) {
	var params []model.StackParameter
	rest := input

	for {
		rest = strings.TrimLeft(rest, " \t\r\n;")
		if rest == "" {
			return params, nil
		}

		sep := strings.IndexAny(rest, "=;")
		if sep < 0 || rest[sep] == ';' {
			end := sep
			if end < 0 {
				end = len(rest)
			}
			return nil, fmt.Errorf("parameter %q is not in key=value form", strings.TrimSpace(rest[:end]))
		}

		key := strings.TrimSpace(rest[:sep])
		if key == "" {
			return nil, errors.New("parameter name must not be empty")
		}
		rest = strings.TrimLeft(rest[sep+1:], " \t")

		var value string
		if strings.HasPrefix(rest, `"`) {
			var err error
			value, rest, err = readQuoted(rest[1:])
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", key, err)
			}
			rest = strings.TrimLeft(rest, " \t\r\n")
			if rest != "" && rest[0] != ';' {
				return nil, fmt.Errorf("parameter %s: unexpected text after quoted value", key)
			}
		} else {
			end := strings.IndexByte(rest, ';')
			if end < 0 {
				end = len(rest)
			}
			value = strings.TrimSpace(rest[:end])
			rest = rest[end:]
		}

		params = append(params, model.StackParameter{Key: key, Value: value})
	}
}

func readQuoted(s string) (string, string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == '"':
			b.WriteByte('"')
			i++
		case s[i] == '"':
			return b.String(), s[i+1:], nil
		default:
			b.WriteByte(s[i])
		}
	}
	return "", "", errors.New("unterminated quoted value")
}

// ParseList splits a comma-separated list, dropping blank entries
func ParseList(input string) []string {
	var items []string
	for _, item := range strings.Split(input, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
