/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

import (
	"time"
)

// StackParameter is a key/value pair as declared on a stack or supplied by a caller
type StackParameter struct {
	Key   string
	Value string
}

// StackOutput is a single stack output
type StackOutput struct {
	Key         string
	Value       string
	Description string
}

// StackDescriptor is a point-in-time view of a stack. It is read fresh from
// the provider on every poll and never cached.
type StackDescriptor struct {
	Name         string
	ID           string
	Status       StackStatus
	RawStatus    string
	StatusReason string
	Parameters   []StackParameter
	Outputs      []StackOutput
}

// AbsentStack returns the descriptor used when the provider has no stack by that name
func AbsentStack(name string) *StackDescriptor {
	return &StackDescriptor{
		Name:   name,
		Status: StackStatusAbsent,
	}
}

// Exists reports whether the descriptor refers to a stack the provider knows about
func (d *StackDescriptor) Exists() bool {
	return d != nil && d.Status != StackStatusAbsent
}

// DisplayStatus returns the provider's status string, falling back to the classified name
func (d *StackDescriptor) DisplayStatus() string {
	if d.RawStatus != "" {
		return d.RawStatus
	}
	return d.Status.String()
}

// StackEvent is a single progress event reported by the provider
type StackEvent struct {
	ID                string
	Timestamp         time.Time
	LogicalResourceID string
	ResourceType      string
	Status            string
	Reason            string
}
