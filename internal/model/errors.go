/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

import (
	"fmt"
)

// PreconditionError reports a problem with the caller's inputs detected
// before any remote call was made.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

// Preconditionf builds a PreconditionError from a format string
func Preconditionf(format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

// InvalidStackStateError reports a stack in a failed or inconsistent state
// that the deployment refuses to touch.
type InvalidStackStateError struct {
	StackName string
	Status    string
}

func (e *InvalidStackStateError) Error() string {
	return fmt.Sprintf("stack %s is in invalid state %s and cannot be deployed; resolve it manually before retrying", e.StackName, e.Status)
}

// ChangeSetRejectedError reports a change set the provider failed to create.
// No infrastructure was mutated.
type ChangeSetRejectedError struct {
	ChangeSetID string
	Reason      string
	// NoChanges is set when the rejection only means the template matches the deployed stack
	NoChanges bool
}

func (e *ChangeSetRejectedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("change set %s failed", e.ChangeSetID)
	}
	return fmt.Sprintf("change set %s failed: %s", e.ChangeSetID, e.Reason)
}
