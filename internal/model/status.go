/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

// StackStatus classifies the provider's stack status into the states the
// deployment state machine distinguishes between.
type StackStatus int

const (
	StackStatusAbsent StackStatus = iota
	StackStatusReviewInProgress
	StackStatusRollbackComplete
	StackStatusRollbackInProgress
	StackStatusDeleteInProgress
	StackStatusDeleteComplete
	StackStatusCreateComplete
	StackStatusUpdateComplete
	StackStatusUpdateRollbackComplete
	// StackStatusTransitionalOther covers every other *_IN_PROGRESS status
	StackStatusTransitionalOther
	// StackStatusTerminalOther covers failed or otherwise unexpected settled statuses
	StackStatusTerminalOther
)

var stackStatusNames = map[StackStatus]string{
	StackStatusAbsent:                 "Absent",
	StackStatusReviewInProgress:       "ReviewInProgress",
	StackStatusRollbackComplete:       "RollbackComplete",
	StackStatusRollbackInProgress:     "RollbackInProgress",
	StackStatusDeleteInProgress:       "DeleteInProgress",
	StackStatusDeleteComplete:         "DeleteComplete",
	StackStatusCreateComplete:         "CreateComplete",
	StackStatusUpdateComplete:         "UpdateComplete",
	StackStatusUpdateRollbackComplete: "UpdateRollbackComplete",
	StackStatusTransitionalOther:      "TransitionalOther",
	StackStatusTerminalOther:          "TerminalOther",
}

func (s StackStatus) String() string {
	if name, ok := stackStatusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IsTransitional reports whether the provider is still processing a
// previously issued request for the stack.
func (s StackStatus) IsTransitional() bool {
	switch s {
	case StackStatusReviewInProgress,
		StackStatusRollbackInProgress,
		StackStatusDeleteInProgress,
		StackStatusTransitionalOther:
		return true
	}
	return false
}

// IsSuccessful reports whether a stack operation finished cleanly
func (s StackStatus) IsSuccessful() bool {
	return s == StackStatusCreateComplete || s == StackStatusUpdateComplete
}

// ChangeSetStatus is the review state of a change set
type ChangeSetStatus int

const (
	ChangeSetStatusPending ChangeSetStatus = iota
	ChangeSetStatusCreating
	ChangeSetStatusReady
	ChangeSetStatusFailed
)

func (s ChangeSetStatus) String() string {
	switch s {
	case ChangeSetStatusPending:
		return "Pending"
	case ChangeSetStatusCreating:
		return "Creating"
	case ChangeSetStatusReady:
		return "Ready"
	case ChangeSetStatusFailed:
		return "Failed"
	}
	return "Unknown"
}

// IsReviewing reports whether the provider is still computing the change set
func (s ChangeSetStatus) IsReviewing() bool {
	return s == ChangeSetStatusPending || s == ChangeSetStatusCreating
}
