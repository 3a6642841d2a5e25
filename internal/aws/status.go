/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/orien/lambdaroo/internal/model"
)

// transitionalSuffix marks every status the provider is still working through,
// including the *_CLEANUP_IN_PROGRESS variants.
const transitionalSuffix = "IN_PROGRESS"

// TranslateStackStatus maps a CloudFormation stack status onto the deployment
// state machine's closed set of states. It is the only place provider status
// strings are interpreted.
func TranslateStackStatus(status string) model.StackStatus {
	switch types.StackStatus(status) {
	case types.StackStatusReviewInProgress:
		return model.StackStatusReviewInProgress
	case types.StackStatusRollbackComplete:
		return model.StackStatusRollbackComplete
	case types.StackStatusRollbackInProgress:
		return model.StackStatusRollbackInProgress
	case types.StackStatusDeleteInProgress:
		return model.StackStatusDeleteInProgress
	case types.StackStatusDeleteComplete:
		return model.StackStatusDeleteComplete
	case types.StackStatusCreateComplete:
		return model.StackStatusCreateComplete
	case types.StackStatusUpdateComplete:
		return model.StackStatusUpdateComplete
	case types.StackStatusUpdateRollbackComplete:
		return model.StackStatusUpdateRollbackComplete
	}

	if IsTransitionalStatus(status) {
		return model.StackStatusTransitionalOther
	}
	return model.StackStatusTerminalOther
}

// IsTransitionalStatus reports whether a stack or resource status string
// indicates work still in progress
func IsTransitionalStatus(status string) bool {
	return strings.HasSuffix(status, transitionalSuffix)
}

// TranslateChangeSetStatus maps a CloudFormation change set status onto the review states
func TranslateChangeSetStatus(status types.ChangeSetStatus) model.ChangeSetStatus {
	switch status {
	case types.ChangeSetStatusCreatePending:
		return model.ChangeSetStatusPending
	case types.ChangeSetStatusCreateInProgress:
		return model.ChangeSetStatusCreating
	case types.ChangeSetStatusCreateComplete:
		return model.ChangeSetStatusReady
	}
	// FAILED and the DELETE_* statuses all mean the change set cannot be executed
	return model.ChangeSetStatusFailed
}

// IsNoChangesReason reports whether a failed change set's reason only says
// the submitted template matches the deployed stack
func IsNoChangesReason(reason string) bool {
	return strings.Contains(reason, "didn't contain changes") ||
		strings.Contains(reason, "No updates are to be performed")
}
