/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package plan decides the change set type, parameters and capabilities for
// a deployment from the stack's settled state and the caller's inputs.
package plan

import (
	"fmt"
	"slices"
	"strings"

	"github.com/orien/lambdaroo/internal/model"
)

// Capabilities acknowledged unless the caller opts out
const (
	CapabilityIAM      = "CAPABILITY_IAM"
	CapabilityNamedIAM = "CAPABILITY_NAMED_IAM"
)

// DefaultCapabilities returns the capabilities granted to every change set
func DefaultCapabilities() []string {
	return []string{CapabilityIAM, CapabilityNamedIAM}
}

// ChooseType maps a settled stack status to the kind of change set to submit.
// RollbackComplete maps to CREATE because the failed stack is deleted first.
func ChooseType(status model.StackStatus) (model.ChangeSetType, error) {
	switch status {
	case model.StackStatusAbsent,
		model.StackStatusReviewInProgress,
		model.StackStatusDeleteComplete,
		model.StackStatusRollbackComplete:
		return model.ChangeSetTypeCreate, nil
	case model.StackStatusCreateComplete,
		model.StackStatusUpdateComplete,
		model.StackStatusUpdateRollbackComplete:
		return model.ChangeSetTypeUpdate, nil
	default:
		return "", fmt.Errorf("no change set type applies to stack status %s", status)
	}
}

// Parameters builds the change set parameter list. Supplied parameters are
// passed by value in caller order; a repeated key keeps its first position
// and its last value. For updates, every existing parameter the caller did
// not supply keeps its previous value. A non-nil declared list restricts
// those previous-value parameters to keys the new template declares.
func Parameters(changeSetType model.ChangeSetType, supplied, existing []model.StackParameter, declared []string) []model.DeploymentParameter {
	params := make([]model.DeploymentParameter, 0, len(supplied)+len(existing))
	position := make(map[string]int, len(supplied))

	for _, p := range supplied {
		if i, ok := position[p.Key]; ok {
			params[i] = model.ParameterValue(p.Key, p.Value)
			continue
		}
		position[p.Key] = len(params)
		params = append(params, model.ParameterValue(p.Key, p.Value))
	}

	if changeSetType != model.ChangeSetTypeUpdate {
		return params
	}

	for _, p := range existing {
		if _, ok := position[p.Key]; ok {
			continue
		}
		if declared != nil && !slices.Contains(declared, p.Key) {
			continue
		}
		position[p.Key] = len(params)
		params = append(params, model.PreviousParameter(p.Key))
	}

	return params
}

// Capabilities returns the default capabilities minus any the caller disabled.
// Matching is case-insensitive.
func Capabilities(disabled []string) []string {
	var capabilities []string
	for _, capability := range DefaultCapabilities() {
		if slices.ContainsFunc(disabled, func(d string) bool {
			return strings.EqualFold(strings.TrimSpace(d), capability)
		}) {
			continue
		}
		capabilities = append(capabilities, capability)
	}
	return capabilities
}

// Build assembles a complete plan for a settled stack
func Build(stack *model.StackDescriptor, supplied []model.StackParameter, declared []string, disabled []string) (*model.ChangeSetPlan, error) {
	changeSetType, err := ChooseType(stack.Status)
	if err != nil {
		return nil, err
	}

	var existing []model.StackParameter
	if changeSetType == model.ChangeSetTypeUpdate {
		existing = stack.Parameters
	}

	return &model.ChangeSetPlan{
		Type:         changeSetType,
		Parameters:   Parameters(changeSetType, supplied, existing, declared),
		Capabilities: Capabilities(disabled),
	}, nil
}
