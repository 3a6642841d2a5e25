/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

// ChangeSetType selects whether a change set creates a new stack or updates an existing one
type ChangeSetType string

const (
	ChangeSetTypeCreate ChangeSetType = "CREATE"
	ChangeSetTypeUpdate ChangeSetType = "UPDATE"
)

// DeploymentParameter is a parameter passed to a change set. Exactly one of
// Value and UsePreviousValue is meaningful.
type DeploymentParameter struct {
	Key              string
	Value            string
	UsePreviousValue bool
}

// ParameterValue returns a parameter supplied by value
func ParameterValue(key, value string) DeploymentParameter {
	return DeploymentParameter{Key: key, Value: value}
}

// PreviousParameter returns a parameter that keeps the stack's current value
func PreviousParameter(key string) DeploymentParameter {
	return DeploymentParameter{Key: key, UsePreviousValue: true}
}

// ChangeSetPlan is the mutation the orchestrator has decided to submit
type ChangeSetPlan struct {
	Type         ChangeSetType
	Parameters   []DeploymentParameter
	Capabilities []string
}

// ChangeSetDescriptor is the review state of a submitted change set
type ChangeSetDescriptor struct {
	ID           string
	Name         string
	Status       ChangeSetStatus
	RawStatus    string
	StatusReason string
}
