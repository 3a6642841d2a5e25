/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package describe renders the outcome of a deployment for the terminal.
package describe

import (
	"fmt"
	"strings"

	"github.com/orien/lambdaroo/internal/deploy"
	"github.com/orien/lambdaroo/internal/model"
)

// FormatResult formats a deployment result for display
func FormatResult(stackName string, result *deploy.Result) string {
	var output strings.Builder

	fmt.Fprintf(&output, "Stack: %s\n", stackName)
	if result.Plan != nil {
		fmt.Fprintf(&output, "Change set type: %s\n", result.Plan.Type)
	}
	if result.ChangeSetID != "" {
		fmt.Fprintf(&output, "Change set: %s\n", result.ChangeSetID)
	}

	switch {
	case result.NoChanges:
		output.WriteString("Result: no changes to deploy\n")
	case result.Executing:
		output.WriteString("Result: change set executing\n")
	case !result.Succeeded:
		output.WriteString("Result: failed\n")
	default:
		output.WriteString("Result: succeeded\n")
	}

	if result.Stack != nil {
		statusLabel := "Status"
		if result.Executing {
			statusLabel = "Status before execution"
		}
		writeStack(&output, result.Stack, statusLabel)
	}

	return output.String()
}

func writeStack(output *strings.Builder, stack *model.StackDescriptor, statusLabel string) {
	if stack.Exists() {
		fmt.Fprintf(output, "%s: %s\n", statusLabel, stack.DisplayStatus())
	}
	if stack.StatusReason != "" {
		fmt.Fprintf(output, "Status reason: %s\n", stack.StatusReason)
	}
	if stack.ID != "" && stack.ID != stack.Name {
		fmt.Fprintf(output, "Stack ID: %s\n", stack.ID)
	}

	if len(stack.Parameters) > 0 {
		output.WriteString("\nParameters:\n")
		for _, p := range stack.Parameters {
			fmt.Fprintf(output, "  %s: %s\n", p.Key, p.Value)
		}
	}

	if len(stack.Outputs) > 0 {
		output.WriteString("\nOutputs:\n")
		for _, o := range stack.Outputs {
			if o.Description != "" {
				fmt.Fprintf(output, "  %s: %s (%s)\n", o.Key, o.Value, o.Description)
				continue
			}
			fmt.Fprintf(output, "  %s: %s\n", o.Key, o.Value)
		}
	}
}
