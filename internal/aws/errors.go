/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// Stable codes identifying which provider call failed
const (
	CodeDescribeStacksFailed      = "DescribeStacksFailed"
	CodeDeleteStackFailed         = "DeleteStackFailed"
	CodeCreateChangeSetFailed     = "CreateChangeSetFailed"
	CodeDescribeChangeSetFailed   = "DescribeChangeSetFailed"
	CodeExecuteChangeSetFailed    = "ExecuteChangeSetFailed"
	CodeDeleteChangeSetFailed     = "DeleteChangeSetFailed"
	CodeDescribeStackEventsFailed = "DescribeStackEventsFailed"
	CodePutObjectFailed           = "PutObjectFailed"
)

// RemoteOperationError wraps a failed provider call. Each call site wraps
// exactly once.
type RemoteOperationError struct {
	Code      string
	Operation string
	Err       error
}

func (e *RemoteOperationError) Error() string {
	return fmt.Sprintf("%s (%s): %s", e.Operation, e.Code, errorMessage(e.Err))
}

func (e *RemoteOperationError) Unwrap() error {
	return e.Err
}

func newRemoteError(code, operation string, err error) error {
	return &RemoteOperationError{
		Code:      code,
		Operation: operation,
		Err:       err,
	}
}

// errorMessage prefers the provider's own message over the SDK's decorated error string
func errorMessage(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorMessage() != "" {
		return apiErr.ErrorMessage()
	}
	return err.Error()
}

// isStackNotFoundError checks if the error indicates the stack doesn't exist
func isStackNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ValidationError" &&
			strings.Contains(apiErr.ErrorMessage(), "does not exist")
	}
	return false
}
