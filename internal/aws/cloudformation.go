/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/orien/lambdaroo/internal/model"
)

// DefaultCloudFormationOperations provides CloudFormation-specific operations
type DefaultCloudFormationOperations struct {
	client CloudFormationClient
}

// NewCloudFormationOperationsWithClient creates operations with a custom client (for testing)
func NewCloudFormationOperationsWithClient(client CloudFormationClient) *DefaultCloudFormationOperations {
	return &DefaultCloudFormationOperations{
		client: client,
	}
}

// DescribeStack retrieves the current state of a stack
func (cf *DefaultCloudFormationOperations) DescribeStack(ctx context.Context, stackName string) (*model.StackDescriptor, error) {
	result, err := cf.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		if isStackNotFoundError(err) {
			return model.AbsentStack(stackName), nil
		}
		return nil, newRemoteError(CodeDescribeStacksFailed, fmt.Sprintf("describe stack %s", stackName), err)
	}

	if len(result.Stacks) == 0 {
		return model.AbsentStack(stackName), nil
	}

	return convertStack(result.Stacks[0]), nil
}

func convertStack(cfnStack types.Stack) *model.StackDescriptor {
	raw := string(cfnStack.StackStatus)
	stack := &model.StackDescriptor{
		Name:         aws.ToString(cfnStack.StackName),
		ID:           aws.ToString(cfnStack.StackId),
		Status:       TranslateStackStatus(raw),
		RawStatus:    raw,
		StatusReason: aws.ToString(cfnStack.StackStatusReason),
		Parameters:   make([]model.StackParameter, 0, len(cfnStack.Parameters)),
		Outputs:      make([]model.StackOutput, 0, len(cfnStack.Outputs)),
	}

	for _, param := range cfnStack.Parameters {
		stack.Parameters = append(stack.Parameters, model.StackParameter{
			Key:   aws.ToString(param.ParameterKey),
			Value: aws.ToString(param.ParameterValue),
		})
	}

	for _, output := range cfnStack.Outputs {
		stack.Outputs = append(stack.Outputs, model.StackOutput{
			Key:         aws.ToString(output.OutputKey),
			Value:       aws.ToString(output.OutputValue),
			Description: aws.ToString(output.Description),
		})
	}

	return stack
}

// DeleteStack starts deletion of a stack
func (cf *DefaultCloudFormationOperations) DeleteStack(ctx context.Context, stackName string) error {
	_, err := cf.client.DeleteStack(ctx, &cloudformation.DeleteStackInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return newRemoteError(CodeDeleteStackFailed, fmt.Sprintf("delete stack %s", stackName), err)
	}

	return nil
}

// CreateChangeSet submits a change set and returns its ID
func (cf *DefaultCloudFormationOperations) CreateChangeSet(ctx context.Context, input CreateChangeSetInput) (string, error) {
	params := make([]types.Parameter, len(input.Parameters))
	for i, p := range input.Parameters {
		if p.UsePreviousValue {
			params[i] = types.Parameter{
				ParameterKey:     aws.String(p.Key),
				UsePreviousValue: aws.Bool(true),
			}
			continue
		}
		params[i] = types.Parameter{
			ParameterKey:   aws.String(p.Key),
			ParameterValue: aws.String(p.Value),
		}
	}

	capabilities := make([]types.Capability, len(input.Capabilities))
	for i, c := range input.Capabilities {
		capabilities[i] = types.Capability(c)
	}

	request := &cloudformation.CreateChangeSetInput{
		StackName:     aws.String(input.StackName),
		ChangeSetName: aws.String(input.ChangeSetName),
		ChangeSetType: types.ChangeSetType(input.Type),
		TemplateURL:   aws.String(input.TemplateURL),
		Parameters:    params,
		Capabilities:  capabilities,
	}
	if input.Description != "" {
		request.Description = aws.String(input.Description)
	}

	output, err := cf.client.CreateChangeSet(ctx, request)
	if err != nil {
		return "", newRemoteError(CodeCreateChangeSetFailed, fmt.Sprintf("create change set %s for stack %s", input.ChangeSetName, input.StackName), err)
	}

	return aws.ToString(output.Id), nil
}

// DescribeChangeSet retrieves the review state of a change set
func (cf *DefaultCloudFormationOperations) DescribeChangeSet(ctx context.Context, changeSetID string) (*model.ChangeSetDescriptor, error) {
	output, err := cf.client.DescribeChangeSet(ctx, &cloudformation.DescribeChangeSetInput{
		ChangeSetName: aws.String(changeSetID),
	})
	if err != nil {
		return nil, newRemoteError(CodeDescribeChangeSetFailed, fmt.Sprintf("describe change set %s", changeSetID), err)
	}

	id := aws.ToString(output.ChangeSetId)
	if id == "" {
		id = changeSetID
	}

	return &model.ChangeSetDescriptor{
		ID:           id,
		Name:         aws.ToString(output.ChangeSetName),
		Status:       TranslateChangeSetStatus(output.Status),
		RawStatus:    string(output.Status),
		StatusReason: aws.ToString(output.StatusReason),
	}, nil
}

// ExecuteChangeSet starts the stack mutation described by a change set
func (cf *DefaultCloudFormationOperations) ExecuteChangeSet(ctx context.Context, changeSetID string) error {
	_, err := cf.client.ExecuteChangeSet(ctx, &cloudformation.ExecuteChangeSetInput{
		ChangeSetName: aws.String(changeSetID),
	})
	if err != nil {
		return newRemoteError(CodeExecuteChangeSetFailed, fmt.Sprintf("execute change set %s", changeSetID), err)
	}

	return nil
}

// DeleteChangeSet deletes a change set that will not be executed
func (cf *DefaultCloudFormationOperations) DeleteChangeSet(ctx context.Context, changeSetID string) error {
	_, err := cf.client.DeleteChangeSet(ctx, &cloudformation.DeleteChangeSetInput{
		ChangeSetName: aws.String(changeSetID),
	})
	if err != nil {
		return newRemoteError(CodeDeleteChangeSetFailed, fmt.Sprintf("delete change set %s", changeSetID), err)
	}

	return nil
}

// DescribeStackEvents retrieves a single page of stack events
func (cf *DefaultCloudFormationOperations) DescribeStackEvents(ctx context.Context, stackName, nextToken string) (*StackEventsPage, error) {
	input := &cloudformation.DescribeStackEventsInput{
		StackName: aws.String(stackName),
	}
	if nextToken != "" {
		input.NextToken = aws.String(nextToken)
	}

	output, err := cf.client.DescribeStackEvents(ctx, input)
	if err != nil {
		return nil, newRemoteError(CodeDescribeStackEventsFailed, fmt.Sprintf("describe events for stack %s", stackName), err)
	}

	page := &StackEventsPage{
		Events:    make([]model.StackEvent, 0, len(output.StackEvents)),
		NextToken: aws.ToString(output.NextToken),
	}
	for _, event := range output.StackEvents {
		page.Events = append(page.Events, model.StackEvent{
			ID:                aws.ToString(event.EventId),
			Timestamp:         aws.ToTime(event.Timestamp),
			LogicalResourceID: aws.ToString(event.LogicalResourceId),
			ResourceType:      aws.ToString(event.ResourceType),
			Status:            string(event.ResourceStatus),
			Reason:            aws.ToString(event.ResourceStatusReason),
		})
	}

	return page, nil
}
