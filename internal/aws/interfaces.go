/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/orien/lambdaroo/internal/model"
)

// CloudFormationClient is the subset of the CloudFormation API used by deployments.
// This allows for easier testing with mock implementations
type CloudFormationClient interface {
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
	DeleteStack(ctx context.Context, params *cloudformation.DeleteStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DeleteStackOutput, error)
	CreateChangeSet(ctx context.Context, params *cloudformation.CreateChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateChangeSetOutput, error)
	DescribeChangeSet(ctx context.Context, params *cloudformation.DescribeChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeChangeSetOutput, error)
	ExecuteChangeSet(ctx context.Context, params *cloudformation.ExecuteChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ExecuteChangeSetOutput, error)
	DeleteChangeSet(ctx context.Context, params *cloudformation.DeleteChangeSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DeleteChangeSetOutput, error)
	DescribeStackEvents(ctx context.Context, params *cloudformation.DescribeStackEventsInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStackEventsOutput, error)
}

// Uploader is the subset of the S3 upload manager used to store objects
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Ensure that the actual SDK clients implement our interfaces
var (
	_ CloudFormationClient = (*cloudformation.Client)(nil)
	_ Uploader             = (*manager.Uploader)(nil)
)

// Ensure that the default implementations implement the operation interfaces
var (
	_ CloudFormationOperations = (*DefaultCloudFormationOperations)(nil)
	_ ObjectStore              = (*S3ObjectStore)(nil)
)

// CloudFormationOperations defines the stack and change set operations a deployment consumes
type CloudFormationOperations interface {
	// DescribeStack returns an Absent descriptor when the stack does not exist
	DescribeStack(ctx context.Context, stackName string) (*model.StackDescriptor, error)
	DeleteStack(ctx context.Context, stackName string) error
	CreateChangeSet(ctx context.Context, input CreateChangeSetInput) (string, error)
	DescribeChangeSet(ctx context.Context, changeSetID string) (*model.ChangeSetDescriptor, error)
	ExecuteChangeSet(ctx context.Context, changeSetID string) error
	DeleteChangeSet(ctx context.Context, changeSetID string) error
	// DescribeStackEvents returns one page of events, newest first
	DescribeStackEvents(ctx context.Context, stackName, nextToken string) (*StackEventsPage, error)
}

// ObjectStore stores deployment artifacts and templates
type ObjectStore interface {
	// PutObject uploads body and returns the object's HTTPS URL
	PutObject(ctx context.Context, bucket, key string, body io.Reader) (string, error)
}

// CreateChangeSetInput contains parameters for creating a change set
type CreateChangeSetInput struct {
	StackName     string
	ChangeSetName string
	Type          model.ChangeSetType
	Parameters    []model.DeploymentParameter
	Capabilities  []string
	TemplateURL   string
	Description   string
}

// StackEventsPage is a single page of stack events
type StackEventsPage struct {
	Events    []model.StackEvent
	NextToken string
}
