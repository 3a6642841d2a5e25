/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orien/lambdaroo/internal/aws"
	"github.com/orien/lambdaroo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	templateURL  = "https://b.s3.amazonaws.com/demo-1700000000.template"
	templateKey  = "demo-1700000000.template"
	packageKey   = "demo-1700000000.zip"
	functionJSON = `{"Resources": {"Fn": {"Type": "AWS::Serverless::Function", "Properties": {"CodeUri": "", "Handler": "bootstrap"}}}}`
)

var deployInstant = time.Unix(1700000000, 0)

// frozenClock reports a fixed time but waits in real time
type frozenClock struct {
	clockwork.Clock
	now time.Time
}

func (c frozenClock) Now() time.Time {
	return c.now
}

type fixture struct {
	cfn   *aws.MockCloudFormationOperations
	store *aws.MockObjectStore
	out   bytes.Buffer
	dir   string
	calls []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		cfn:   &aws.MockCloudFormationOperations{},
		store: &aws.MockObjectStore{},
		dir:   t.TempDir(),
	}
}

func (f *fixture) orchestrator() *Orchestrator {
	return NewOrchestrator(f.cfn, f.store,
		WithClock(frozenClock{Clock: clockwork.NewRealClock(), now: deployInstant}),
		WithPollInterval(time.Millisecond),
		WithOutput(&f.out),
	)
}

func (f *fixture) file(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (f *fixture) record(name string) func(mock.Arguments) {
	return func(mock.Arguments) { f.calls = append(f.calls, name) }
}

func (f *fixture) request(t *testing.T) Request {
	return Request{
		StackName:    "demo",
		TemplatePath: f.file(t, "t.json", functionJSON),
		Bucket:       "b",
		Wait:         true,
	}
}

func (f *fixture) expectDescribe(ctx context.Context, stacks ...*model.StackDescriptor) {
	for _, stack := range stacks {
		f.cfn.On("DescribeStack", ctx, "demo").Return(stack, nil).Once()
	}
}

func (f *fixture) expectTemplateUpload(ctx context.Context) {
	f.store.On("PutObject", ctx, "b", templateKey, mock.Anything).Return(templateURL, nil)
}

func (f *fixture) expectChangeSet(ctx context.Context, changeSetType model.ChangeSetType) {
	f.cfn.On("CreateChangeSet", ctx, mock.MatchedBy(func(input aws.CreateChangeSetInput) bool {
		return input.StackName == "demo" && input.Type == changeSetType && input.TemplateURL == templateURL &&
			input.ChangeSetName == "lambdaroo-1700000000000"
	})).Run(f.record("CreateChangeSet")).Return("cs-1", nil)
	f.cfn.On("DescribeChangeSet", ctx, "cs-1").Return(&model.ChangeSetDescriptor{ID: "cs-1", Status: model.ChangeSetStatusReady}, nil)
}

func (f *fixture) expectExecution(ctx context.Context) {
	f.cfn.On("ExecuteChangeSet", ctx, "cs-1").Return(nil)
	f.cfn.On("DescribeStackEvents", ctx, "demo", "").Return(&aws.StackEventsPage{
		Events: []model.StackEvent{{ID: "e1", Timestamp: deployInstant.Add(time.Second), LogicalResourceID: "demo", Status: "CREATE_COMPLETE"}},
	}, nil)
}

func stackIn(status model.StackStatus, raw string) *model.StackDescriptor {
	return &model.StackDescriptor{Name: "demo", Status: status, RawStatus: raw}
}

func TestDeploy_CreatesAbsentStackWithPackage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req := f.request(t)
	req.PackagePath = f.file(t, "fn.zip", "zipdata")

	f.expectDescribe(ctx, model.AbsentStack("demo"), stackIn(model.StackStatusCreateComplete, "CREATE_COMPLETE"))
	f.store.On("PutObject", ctx, "b", packageKey, "zipdata").Run(f.record("UploadPackage")).Return("https://b.s3.amazonaws.com/"+packageKey, nil)
	f.store.On("PutObject", ctx, "b", templateKey, mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, `"CodeUri": "s3://b/demo-1700000000.zip"`)
	})).Run(f.record("UploadTemplate")).Return(templateURL, nil)
	f.expectChangeSet(ctx, model.ChangeSetTypeCreate)
	f.expectExecution(ctx)

	result, err := f.orchestrator().Deploy(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, model.ChangeSetTypeCreate, result.Plan.Type)
	assert.Equal(t, "cs-1", result.ChangeSetID)
	assert.True(t, result.Succeeded)
	assert.False(t, result.NoChanges)
	assert.False(t, result.Executing)
	assert.Equal(t, model.StackStatusCreateComplete, result.Stack.Status)
	assert.Equal(t, []string{"UploadPackage", "UploadTemplate", "CreateChangeSet"}, f.calls)
	assert.Contains(t, f.out.String(), "demo  CREATE_COMPLETE")
	f.cfn.AssertNotCalled(t, "DeleteStack", mock.Anything, mock.Anything)
	f.cfn.AssertExpectations(t)
	f.store.AssertExpectations(t)
}

func TestDeploy_RecreatesRolledBackStack(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.expectDescribe(ctx,
		stackIn(model.StackStatusRollbackComplete, "ROLLBACK_COMPLETE"),
		model.AbsentStack("demo"),
		stackIn(model.StackStatusCreateComplete, "CREATE_COMPLETE"),
	)
	f.cfn.On("DeleteStack", ctx, "demo").Run(f.record("DeleteStack")).Return(nil).Once()
	f.expectTemplateUpload(ctx)
	f.expectChangeSet(ctx, model.ChangeSetTypeCreate)
	f.expectExecution(ctx)

	result, err := f.orchestrator().Deploy(ctx, f.request(t))

	require.NoError(t, err)
	assert.Equal(t, model.ChangeSetTypeCreate, result.Plan.Type)
	assert.True(t, result.Succeeded)
	assert.Equal(t, []string{"DeleteStack", "CreateChangeSet"}, f.calls)
	f.cfn.AssertNumberOfCalls(t, "DeleteStack", 1)
}

func TestDeploy_UpdateWithDisabledCapability(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req := f.request(t)
	req.TemplatePath = f.file(t, "t.yaml", "Parameters:\n  A:\n    Type: String\n  B:\n    Type: String\nResources: {}\n")
	req.Parameters = []model.StackParameter{{Key: "A", Value: "9"}}
	req.DisabledCapabilities = []string{"CAPABILITY_NAMED_IAM"}
	req.Wait = false

	existing := stackIn(model.StackStatusUpdateComplete, "UPDATE_COMPLETE")
	existing.Parameters = []model.StackParameter{{Key: "A", Value: "1"}, {Key: "B", Value: "2"}, {Key: "Dropped", Value: "3"}}
	f.expectDescribe(ctx, existing)
	f.expectTemplateUpload(ctx)
	f.cfn.On("CreateChangeSet", ctx, aws.CreateChangeSetInput{
		StackName:     "demo",
		ChangeSetName: "lambdaroo-1700000000000",
		Type:          model.ChangeSetTypeUpdate,
		Parameters:    []model.DeploymentParameter{model.ParameterValue("A", "9"), model.PreviousParameter("B")},
		Capabilities:  []string{"CAPABILITY_IAM"},
		TemplateURL:   templateURL,
		Description:   "UPDATE deployment of demo",
	}).Return("cs-1", nil)
	f.cfn.On("DescribeChangeSet", ctx, "cs-1").Return(&model.ChangeSetDescriptor{ID: "cs-1", Status: model.ChangeSetStatusReady}, nil)
	f.cfn.On("ExecuteChangeSet", ctx, "cs-1").Return(nil)

	result, err := f.orchestrator().Deploy(ctx, req)

	require.NoError(t, err)
	assert.True(t, result.Succeeded)
	assert.Equal(t, []string{"CAPABILITY_IAM"}, result.Plan.Capabilities)
	assert.True(t, result.Executing)
	assert.Same(t, existing, result.Stack)
	f.cfn.AssertNotCalled(t, "DescribeStackEvents", mock.Anything, mock.Anything, mock.Anything)
	f.cfn.AssertExpectations(t)
}

func TestDeploy_WaitsOutTransitionalStates(t *testing.T) {
	tests := []struct {
		name     string
		initial  *model.StackDescriptor
		settled  *model.StackDescriptor
		expected model.ChangeSetType
	}{
		{
			name:     "update in progress",
			initial:  stackIn(model.StackStatusTransitionalOther, "UPDATE_IN_PROGRESS"),
			settled:  stackIn(model.StackStatusUpdateComplete, "UPDATE_COMPLETE"),
			expected: model.ChangeSetTypeUpdate,
		},
		{
			name:     "delete in progress",
			initial:  stackIn(model.StackStatusDeleteInProgress, "DELETE_IN_PROGRESS"),
			settled:  model.AbsentStack("demo"),
			expected: model.ChangeSetTypeCreate,
		},
		{
			name:     "create in progress settles absent",
			initial:  stackIn(model.StackStatusTransitionalOther, "CREATE_IN_PROGRESS"),
			settled:  model.AbsentStack("demo"),
			expected: model.ChangeSetTypeCreate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			req := f.request(t)
			req.Wait = false

			f.expectDescribe(ctx, tt.initial, tt.initial, tt.settled)
			f.expectTemplateUpload(ctx)
			f.expectChangeSet(ctx, tt.expected)
			f.cfn.On("ExecuteChangeSet", ctx, "cs-1").Return(nil)

			result, err := f.orchestrator().Deploy(ctx, req)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Plan.Type)
			f.cfn.AssertNumberOfCalls(t, "DescribeStack", 3)
			f.cfn.AssertNotCalled(t, "DeleteStack", mock.Anything, mock.Anything)
		})
	}
}

func TestDeploy_RollbackInProgress(t *testing.T) {
	t.Run("settles rolled back and is recreated", func(t *testing.T) {
		ctx := context.Background()
		f := newFixture(t)
		req := f.request(t)
		req.Wait = false

		f.expectDescribe(ctx,
			stackIn(model.StackStatusRollbackInProgress, "ROLLBACK_IN_PROGRESS"),
			stackIn(model.StackStatusRollbackComplete, "ROLLBACK_COMPLETE"),
			stackIn(model.StackStatusDeleteInProgress, "DELETE_IN_PROGRESS"),
			model.AbsentStack("demo"),
		)
		f.cfn.On("DeleteStack", ctx, "demo").Run(f.record("DeleteStack")).Return(nil).Once()
		f.expectTemplateUpload(ctx)
		f.expectChangeSet(ctx, model.ChangeSetTypeCreate)
		f.cfn.On("ExecuteChangeSet", ctx, "cs-1").Return(nil)

		result, err := f.orchestrator().Deploy(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, model.ChangeSetTypeCreate, result.Plan.Type)
		assert.Equal(t, []string{"DeleteStack", "CreateChangeSet"}, f.calls)
	})

	t.Run("settles failed and is left alone", func(t *testing.T) {
		ctx := context.Background()
		f := newFixture(t)

		f.expectDescribe(ctx,
			stackIn(model.StackStatusRollbackInProgress, "ROLLBACK_IN_PROGRESS"),
			stackIn(model.StackStatusTerminalOther, "ROLLBACK_FAILED"),
		)

		result, err := f.orchestrator().Deploy(ctx, f.request(t))

		assert.Nil(t, result)
		var invalid *model.InvalidStackStateError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "ROLLBACK_FAILED", invalid.Status)
		f.cfn.AssertNotCalled(t, "DeleteStack", mock.Anything, mock.Anything)
		f.store.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeploy_InvalidStackState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.expectDescribe(ctx, stackIn(model.StackStatusTerminalOther, "UPDATE_ROLLBACK_FAILED"))

	result, err := f.orchestrator().Deploy(ctx, f.request(t))

	assert.Nil(t, result)
	var invalid *model.InvalidStackStateError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "demo", invalid.StackName)
	assert.Equal(t, "UPDATE_ROLLBACK_FAILED", invalid.Status)
	assert.Contains(t, err.Error(), "UPDATE_ROLLBACK_FAILED")
	f.cfn.AssertNotCalled(t, "DeleteStack", mock.Anything, mock.Anything)
	f.cfn.AssertNotCalled(t, "CreateChangeSet", mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeploy_DeleteFailureLeavesInvalidState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.expectDescribe(ctx,
		stackIn(model.StackStatusRollbackComplete, "ROLLBACK_COMPLETE"),
		stackIn(model.StackStatusTerminalOther, "DELETE_FAILED"),
	)
	f.cfn.On("DeleteStack", ctx, "demo").Return(nil)

	_, err := f.orchestrator().Deploy(ctx, f.request(t))

	var invalid *model.InvalidStackStateError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "DELETE_FAILED", invalid.Status)
	f.cfn.AssertNotCalled(t, "CreateChangeSet", mock.Anything, mock.Anything)
}

func TestDeploy_RejectedChangeSet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.expectDescribe(ctx, model.AbsentStack("demo"))
	f.expectTemplateUpload(ctx)
	f.cfn.On("CreateChangeSet", ctx, mock.Anything).Return("cs-1", nil)
	f.cfn.On("DescribeChangeSet", ctx, "cs-1").Return(&model.ChangeSetDescriptor{
		ID: "cs-1", Status: model.ChangeSetStatusFailed, StatusReason: "Template format error",
	}, nil)

	result, err := f.orchestrator().Deploy(ctx, f.request(t))

	assert.Nil(t, result)
	var rejected *model.ChangeSetRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.False(t, rejected.NoChanges)
	assert.Equal(t, "Template format error", rejected.Reason)
	f.cfn.AssertNotCalled(t, "ExecuteChangeSet", mock.Anything, mock.Anything)
	f.cfn.AssertNotCalled(t, "DeleteChangeSet", mock.Anything, mock.Anything)
}

func TestDeploy_NoChanges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	existing := stackIn(model.StackStatusUpdateComplete, "UPDATE_COMPLETE")
	f.expectDescribe(ctx, existing)
	f.expectTemplateUpload(ctx)
	f.cfn.On("CreateChangeSet", ctx, mock.Anything).Return("cs-1", nil)
	f.cfn.On("DescribeChangeSet", ctx, "cs-1").Return(&model.ChangeSetDescriptor{
		ID:           "cs-1",
		Status:       model.ChangeSetStatusFailed,
		StatusReason: "The submitted information didn't contain changes. Submit different information to create a change set.",
	}, nil)
	f.cfn.On("DeleteChangeSet", ctx, "cs-1").Return(nil).Once()

	result, err := f.orchestrator().Deploy(ctx, f.request(t))

	require.NoError(t, err)
	assert.True(t, result.Succeeded)
	assert.True(t, result.NoChanges)
	assert.False(t, result.Executing)
	assert.Same(t, existing, result.Stack)
	f.cfn.AssertNotCalled(t, "ExecuteChangeSet", mock.Anything, mock.Anything)
	f.cfn.AssertExpectations(t)
}

func TestDeploy_NoChangesSurvivesDiscardFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.expectDescribe(ctx, stackIn(model.StackStatusUpdateComplete, "UPDATE_COMPLETE"))
	f.expectTemplateUpload(ctx)
	f.cfn.On("CreateChangeSet", ctx, mock.Anything).Return("cs-1", nil)
	f.cfn.On("DescribeChangeSet", ctx, "cs-1").Return(&model.ChangeSetDescriptor{
		ID: "cs-1", Status: model.ChangeSetStatusFailed, StatusReason: "No updates are to be performed.",
	}, nil)
	f.cfn.On("DeleteChangeSet", ctx, "cs-1").Return(errors.New("throttled"))

	result, err := f.orchestrator().Deploy(ctx, f.request(t))

	require.NoError(t, err)
	assert.True(t, result.NoChanges)
}

func TestDeploy_FailedStackOperation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.expectDescribe(ctx,
		stackIn(model.StackStatusUpdateComplete, "UPDATE_COMPLETE"),
		stackIn(model.StackStatusTransitionalOther, "UPDATE_ROLLBACK_IN_PROGRESS"),
		stackIn(model.StackStatusUpdateRollbackComplete, "UPDATE_ROLLBACK_COMPLETE"),
	)
	f.expectTemplateUpload(ctx)
	f.expectChangeSet(ctx, model.ChangeSetTypeUpdate)
	f.cfn.On("ExecuteChangeSet", ctx, "cs-1").Return(nil)
	f.cfn.On("DescribeStackEvents", ctx, "demo", "").Return(&aws.StackEventsPage{
		Events: []model.StackEvent{{ID: "e1", Timestamp: deployInstant.Add(time.Second), LogicalResourceID: "Fn", Status: "UPDATE_FAILED", Reason: "Handler not found"}},
	}, nil)

	result, err := f.orchestrator().Deploy(ctx, f.request(t))

	require.NoError(t, err)
	assert.False(t, result.Succeeded)
	assert.Equal(t, model.StackStatusUpdateRollbackComplete, result.Stack.Status)
	assert.Equal(t, 1, strings.Count(f.out.String(), "Handler not found"))
}

func TestDeploy_RendersTemplateVariables(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req := f.request(t)
	req.TemplatePath = f.file(t, "t.yaml.tmpl", "Resources:\n  Fn:\n    Type: AWS::Lambda::Function\n    Properties:\n      MemorySize: {{ .Memory }}\n")
	req.TemplateVariables = map[string]any{"Memory": 512}
	req.Wait = false

	f.expectDescribe(ctx, model.AbsentStack("demo"))
	f.store.On("PutObject", ctx, "b", templateKey, mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "MemorySize: 512")
	})).Return(templateURL, nil)
	f.expectChangeSet(ctx, model.ChangeSetTypeCreate)
	f.cfn.On("ExecuteChangeSet", ctx, "cs-1").Return(nil)

	_, err := f.orchestrator().Deploy(ctx, req)

	require.NoError(t, err)
	f.store.AssertExpectations(t)
}

func TestDeploy_Preconditions(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(t *testing.T, f *fixture, req *Request)
		contains string
	}{
		{
			name:     "missing stack name",
			modify:   func(_ *testing.T, _ *fixture, req *Request) { req.StackName = " " },
			contains: "stack name is required",
		},
		{
			name:     "missing template",
			modify:   func(_ *testing.T, f *fixture, req *Request) { req.TemplatePath = filepath.Join(f.dir, "missing.json") },
			contains: "failed to read template",
		},
		{
			name: "unparseable template",
			modify: func(t *testing.T, f *fixture, req *Request) {
				req.TemplatePath = f.file(t, "bad.yaml", "- just\n- a list\n")
			},
			contains: "invalid template",
		},
		{
			name:     "missing bucket",
			modify:   func(_ *testing.T, _ *fixture, req *Request) { req.Bucket = "" },
			contains: "S3 bucket is required",
		},
		{
			name:     "missing package",
			modify:   func(_ *testing.T, f *fixture, req *Request) { req.PackagePath = filepath.Join(f.dir, "nope.zip") },
			contains: "does not exist",
		},
		{
			name:     "package not a zip",
			modify:   func(t *testing.T, f *fixture, req *Request) { req.PackagePath = f.file(t, "fn.tar", "x") },
			contains: "must be a .zip file",
		},
		{
			name:     "package is a directory",
			modify:   func(t *testing.T, f *fixture, req *Request) { req.PackagePath = t.TempDir() },
			contains: "must be a .zip file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := f.request(t)
			tt.modify(t, f, &req)

			result, err := f.orchestrator().Deploy(context.Background(), req)

			assert.Nil(t, result)
			var precondition *model.PreconditionError
			require.ErrorAs(t, err, &precondition)
			assert.Contains(t, err.Error(), tt.contains)
			f.cfn.AssertNotCalled(t, "DescribeStack", mock.Anything, mock.Anything)
		})
	}
}

func TestDeploy_RemoteErrors(t *testing.T) {
	t.Run("describe", func(t *testing.T) {
		ctx := context.Background()
		f := newFixture(t)
		remote := &aws.RemoteOperationError{Code: aws.CodeDescribeStacksFailed, Operation: "describe stack demo", Err: errors.New("denied")}
		f.cfn.On("DescribeStack", ctx, "demo").Return(nil, remote)

		_, err := f.orchestrator().Deploy(ctx, f.request(t))

		assert.ErrorIs(t, err, remote)
	})

	t.Run("upload", func(t *testing.T) {
		ctx := context.Background()
		f := newFixture(t)
		remote := &aws.RemoteOperationError{Code: aws.CodePutObjectFailed, Operation: "put object", Err: errors.New("no such bucket")}
		f.expectDescribe(ctx, model.AbsentStack("demo"))
		f.store.On("PutObject", ctx, "b", templateKey, mock.Anything).Return("", remote)

		_, err := f.orchestrator().Deploy(ctx, f.request(t))

		var remoteErr *aws.RemoteOperationError
		require.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, aws.CodePutObjectFailed, remoteErr.Code)
		f.cfn.AssertNotCalled(t, "CreateChangeSet", mock.Anything, mock.Anything)
	})

	t.Run("execute", func(t *testing.T) {
		ctx := context.Background()
		f := newFixture(t)
		remote := &aws.RemoteOperationError{Code: aws.CodeExecuteChangeSetFailed, Operation: "execute change set", Err: errors.New("denied")}
		f.expectDescribe(ctx, model.AbsentStack("demo"))
		f.expectTemplateUpload(ctx)
		f.expectChangeSet(ctx, model.ChangeSetTypeCreate)
		f.cfn.On("ExecuteChangeSet", ctx, "cs-1").Return(remote)

		result, err := f.orchestrator().Deploy(ctx, f.request(t))

		assert.Nil(t, result)
		assert.ErrorIs(t, err, remote)
	})
}

func TestDeploy_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := newFixture(t)
	f.cfn.On("DescribeStack", ctx, "demo").Run(func(mock.Arguments) { cancel() }).
		Return(stackIn(model.StackStatusTransitionalOther, "UPDATE_IN_PROGRESS"), nil)

	orchestrator := NewOrchestrator(f.cfn, f.store, WithPollInterval(time.Hour), WithOutput(&f.out))
	_, err := orchestrator.Deploy(ctx, f.request(t))

	assert.ErrorIs(t, err, context.Canceled)
}
