/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package deploy runs a complete deployment of a Lambda stack: it settles
// the stack's current state, uploads the code package and template, and
// drives a change set through review, execution and completion.
package deploy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/jonboulle/clockwork"
	"github.com/orien/lambdaroo/internal/aws"
	"github.com/orien/lambdaroo/internal/changeset"
	"github.com/orien/lambdaroo/internal/events"
	"github.com/orien/lambdaroo/internal/inspect"
	"github.com/orien/lambdaroo/internal/model"
	"github.com/orien/lambdaroo/internal/plan"
	"github.com/orien/lambdaroo/internal/template"
)

// Deployer defines the interface for stack deployment operations
type Deployer interface {
	Deploy(ctx context.Context, req Request) (*Result, error)
}

// Request describes one deployment
type Request struct {
	StackName    string
	TemplatePath string
	Bucket       string
	// Prefix is prepended verbatim to uploaded object keys
	Prefix string
	// PackagePath is an optional zip of pre-built function code
	PackagePath          string
	Parameters           []model.StackParameter
	DisabledCapabilities []string
	// Wait follows the stack operation to completion after execution starts
	Wait              bool
	TemplateVariables map[string]any
}

// Result reports the outcome of a deployment
type Result struct {
	Plan        *model.ChangeSetPlan
	ChangeSetID string
	// Stack is the final stack state when waiting, otherwise the state the plan was made from
	Stack     *model.StackDescriptor
	Succeeded bool
	NoChanges bool
	// Executing is set when execution started but was not followed to completion
	Executing bool
}

// Orchestrator implements Deployer against CloudFormation and S3
type Orchestrator struct {
	cfnOps    aws.CloudFormationOperations
	store     aws.ObjectStore
	inspector *inspect.Inspector
	driver    *changeset.Driver
	tailer    *events.Tailer
	processor *template.Processor
	clock     clockwork.Clock
	log       logr.Logger
}

type settings struct {
	clock    clockwork.Clock
	interval time.Duration
	log      logr.Logger
	out      io.Writer
	styles   *events.Styles
}

// Option customises an Orchestrator
type Option func(*settings)

// WithClock sets the clock used for naming and polling
func WithClock(clock clockwork.Clock) Option {
	return func(s *settings) { s.clock = clock }
}

// WithPollInterval sets the delay between every status check
func WithPollInterval(interval time.Duration) Option {
	return func(s *settings) { s.interval = interval }
}

// WithLogger sets the logger shared by every stage
func WithLogger(log logr.Logger) Option {
	return func(s *settings) { s.log = log }
}

// WithOutput sets where stack events are printed
func WithOutput(out io.Writer) Option {
	return func(s *settings) { s.out = out }
}

// WithStyles sets the styles used for stack events
func WithStyles(styles *events.Styles) Option {
	return func(s *settings) { s.styles = styles }
}

// NewOrchestrator wires the deployment stages over the given operations
func NewOrchestrator(cfnOps aws.CloudFormationOperations, store aws.ObjectStore, opts ...Option) *Orchestrator {
	s := settings{
		clock:    clockwork.NewRealClock(),
		interval: inspect.DefaultPollInterval,
		log:      logr.Discard(),
		out:      os.Stdout,
		styles:   events.NewStyles(false),
	}
	for _, opt := range opts {
		opt(&s)
	}

	return &Orchestrator{
		cfnOps: cfnOps,
		store:  store,
		inspector: inspect.NewInspector(cfnOps,
			inspect.WithClock(s.clock),
			inspect.WithPollInterval(s.interval),
			inspect.WithLogger(s.log.WithName("inspect")),
		),
		driver: changeset.NewDriver(cfnOps,
			changeset.WithClock(s.clock),
			changeset.WithPollInterval(s.interval),
			changeset.WithLogger(s.log.WithName("changeset")),
		),
		tailer: events.NewTailer(cfnOps,
			events.WithClock(s.clock),
			events.WithPollInterval(s.interval),
			events.WithOutput(s.out),
			events.WithStyles(s.styles),
			events.WithLogger(s.log.WithName("events")),
		),
		processor: template.NewProcessor(),
		clock:     s.clock,
		log:       s.log,
	}
}

// NewDefaultDeployer creates a deployer from an AWS client
func NewDefaultDeployer(client aws.Client, opts ...Option) *Orchestrator {
	return NewOrchestrator(client.NewCloudFormationOperations(), client.NewObjectStore(), opts...)
}

// Deploy settles the stack, submits a change set for the template and, when
// requested, follows the stack operation until it finishes.
func (o *Orchestrator) Deploy(ctx context.Context, req Request) (*Result, error) {
	doc, err := o.loadTemplate(req)
	if err != nil {
		return nil, err
	}
	if err := checkPackage(req); err != nil {
		return nil, err
	}

	log := o.log.WithValues("stack", req.StackName)

	current, err := o.inspector.Describe(ctx, req.StackName)
	if err != nil {
		return nil, err
	}
	stack, err := o.settle(ctx, current)
	if err != nil {
		return nil, err
	}

	declared, _ := template.DeclaredParameters(doc)
	changeSetPlan, err := plan.Build(stack, req.Parameters, declared, req.DisabledCapabilities)
	if err != nil {
		return nil, &model.InvalidStackStateError{StackName: req.StackName, Status: stack.DisplayStatus()}
	}
	log.Info("planned change set", "type", string(changeSetPlan.Type), "status", stack.DisplayStatus())

	templateURL, err := o.uploadArtifacts(ctx, req, doc)
	if err != nil {
		return nil, err
	}

	result := &Result{Plan: changeSetPlan, Stack: stack}

	result.ChangeSetID, err = o.driver.Create(ctx, changeset.CreateInput{
		StackName:    req.StackName,
		Type:         changeSetPlan.Type,
		Parameters:   changeSetPlan.Parameters,
		Capabilities: changeSetPlan.Capabilities,
		TemplateURL:  templateURL,
	})
	if err != nil {
		return nil, err
	}

	if _, err := o.driver.AwaitReviewable(ctx, result.ChangeSetID); err != nil {
		var rejected *model.ChangeSetRejectedError
		if !errors.As(err, &rejected) || !rejected.NoChanges {
			return nil, err
		}
		log.Info("template contains no changes", "changeSet", result.ChangeSetID)
		if err := o.driver.Discard(ctx, result.ChangeSetID); err != nil {
			log.Error(err, "failed to delete empty change set", "changeSet", result.ChangeSetID)
		}
		result.NoChanges = true
		result.Succeeded = true
		return result, nil
	}

	since := o.clock.Now()
	if err := o.driver.Execute(ctx, result.ChangeSetID); err != nil {
		return nil, err
	}

	if !req.Wait {
		result.Succeeded = true
		result.Executing = true
		return result, nil
	}

	final, err := o.tailer.Tail(ctx, req.StackName, since)
	if err != nil {
		return nil, err
	}
	result.Stack = final
	result.Succeeded = final.Status.IsSuccessful()
	log.Info("deployment finished", "status", final.DisplayStatus(), "succeeded", result.Succeeded)
	return result, nil
}

// settle resolves the stack into a state a change set can be planned from,
// deleting a rolled-back stack and waiting out transitional states. A wait
// always ends in a non-transitional status, so the loop runs the rules at
// most twice.
func (o *Orchestrator) settle(ctx context.Context, stack *model.StackDescriptor) (*model.StackDescriptor, error) {
	name := stack.Name
	waited := false

	for {
		switch stack.Status {
		case model.StackStatusAbsent,
			model.StackStatusReviewInProgress,
			model.StackStatusDeleteComplete,
			model.StackStatusCreateComplete,
			model.StackStatusUpdateComplete,
			model.StackStatusUpdateRollbackComplete:
			return stack, nil

		case model.StackStatusRollbackComplete:
			o.log.Info("deleting stack left by a failed create", "stack", name)
			if err := o.cfnOps.DeleteStack(ctx, name); err != nil {
				return nil, err
			}
			if err := o.inspector.WaitUntilAbsent(ctx, name); err != nil {
				return nil, err
			}
			return model.AbsentStack(name), nil

		case model.StackStatusDeleteInProgress:
			if err := o.inspector.WaitUntilAbsent(ctx, name); err != nil {
				return nil, err
			}
			return model.AbsentStack(name), nil

		case model.StackStatusRollbackInProgress, model.StackStatusTransitionalOther:
			if waited {
				return nil, &model.InvalidStackStateError{StackName: name, Status: stack.DisplayStatus()}
			}
			settled, err := o.inspector.WaitUntilSettled(ctx, name)
			if err != nil {
				return nil, err
			}
			if stack.Status == model.StackStatusRollbackInProgress && settled.Status == model.StackStatusTerminalOther {
				return nil, &model.InvalidStackStateError{StackName: name, Status: settled.DisplayStatus()}
			}
			stack = settled
			waited = true

		default:
			return nil, &model.InvalidStackStateError{StackName: name, Status: stack.DisplayStatus()}
		}
	}
}

func (o *Orchestrator) loadTemplate(req Request) (template.Document, error) {
	if strings.TrimSpace(req.StackName) == "" {
		return nil, model.Preconditionf("stack name is required")
	}
	if req.TemplatePath == "" {
		return nil, model.Preconditionf("template path is required")
	}

	content, err := os.ReadFile(req.TemplatePath)
	if err != nil {
		return nil, model.Preconditionf("failed to read template %s: %v", req.TemplatePath, err)
	}

	if o.processor.ShouldRender(req.TemplatePath) {
		rendered, err := o.processor.Process(string(content), req.TemplateVariables)
		if err != nil {
			return nil, model.Preconditionf("failed to render template %s: %v", req.TemplatePath, err)
		}
		content = []byte(rendered)
	}

	doc, err := template.Parse(content)
	if err != nil {
		return nil, model.Preconditionf("invalid template %s: %v", req.TemplatePath, err)
	}
	return doc, nil
}

func checkPackage(req Request) error {
	if req.Bucket == "" {
		return model.Preconditionf("S3 bucket is required")
	}
	if req.PackagePath == "" {
		return nil
	}

	info, err := os.Stat(req.PackagePath)
	if err != nil {
		return model.Preconditionf("package %s does not exist", req.PackagePath)
	}
	if info.IsDir() || !strings.EqualFold(filepath.Ext(req.PackagePath), ".zip") {
		return model.Preconditionf("package %s must be a .zip file", req.PackagePath)
	}
	return nil
}

// uploadArtifacts stores the code package (patching the template to use it)
// and then the serialized template, returning the template's URL
func (o *Orchestrator) uploadArtifacts(ctx context.Context, req Request, doc template.Document) (string, error) {
	base := fmt.Sprintf("%s%s-%d", req.Prefix, req.StackName, o.clock.Now().Unix())

	if req.PackagePath != "" {
		location := template.ArtifactLocation{Bucket: req.Bucket, Key: base + ".zip"}
		if err := o.uploadFile(ctx, req.PackagePath, location); err != nil {
			return "", err
		}

		patched, err := template.PatchCodeLocations(doc, location)
		if err != nil {
			return "", fmt.Errorf("failed to patch template: %w", err)
		}
		for _, resource := range patched {
			o.log.V(1).Info("pointed function at package", "resource", resource.LogicalID, "type", resource.Type, "location", location.URI())
		}
		if len(patched) == 0 {
			o.log.Info("template has no function resources to point at the package", "template", req.TemplatePath)
		}
	}

	body, err := doc.Bytes()
	if err != nil {
		return "", fmt.Errorf("failed to serialize template: %w", err)
	}
	url, err := o.store.PutObject(ctx, req.Bucket, base+".template", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	o.log.V(1).Info("uploaded template", "url", url)
	return url, nil
}

func (o *Orchestrator) uploadFile(ctx context.Context, path string, location template.ArtifactLocation) error {
	f, err := os.Open(path)
	if err != nil {
		return model.Preconditionf("failed to open package %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := o.store.PutObject(ctx, location.Bucket, location.Key, f); err != nil {
		return err
	}
	o.log.Info("uploaded package", "location", location.URI())
	return nil
}
