/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package changeset submits change sets, waits for them to become
// reviewable and executes or discards them.
package changeset

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/jonboulle/clockwork"
	"github.com/orien/lambdaroo/internal/aws"
	"github.com/orien/lambdaroo/internal/model"
	"github.com/orien/lambdaroo/internal/wait"
)

// DefaultPollInterval is the fixed delay between change set status checks
const DefaultPollInterval = 5 * time.Second

// NamePrefix starts every generated change set name
const NamePrefix = "lambdaroo"

// CreateInput describes the change set to submit
type CreateInput struct {
	StackName    string
	Type         model.ChangeSetType
	Parameters   []model.DeploymentParameter
	Capabilities []string
	TemplateURL  string
}

// Driver drives a single change set through its lifecycle
type Driver struct {
	cfnOps   aws.CloudFormationOperations
	clock    clockwork.Clock
	interval time.Duration
	log      logr.Logger
}

// Option customises a Driver
type Option func(*Driver)

// WithClock sets the clock used for naming and between polls
func WithClock(clock clockwork.Clock) Option {
	return func(d *Driver) { d.clock = clock }
}

// WithPollInterval sets the delay between polls
func WithPollInterval(interval time.Duration) Option {
	return func(d *Driver) { d.interval = interval }
}

// WithLogger sets the logger
func WithLogger(log logr.Logger) Option {
	return func(d *Driver) { d.log = log }
}

// NewDriver creates a Driver over the given CloudFormation operations
func NewDriver(cfnOps aws.CloudFormationOperations, opts ...Option) *Driver {
	d := &Driver{
		cfnOps:   cfnOps,
		clock:    clockwork.NewRealClock(),
		interval: DefaultPollInterval,
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the change set name for the current instant
func (d *Driver) Name() string {
	return fmt.Sprintf("%s-%d", NamePrefix, d.clock.Now().UnixMilli())
}

// Create submits a change set and returns its identifier
func (d *Driver) Create(ctx context.Context, input CreateInput) (string, error) {
	name := d.Name()
	id, err := d.cfnOps.CreateChangeSet(ctx, aws.CreateChangeSetInput{
		StackName:     input.StackName,
		ChangeSetName: name,
		Type:          input.Type,
		Parameters:    input.Parameters,
		Capabilities:  input.Capabilities,
		TemplateURL:   input.TemplateURL,
		Description:   fmt.Sprintf("%s deployment of %s", input.Type, input.StackName),
	})
	if err != nil {
		return "", err
	}

	d.log.Info("created change set", "stack", input.StackName, "name", name, "type", string(input.Type))
	return id, nil
}

// AwaitReviewable polls until the change set leaves Pending and Creating.
// A failed change set is reported as a ChangeSetRejectedError.
func (d *Driver) AwaitReviewable(ctx context.Context, changeSetID string) (*model.ChangeSetDescriptor, error) {
	for {
		changeSet, err := d.cfnOps.DescribeChangeSet(ctx, changeSetID)
		if err != nil {
			return nil, err
		}

		switch changeSet.Status {
		case model.ChangeSetStatusReady:
			return changeSet, nil
		case model.ChangeSetStatusFailed:
			return changeSet, &model.ChangeSetRejectedError{
				ChangeSetID: changeSetID,
				Reason:      changeSet.StatusReason,
				NoChanges:   aws.IsNoChangesReason(changeSet.StatusReason),
			}
		}

		d.log.V(1).Info("waiting for change set", "id", changeSetID, "status", changeSet.RawStatus)
		if err := wait.Sleep(ctx, d.clock, d.interval); err != nil {
			return nil, err
		}
	}
}

// Execute starts executing a reviewed change set and returns without waiting
func (d *Driver) Execute(ctx context.Context, changeSetID string) error {
	if err := d.cfnOps.ExecuteChangeSet(ctx, changeSetID); err != nil {
		return err
	}
	d.log.Info("executing change set", "id", changeSetID)
	return nil
}

// Discard deletes a change set that will not be executed
func (d *Driver) Discard(ctx context.Context, changeSetID string) error {
	if err := d.cfnOps.DeleteChangeSet(ctx, changeSetID); err != nil {
		return err
	}
	d.log.V(1).Info("discarded change set", "id", changeSetID)
	return nil
}
