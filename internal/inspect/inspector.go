/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package inspect reads and classifies the current state of a stack and
// waits out states the provider is still transitioning through.
package inspect

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"github.com/jonboulle/clockwork"
	"github.com/orien/lambdaroo/internal/aws"
	"github.com/orien/lambdaroo/internal/model"
	"github.com/orien/lambdaroo/internal/wait"
)

// DefaultPollInterval is the fixed delay between status checks while waiting
const DefaultPollInterval = 5 * time.Second

// Inspector queries stack state
type Inspector struct {
	cfnOps   aws.CloudFormationOperations
	clock    clockwork.Clock
	interval time.Duration
	log      logr.Logger
}

// Option customises an Inspector
type Option func(*Inspector)

// WithClock sets the clock used between polls
func WithClock(clock clockwork.Clock) Option {
	return func(i *Inspector) { i.clock = clock }
}

// WithPollInterval sets the delay between polls
func WithPollInterval(interval time.Duration) Option {
	return func(i *Inspector) { i.interval = interval }
}

// WithLogger sets the logger
func WithLogger(log logr.Logger) Option {
	return func(i *Inspector) { i.log = log }
}

// NewInspector creates an Inspector over the given CloudFormation operations
func NewInspector(cfnOps aws.CloudFormationOperations, opts ...Option) *Inspector {
	i := &Inspector{
		cfnOps:   cfnOps,
		clock:    clockwork.NewRealClock(),
		interval: DefaultPollInterval,
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Describe returns the current state of the stack. A missing stack is
// reported as an Absent descriptor rather than an error.
func (i *Inspector) Describe(ctx context.Context, stackName string) (*model.StackDescriptor, error) {
	stack, err := i.cfnOps.DescribeStack(ctx, stackName)
	if err != nil {
		return nil, err
	}
	i.log.V(1).Info("described stack", "stack", stackName, "status", stack.DisplayStatus())
	return stack, nil
}

// WaitUntilSettled polls until the stack's status is no longer transitional.
// A stack that disappears while waiting yields an Absent descriptor; a failed
// query aborts the wait.
func (i *Inspector) WaitUntilSettled(ctx context.Context, stackName string) (*model.StackDescriptor, error) {
	for {
		stack, err := i.Describe(ctx, stackName)
		if err != nil {
			return nil, err
		}
		if !stack.Status.IsTransitional() {
			return stack, nil
		}

		i.log.Info("waiting for stack to settle", "stack", stackName, "status", stack.DisplayStatus())
		if err := wait.Sleep(ctx, i.clock, i.interval); err != nil {
			return nil, err
		}
	}
}

// WaitUntilAbsent waits for a stack to finish deleting. Settling in any state
// other than deleted is reported as an invalid stack state.
func (i *Inspector) WaitUntilAbsent(ctx context.Context, stackName string) error {
	stack, err := i.WaitUntilSettled(ctx, stackName)
	if err != nil {
		return err
	}

	switch stack.Status {
	case model.StackStatusAbsent, model.StackStatusDeleteComplete:
		return nil
	}
	return &model.InvalidStackStateError{StackName: stackName, Status: stack.DisplayStatus()}
}
