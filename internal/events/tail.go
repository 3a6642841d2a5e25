/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package events

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/jonboulle/clockwork"
	"github.com/orien/lambdaroo/internal/aws"
	"github.com/orien/lambdaroo/internal/model"
	"github.com/orien/lambdaroo/internal/wait"
)

// DefaultPollInterval is the fixed delay between polls while tailing
const DefaultPollInterval = 5 * time.Second

const timestampLayout = "2006-01-02 15:04:05"

// Tailer follows a stack operation, printing each new event once
type Tailer struct {
	cfnOps   aws.CloudFormationOperations
	clock    clockwork.Clock
	interval time.Duration
	out      io.Writer
	styles   *Styles
	log      logr.Logger
}

// Option customises a Tailer
type Option func(*Tailer)

// WithClock sets the clock used between polls
func WithClock(clock clockwork.Clock) Option {
	return func(t *Tailer) { t.clock = clock }
}

// WithPollInterval sets the delay between polls
func WithPollInterval(interval time.Duration) Option {
	return func(t *Tailer) { t.interval = interval }
}

// WithOutput sets where event lines are written
func WithOutput(out io.Writer) Option {
	return func(t *Tailer) { t.out = out }
}

// WithStyles sets the styles used for event lines
func WithStyles(styles *Styles) Option {
	return func(t *Tailer) { t.styles = styles }
}

// WithLogger sets the logger
func WithLogger(log logr.Logger) Option {
	return func(t *Tailer) { t.log = log }
}

// NewTailer creates a Tailer over the given CloudFormation operations
func NewTailer(cfnOps aws.CloudFormationOperations, opts ...Option) *Tailer {
	t := &Tailer{
		cfnOps:   cfnOps,
		clock:    clockwork.NewRealClock(),
		interval: DefaultPollInterval,
		out:      os.Stdout,
		styles:   NewStyles(false),
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tail prints events recorded at or after since until the stack leaves its
// transitional state, then returns the stack's final descriptor.
func (t *Tailer) Tail(ctx context.Context, stackName string, since time.Time) (*model.StackDescriptor, error) {
	session := NewSession(t.cfnOps, stackName, since)

	for {
		if err := wait.Sleep(ctx, t.clock, t.interval); err != nil {
			return nil, err
		}

		stack, err := t.cfnOps.DescribeStack(ctx, stackName)
		if err != nil {
			return nil, err
		}

		events, err := session.Next(ctx)
		if err != nil {
			return nil, err
		}
		for _, event := range events {
			t.print(event)
		}

		if !stack.Status.IsTransitional() {
			t.log.V(1).Info("stack operation finished", "stack", stackName, "status", stack.DisplayStatus())
			return stack, nil
		}
	}
}

func (t *Tailer) print(event model.StackEvent) {
	s := t.styles
	line := fmt.Sprintf("%s  %s  %s",
		s.Render(s.Timestamp, event.Timestamp.Local().Format(timestampLayout)),
		s.Render(s.Resource, event.LogicalResourceID),
		s.Render(s.Status(event.Status), event.Status),
	)
	if event.Reason != "" && !aws.IsTransitionalStatus(event.Status) {
		line += "  " + s.Render(s.Reason, event.Reason)
	}
	_, _ = fmt.Fprintln(t.out, line)
}
