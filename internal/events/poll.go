/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package events reports stack events while a change set executes.
package events

import (
	"context"
	"slices"
	"time"

	"github.com/orien/lambdaroo/internal/aws"
	"github.com/orien/lambdaroo/internal/model"
)

// Poll returns the stack's events newer than lastSeenID and not older than
// minTimestamp, oldest first. Pages are read newest first and reading stops
// at the first event that fails either bound.
func Poll(ctx context.Context, cfnOps aws.CloudFormationOperations, stackName string, minTimestamp time.Time, lastSeenID string) ([]model.StackEvent, error) {
	var collected []model.StackEvent
	nextToken := ""

	for {
		page, err := cfnOps.DescribeStackEvents(ctx, stackName, nextToken)
		if err != nil {
			return nil, err
		}

		for _, event := range page.Events {
			if (lastSeenID != "" && event.ID == lastSeenID) || event.Timestamp.Before(minTimestamp) {
				slices.Reverse(collected)
				return collected, nil
			}
			collected = append(collected, event)
		}

		if page.NextToken == "" {
			slices.Reverse(collected)
			return collected, nil
		}
		nextToken = page.NextToken
	}
}

// Session tracks which events have been reported for one stack operation
type Session struct {
	cfnOps     aws.CloudFormationOperations
	stackName  string
	since      time.Time
	lastSeenID string
	seen       map[string]struct{}
}

// NewSession starts tracking events recorded at or after since
func NewSession(cfnOps aws.CloudFormationOperations, stackName string, since time.Time) *Session {
	return &Session{
		cfnOps:    cfnOps,
		stackName: stackName,
		since:     since,
		seen:      make(map[string]struct{}),
	}
}

// Next returns events not yet reported in this session, oldest first
func (s *Session) Next(ctx context.Context) ([]model.StackEvent, error) {
	polled, err := Poll(ctx, s.cfnOps, s.stackName, s.since, s.lastSeenID)
	if err != nil {
		return nil, err
	}

	fresh := make([]model.StackEvent, 0, len(polled))
	for _, event := range polled {
		if _, ok := s.seen[event.ID]; ok {
			continue
		}
		s.seen[event.ID] = struct{}{}
		fresh = append(fresh, event)
	}
	if len(polled) > 0 {
		s.lastSeenID = polled[len(polled)-1].ID
	}
	return fresh, nil
}
