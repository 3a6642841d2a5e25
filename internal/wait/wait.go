/*
Copyright © 2025 Stackaroo Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package wait provides the cancellable fixed-interval delay shared by every polling loop.
package wait

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Sleep blocks for d or until ctx is done, whichever comes first
func Sleep(ctx context.Context, clock clockwork.Clock, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-clock.After(d):
		return nil
	}
}
