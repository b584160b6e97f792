// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schedule

import "errors"

// Sentinel errors for the schedule package.
// Use errors.Is to check: errors.Is(err, schedule.ErrInvalidQuality)
var (
	// ErrInvalidQuality reports a recall grade outside the 0-5 scale. The
	// grade is never silently clamped.
	ErrInvalidQuality = errors.New("schedule: quality outside [0, 5]")

	// ErrInvalidItemState reports a review item whose persisted state is
	// corrupt (negative repetition count or easiness below the floor). The
	// item is surfaced unchanged so the caller can decide whether to reset it.
	ErrInvalidItemState = errors.New("schedule: corrupted review item state")
)
