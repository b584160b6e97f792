// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schedule implements SM-2 spaced-repetition scheduling for review
// items. The package is pure: Review is a function of (item, quality, now)
// and never touches storage. Callers read the prior state, apply Review, and
// persist the returned value; concurrent reviews of the same item must be
// serialized by the persistence layer.
package schedule

import (
	"fmt"
	"math"
	"time"
)

const (
	// InitialEasiness is the easiness factor assigned to new items.
	InitialEasiness = 2.5

	// MinEasiness is the floor below which an easiness factor never drops.
	MinEasiness = 1.3

	// firstInterval and secondInterval are the fixed intervals (in days) for
	// the first two successful repetitions. Later intervals grow by the
	// easiness factor.
	firstInterval  = 1
	secondInterval = 6
)

// ReviewItem is the scheduling state for one learnable unit (a flashcard or
// quiz question) owned by one learner. Items are created due immediately and
// mutated only through Review.
type ReviewItem struct {
	// ID is the opaque stable key of the learnable unit.
	ID string `json:"id" yaml:"id"`

	// EasinessFactor controls how fast intervals grow. Never below MinEasiness.
	EasinessFactor float64 `json:"easiness_factor" yaml:"easiness_factor"`

	// RepetitionCount is the number of consecutive successful reviews since
	// the last failure.
	RepetitionCount int `json:"repetition_count" yaml:"repetition_count"`

	// IntervalDays is the days until the next scheduled review. Zero means
	// due now.
	IntervalDays int `json:"interval_days" yaml:"interval_days"`

	// DueDate is when the item should next be presented. Always derived from
	// the last review outcome, never set directly.
	DueDate time.Time `json:"due_date" yaml:"due_date"`

	// LastReviewedAt is the time of the most recent review; nil before the
	// first review.
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty" yaml:"last_reviewed_at,omitempty"`
}

// NewItem creates the initial review state for a learnable unit: easiness
// 2.5, no repetitions, due immediately.
func NewItem(id string, now time.Time) ReviewItem {
	return ReviewItem{
		ID:             id,
		EasinessFactor: InitialEasiness,
		DueDate:        now,
	}
}

// Review applies one review outcome to an item and returns the updated state.
//
// A passing grade (quality >= 3) advances the repetition: the interval is 1
// day on the first pass, 6 days on the second, and previous interval times
// easiness thereafter. A failing grade resets the repetition count to zero
// and the interval to 1 day. The easiness update runs on every review, pass
// or fail, using the stored easiness for the interval computation first.
//
// Grades outside [0, 5] fail with ErrInvalidQuality; a negative repetition
// count or an easiness below MinEasiness on input fails with
// ErrInvalidItemState. In both cases the input item is returned unchanged.
func Review(item ReviewItem, quality Quality, now time.Time) (ReviewItem, error) {
	if !quality.IsValid() {
		return item, fmt.Errorf("%w: %d", ErrInvalidQuality, int(quality))
	}
	if item.RepetitionCount < 0 {
		return item, fmt.Errorf("%w: item %s has repetition count %d",
			ErrInvalidItemState, item.ID, item.RepetitionCount)
	}
	if item.EasinessFactor < MinEasiness {
		return item, fmt.Errorf("%w: item %s has easiness %.2f below %.1f",
			ErrInvalidItemState, item.ID, item.EasinessFactor, MinEasiness)
	}

	next := item
	if quality.Passing() {
		switch item.RepetitionCount {
		case 0:
			// First-ever pass ignores any stale interval.
			next.IntervalDays = firstInterval
		case 1:
			next.IntervalDays = secondInterval
		default:
			next.IntervalDays = roundDays(float64(item.IntervalDays) * item.EasinessFactor)
		}
		next.RepetitionCount = item.RepetitionCount + 1
	} else {
		next.RepetitionCount = 0
		next.IntervalDays = firstInterval
	}

	next.EasinessFactor = nextEasiness(item.EasinessFactor, quality)

	reviewed := now
	next.LastReviewedAt = &reviewed
	next.DueDate = now.AddDate(0, 0, next.IntervalDays)
	return next, nil
}

// nextEasiness applies the SM-2 easiness formula
// E' = E + (0.1 - (5-q)*(0.08 + (5-q)*0.02)) and clamps at MinEasiness.
func nextEasiness(easiness float64, quality Quality) float64 {
	miss := float64(5 - int(quality))
	easiness += 0.1 - miss*(0.08+miss*0.02)
	if easiness < MinEasiness {
		easiness = MinEasiness
	}
	return easiness
}

// roundDays rounds half away from zero and never returns less than one day.
func roundDays(days float64) int {
	n := int(math.Round(days))
	if n < 1 {
		n = 1
	}
	return n
}
