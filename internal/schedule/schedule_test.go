// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schedule

import (
	"errors"
	"math"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func mustReview(t *testing.T, item ReviewItem, q Quality, now time.Time) ReviewItem {
	t.Helper()
	next, err := Review(item, q, now)
	if err != nil {
		t.Fatalf("Review(%v, %d): %v", item, q, err)
	}
	return next
}

func TestNewItemDefaults(t *testing.T) {
	item := NewItem("card-1", testNow)

	if item.EasinessFactor != InitialEasiness {
		t.Errorf("easiness = %v, want %v", item.EasinessFactor, InitialEasiness)
	}
	if item.RepetitionCount != 0 {
		t.Errorf("repetition count = %d, want 0", item.RepetitionCount)
	}
	if item.IntervalDays != 0 {
		t.Errorf("interval = %d, want 0 (due now)", item.IntervalDays)
	}
	if !item.DueDate.Equal(testNow) {
		t.Errorf("due date = %v, want %v", item.DueDate, testNow)
	}
	if item.LastReviewedAt != nil {
		t.Errorf("last reviewed = %v, want nil before first review", item.LastReviewedAt)
	}
}

// TestReviewPassSequence walks a fresh item through three passing reviews
// and checks the expected interval ladder 1, 6, round(6*E).
func TestReviewPassSequence(t *testing.T) {
	item := NewItem("card-1", testNow)

	item = mustReview(t, item, QualityPerfect, testNow)
	if item.RepetitionCount != 1 || item.IntervalDays != 1 {
		t.Fatalf("after first pass: n=%d I=%d, want n=1 I=1", item.RepetitionCount, item.IntervalDays)
	}
	if math.Abs(item.EasinessFactor-2.6) > 0.01 {
		t.Errorf("easiness after q=5: %v, want ~2.6", item.EasinessFactor)
	}

	item = mustReview(t, item, QualityPerfect, item.DueDate)
	if item.RepetitionCount != 2 || item.IntervalDays != 6 {
		t.Fatalf("after second pass: n=%d I=%d, want n=2 I=6", item.RepetitionCount, item.IntervalDays)
	}
	if math.Abs(item.EasinessFactor-2.7) > 0.01 {
		t.Errorf("easiness after second q=5: %v, want ~2.7", item.EasinessFactor)
	}

	item = mustReview(t, item, QualityCorrectHesitant, item.DueDate)
	if item.RepetitionCount != 3 {
		t.Errorf("repetition count = %d, want 3", item.RepetitionCount)
	}
	// round(6 * 2.7) with the easiness stored before this review.
	if item.IntervalDays != 16 {
		t.Errorf("interval = %d, want 16", item.IntervalDays)
	}
	if math.Abs(item.EasinessFactor-2.7) > 0.01 {
		t.Errorf("easiness after q=4: %v, want ~2.7", item.EasinessFactor)
	}
}

// TestReviewFailResets checks that a failing grade resets progress and still
// applies the easiness penalty.
func TestReviewFailResets(t *testing.T) {
	item := ReviewItem{
		ID:              "card-1",
		EasinessFactor:  2.5,
		RepetitionCount: 3,
		IntervalDays:    16,
		DueDate:         testNow,
	}

	next := mustReview(t, item, QualityIncorrect, testNow)

	if next.RepetitionCount != 0 {
		t.Errorf("repetition count = %d, want 0 after failure", next.RepetitionCount)
	}
	if next.IntervalDays != 1 {
		t.Errorf("interval = %d, want 1 after failure", next.IntervalDays)
	}
	if next.EasinessFactor >= 2.5 {
		t.Errorf("easiness = %v, want below 2.5 (penalty applies on failure)", next.EasinessFactor)
	}
	wantDue := testNow.AddDate(0, 0, 1)
	if !next.DueDate.Equal(wantDue) {
		t.Errorf("due date = %v, want %v", next.DueDate, wantDue)
	}
}

func TestReviewQualityThreeIsPass(t *testing.T) {
	item := NewItem("card-1", testNow)

	next := mustReview(t, item, QualityCorrectHard, testNow)

	if next.RepetitionCount != 1 {
		t.Errorf("repetition count = %d, want 1 (quality 3 passes)", next.RepetitionCount)
	}
	// Quality 3 carries an easiness penalty even though it passes:
	// 2.5 + (0.1 - 2*(0.08 + 2*0.02)) = 2.36.
	if math.Abs(next.EasinessFactor-2.36) > 0.01 {
		t.Errorf("easiness = %v, want ~2.36", next.EasinessFactor)
	}
}

func TestReviewEasinessNeverBelowFloor(t *testing.T) {
	item := NewItem("card-1", testNow)

	for i := 0; i < 20; i++ {
		var err error
		item, err = Review(item, QualityBlackout, testNow.AddDate(0, 0, i))
		if err != nil {
			t.Fatalf("review %d: %v", i, err)
		}
		if item.EasinessFactor < MinEasiness {
			t.Fatalf("review %d: easiness %v dropped below %v", i, item.EasinessFactor, MinEasiness)
		}
	}
	if item.EasinessFactor != MinEasiness {
		t.Errorf("easiness = %v, want clamped at %v after repeated blackouts", item.EasinessFactor, MinEasiness)
	}
}

// TestReviewIntervalsNonDecreasing verifies that across consecutive passes
// the interval never shrinks, for every passing grade.
func TestReviewIntervalsNonDecreasing(t *testing.T) {
	for _, q := range []Quality{QualityCorrectHard, QualityCorrectHesitant, QualityPerfect} {
		item := NewItem("card-1", testNow)
		now := testNow
		prev := 0
		for i := 0; i < 12; i++ {
			var err error
			item, err = Review(item, q, now)
			if err != nil {
				t.Fatalf("quality %d, pass %d: %v", q, i, err)
			}
			if item.IntervalDays < prev {
				t.Fatalf("quality %d, pass %d: interval shrank %d -> %d", q, i, prev, item.IntervalDays)
			}
			// Strictly increasing once growth is multiplicative.
			if item.RepetitionCount > 2 && item.EasinessFactor > 1.0 && item.IntervalDays <= prev {
				t.Fatalf("quality %d, pass %d: interval %d did not grow past %d", q, i, item.IntervalDays, prev)
			}
			prev = item.IntervalDays
			now = item.DueDate
		}
	}
}

func TestReviewFirstPassIgnoresStaleInterval(t *testing.T) {
	item := ReviewItem{
		ID:             "card-1",
		EasinessFactor: 2.5,
		IntervalDays:   42, // stale leftover from a corrupted import
		DueDate:        testNow,
	}

	next := mustReview(t, item, QualityPerfect, testNow)

	if next.IntervalDays != 1 {
		t.Errorf("interval = %d, want 1 (repetition count 0 wins over stale interval)", next.IntervalDays)
	}
}

func TestReviewInvalidQuality(t *testing.T) {
	for _, q := range []Quality{-1, 6, 100} {
		item := ReviewItem{ID: "card-1", EasinessFactor: 2.5, RepetitionCount: 2, IntervalDays: 6, DueDate: testNow}

		got, err := Review(item, q, testNow)
		if !errors.Is(err, ErrInvalidQuality) {
			t.Fatalf("quality %d: err = %v, want ErrInvalidQuality", q, err)
		}
		if got != item {
			t.Errorf("quality %d: item changed on error: %+v", q, got)
		}
	}
}

func TestReviewInvalidItemState(t *testing.T) {
	tests := []struct {
		name string
		item ReviewItem
	}{
		{"negative repetition count", ReviewItem{ID: "a", EasinessFactor: 2.5, RepetitionCount: -1}},
		{"easiness below floor", ReviewItem{ID: "b", EasinessFactor: 1.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Review(tt.item, QualityPerfect, testNow)
			if !errors.Is(err, ErrInvalidItemState) {
				t.Fatalf("err = %v, want ErrInvalidItemState", err)
			}
			if got != tt.item {
				t.Errorf("item changed on error: %+v", got)
			}
		})
	}
}

func TestReviewSetsTimestamps(t *testing.T) {
	item := NewItem("card-1", testNow)

	next := mustReview(t, item, QualityCorrectHesitant, testNow)

	if next.LastReviewedAt == nil || !next.LastReviewedAt.Equal(testNow) {
		t.Errorf("last reviewed = %v, want %v", next.LastReviewedAt, testNow)
	}
	wantDue := testNow.AddDate(0, 0, next.IntervalDays)
	if !next.DueDate.Equal(wantDue) {
		t.Errorf("due date = %v, want last review + interval = %v", next.DueDate, wantDue)
	}
}

// TestReviewRoundsHalfAwayFromZero pins the interval rounding rule: 6 days
// at easiness 1.75 is 10.5, which rounds up to 11.
func TestReviewRoundsHalfAwayFromZero(t *testing.T) {
	item := ReviewItem{
		ID:              "card-1",
		EasinessFactor:  1.75,
		RepetitionCount: 2,
		IntervalDays:    6,
		DueDate:         testNow,
	}

	next := mustReview(t, item, QualityPerfect, testNow)

	if next.IntervalDays != 11 {
		t.Errorf("interval = %d, want 11 (10.5 rounds away from zero)", next.IntervalDays)
	}
}
