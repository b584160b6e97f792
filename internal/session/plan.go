// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"sort"
	"time"

	"github.com/doculearn/doculearn/internal/library"
	"github.com/doculearn/doculearn/internal/schedule"
	"github.com/doculearn/doculearn/pkg/types"
)

// weakEasiness is the easiness threshold below which a reviewed item marks
// its concept as weak.
const weakEasiness = 2.0

// pointMilestones are the achievement targets, in points.
var pointMilestones = []int{100, 250, 500, 1000, 2500, 5000}

// DueReview is one review item joined with its material unit.
type DueReview struct {
	schedule.ReviewItem `yaml:",inline"`

	Kind          types.MaterialKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Concept       string             `json:"concept,omitempty" yaml:"concept,omitempty"`
	Content       string             `json:"content,omitempty" yaml:"content,omitempty"`
	DocumentID    string             `json:"document_id,omitempty" yaml:"document_id,omitempty"`
	DocumentTitle string             `json:"document_title,omitempty" yaml:"document_title,omitempty"`
}

// Milestone is the learner's next achievement target. A zero Target means
// every milestone is already reached.
type Milestone struct {
	Target    int     `json:"target" yaml:"target"`
	Current   int     `json:"current" yaml:"current"`
	Remaining int     `json:"remaining" yaml:"remaining"`
	Progress  float64 `json:"progress" yaml:"progress"`
}

// Plan is one learner's personal study plan.
type Plan struct {
	Learner       string      `json:"learner" yaml:"learner"`
	DueReviews    []DueReview `json:"due_reviews" yaml:"due_reviews"`
	WeakAreas     []string    `json:"weak_areas" yaml:"weak_areas"`
	Streak        int         `json:"streak" yaml:"streak"`
	TotalPoints   int         `json:"total_points" yaml:"total_points"`
	NextMilestone Milestone   `json:"next_milestone" yaml:"next_milestone"`
}

// BuildPlan assembles the study plan for one learner: reviews due now in
// scheduling order, concepts whose items have drifted into low easiness,
// the daily streak, and progress toward the next point milestone.
func (o *Orchestrator) BuildPlan(ctx context.Context, learner string) (*Plan, error) {
	now := o.now().UTC()

	items, err := o.store.ReviewItems(ctx, learner)
	if err != nil {
		return nil, err
	}

	var due []DueReview
	for _, item := range schedule.DueBy(items, now) {
		review := DueReview{ReviewItem: item}
		if unit, found, err := o.store.Unit(ctx, item.ID); err != nil {
			return nil, err
		} else if found {
			review.Kind = unit.Kind
			review.Concept = unit.Concept
			review.Content = unit.Content
			review.DocumentID = unit.DocumentID
			review.DocumentTitle = unit.DocumentTitle
		}
		due = append(due, review)
	}

	weak, err := o.weakAreas(ctx, items)
	if err != nil {
		return nil, err
	}

	attempts, err := o.store.Attempts(ctx, learner)
	if err != nil {
		return nil, err
	}
	points := totalPoints(attempts)

	return &Plan{
		Learner:       learner,
		DueReviews:    due,
		WeakAreas:     weak,
		Streak:        streak(attempts, now),
		TotalPoints:   points,
		NextMilestone: nextMilestone(points),
	}, nil
}

// weakAreas collects the distinct concepts of items that have been reviewed
// and sunk below the easiness threshold, weakest first.
func (o *Orchestrator) weakAreas(ctx context.Context, items []schedule.ReviewItem) ([]string, error) {
	lowest := map[string]float64{}
	for _, item := range items {
		if item.LastReviewedAt == nil || item.EasinessFactor >= weakEasiness {
			continue
		}
		unit, found, err := o.store.Unit(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		if !found || unit.Concept == "" {
			continue
		}
		if e, ok := lowest[unit.Concept]; !ok || item.EasinessFactor < e {
			lowest[unit.Concept] = item.EasinessFactor
		}
	}

	concepts := make([]string, 0, len(lowest))
	for c := range lowest {
		concepts = append(concepts, c)
	}
	sort.Slice(concepts, func(i, j int) bool {
		if lowest[concepts[i]] != lowest[concepts[j]] {
			return lowest[concepts[i]] < lowest[concepts[j]]
		}
		return concepts[i] < concepts[j]
	})
	return concepts, nil
}

// totalPoints sums attempt scores: a 100% attempt is worth 100 points.
func totalPoints(attempts []library.Attempt) int {
	points := 0
	for _, a := range attempts {
		points += roundScore(a.Score)
	}
	return points
}

// streak counts consecutive days with at least one attempt, ending today or
// yesterday relative to now.
func streak(attempts []library.Attempt, now time.Time) int {
	days := map[string]bool{}
	for _, a := range attempts {
		days[a.CompletedAt.UTC().Format("2006-01-02")] = true
	}

	day := now
	if !days[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
		if !days[day.Format("2006-01-02")] {
			return 0
		}
	}

	count := 0
	for days[day.Format("2006-01-02")] {
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count
}

// nextMilestone finds the first unreached point milestone. Past the last
// one, Target is zero and progress is complete.
func nextMilestone(points int) Milestone {
	for _, target := range pointMilestones {
		if points < target {
			return Milestone{
				Target:    target,
				Current:   points,
				Remaining: target - points,
				Progress:  float64(points) / float64(target) * 100,
			}
		}
	}
	return Milestone{Current: points, Progress: 100}
}
