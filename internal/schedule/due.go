// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schedule

import (
	"sort"
	"time"
)

// DueBy returns the subset of items whose due date is on or before asOf,
// ordered by ascending due date with ties broken by ascending ID. The result
// is deterministic for the same inputs and the input slice is not modified.
func DueBy(items []ReviewItem, asOf time.Time) []ReviewItem {
	var due []ReviewItem
	for _, item := range items {
		if !item.DueDate.After(asOf) {
			due = append(due, item)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].DueDate.Equal(due[j].DueDate) {
			return due[i].DueDate.Before(due[j].DueDate)
		}
		return due[i].ID < due[j].ID
	})
	return due
}
