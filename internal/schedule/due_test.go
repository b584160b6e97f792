// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schedule

import (
	"reflect"
	"testing"
	"time"
)

func dueItem(id string, due time.Time) ReviewItem {
	return ReviewItem{ID: id, EasinessFactor: InitialEasiness, DueDate: due}
}

func TestDueByFiltersAndOrders(t *testing.T) {
	asOf := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	items := []ReviewItem{
		dueItem("c", asOf.AddDate(0, 0, -1)),
		dueItem("a", asOf.AddDate(0, 0, 2)), // not due yet
		dueItem("b", asOf.AddDate(0, 0, -3)),
		dueItem("d", asOf), // due exactly at the cutoff counts
	}

	got := DueBy(items, asOf)

	ids := make([]string, len(got))
	for i, item := range got {
		ids[i] = item.ID
	}
	want := []string{"b", "c", "d"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("DueBy order = %v, want %v", ids, want)
	}
}

func TestDueByBreaksTiesByID(t *testing.T) {
	asOf := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	due := asOf.AddDate(0, 0, -1)
	items := []ReviewItem{
		dueItem("zebra", due),
		dueItem("apple", due),
		dueItem("mango", due),
	}

	got := DueBy(items, asOf)

	want := []string{"apple", "mango", "zebra"}
	for i, item := range got {
		if item.ID != want[i] {
			t.Fatalf("position %d: got %q, want %q", i, item.ID, want[i])
		}
	}
}

func TestDueByIdempotent(t *testing.T) {
	asOf := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	items := []ReviewItem{
		dueItem("b", asOf.AddDate(0, 0, -2)),
		dueItem("a", asOf.AddDate(0, 0, -1)),
		dueItem("c", asOf.AddDate(0, 0, 1)),
	}
	input := make([]ReviewItem, len(items))
	copy(input, items)

	first := DueBy(items, asOf)
	second := DueBy(items, asOf)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("two calls differ: %v vs %v", first, second)
	}
	if !reflect.DeepEqual(items, input) {
		t.Errorf("input slice was modified: %v", items)
	}
}

func TestDueByEmpty(t *testing.T) {
	asOf := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	if got := DueBy(nil, asOf); len(got) != 0 {
		t.Errorf("DueBy(nil) = %v, want empty", got)
	}
	if got := DueBy([]ReviewItem{dueItem("a", asOf.AddDate(0, 0, 5))}, asOf); len(got) != 0 {
		t.Errorf("DueBy with nothing due = %v, want empty", got)
	}
}
