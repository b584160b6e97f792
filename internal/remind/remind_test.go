// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package remind

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/doculearn/doculearn/internal/library"
	"github.com/doculearn/doculearn/internal/schedule"
	"github.com/doculearn/doculearn/pkg/types"
)

// noon sits inside the default notification window.
var noon = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	calls map[string]int
	err   error
}

func (n *recordingNotifier) Notify(learner string, dueCount int) error {
	if n.err != nil {
		return n.err
	}
	if n.calls == nil {
		n.calls = map[string]int{}
	}
	n.calls[learner] = dueCount
	return nil
}

func testReminder(t *testing.T, notifier Notifier, opts ...Option) (*Reminder, *library.Store) {
	t.Helper()
	store, err := library.NewStore(types.LibraryConfig{LibraryDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	r := New(store, notifier, io.Discard, opts...)
	r.now = func() time.Time { return noon }
	return r, store
}

func seedReviewItem(t *testing.T, store *library.Store, learner, id string, due time.Time) {
	t.Helper()
	err := store.SaveReviewItem(context.Background(), learner, schedule.ReviewItem{
		ID: id, EasinessFactor: schedule.InitialEasiness, IntervalDays: 1, DueDate: due,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestCheckNotifiesDueLearners(t *testing.T) {
	notifier := &recordingNotifier{}
	r, store := testReminder(t, notifier, WithWindow(0, 23))

	seedReviewItem(t, store, "alex", "card-1", noon.AddDate(0, 0, -1))
	seedReviewItem(t, store, "alex", "card-2", noon)
	seedReviewItem(t, store, "alex", "card-3", noon.AddDate(0, 0, 2))
	seedReviewItem(t, store, "blake", "card-1", noon.AddDate(0, 0, 3))

	if err := r.Check(context.Background()); err != nil {
		t.Fatalf("Check() error: %v", err)
	}

	// Only learners with something due get a reminder, with the due count.
	if got := notifier.calls["alex"]; got != 2 {
		t.Errorf("alex count = %d, want 2", got)
	}
	if _, ok := notifier.calls["blake"]; ok {
		t.Error("blake has nothing due but was notified")
	}
}

func TestCheckOutsideWindow(t *testing.T) {
	notifier := &recordingNotifier{}
	hour := noon.Local().Hour()
	r, store := testReminder(t, notifier, WithWindow((hour+1)%24, (hour+1)%24))

	seedReviewItem(t, store, "alex", "card-1", noon.AddDate(0, 0, -1))

	if err := r.Check(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(notifier.calls) != 0 {
		t.Errorf("notified outside window: %v", notifier.calls)
	}
}

func TestCheckNotifierError(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("channel down")}
	r, store := testReminder(t, notifier, WithWindow(0, 23))

	seedReviewItem(t, store, "alex", "card-1", noon.AddDate(0, 0, -1))

	err := r.Check(context.Background())
	if err == nil || !strings.Contains(err.Error(), "notifying alex") {
		t.Errorf("Check() error = %v, want notify failure", err)
	}
}

func TestWithWindowIgnoresInvalidHours(t *testing.T) {
	r, _ := testReminder(t, &recordingNotifier{}, WithWindow(-1, 24))
	if r.startHour != DefaultStartHour || r.endHour != DefaultEndHour {
		t.Errorf("window = %d-%d, want defaults", r.startHour, r.endHour)
	}
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := WriterNotifier{W: &buf}

	if err := n.Notify("alex", 3); err != nil {
		t.Fatal(err)
	}
	if err := n.Notify("blake", 1); err != nil {
		t.Fatal(err)
	}

	want := "alex: 3 reviews due\nblake: 1 review due\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
