// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package remind runs the review reminder loop: an hourly check that counts
// reviews due for each learner and, inside the notification window, hands
// the count to a Notifier.
package remind

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/doculearn/doculearn/internal/library"
	"github.com/doculearn/doculearn/internal/schedule"
)

// Default notification window, in local hours.
const (
	DefaultStartHour = 8
	DefaultEndHour   = 22
)

// Notifier delivers one reminder to one learner.
type Notifier interface {
	Notify(learner string, dueCount int) error
}

// WriterNotifier prints reminders to an io.Writer. It is the CLI's default
// delivery channel.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(learner string, dueCount int) error {
	reviews := "reviews"
	if dueCount == 1 {
		reviews = "review"
	}
	_, err := fmt.Fprintf(n.W, "%s: %d %s due\n", learner, dueCount, reviews)
	return err
}

// Reminder periodically checks each learner's due reviews.
type Reminder struct {
	store     *library.Store
	notifier  Notifier
	scheduler *gocron.Scheduler
	errw      io.Writer

	startHour int
	endHour   int
	now       func() time.Time
}

// Option adjusts a Reminder.
type Option func(*Reminder)

// WithWindow sets the local hours between which reminders are delivered,
// inclusive on both ends. Hours outside [0, 23] keep the defaults.
func WithWindow(startHour, endHour int) Option {
	return func(r *Reminder) {
		if startHour >= 0 && startHour <= 23 {
			r.startHour = startHour
		}
		if endHour >= 0 && endHour <= 23 {
			r.endHour = endHour
		}
	}
}

// New builds a Reminder over store. Errors during background checks are
// reported to errw.
func New(store *library.Store, notifier Notifier, errw io.Writer, opts ...Option) *Reminder {
	r := &Reminder{
		store:     store,
		notifier:  notifier,
		scheduler: gocron.NewScheduler(time.UTC),
		errw:      errw,
		startHour: DefaultStartHour,
		endHour:   DefaultEndHour,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start schedules the hourly check and runs it in the background until Stop.
func (r *Reminder) Start() error {
	if _, err := r.scheduler.Every(1).Hour().Do(func() {
		if err := r.Check(context.Background()); err != nil {
			fmt.Fprintf(r.errw, "warning: reminder check failed: %v\n", err)
		}
	}); err != nil {
		return fmt.Errorf("scheduling reminder check: %w", err)
	}
	r.scheduler.StartAsync()
	return nil
}

// Stop halts the background checks.
func (r *Reminder) Stop() {
	r.scheduler.Stop()
}

// Check counts due reviews per learner and notifies those with any, if the
// current local hour falls inside the notification window. Outside the
// window it does nothing.
func (r *Reminder) Check(ctx context.Context) error {
	now := r.now()
	if hour := now.Local().Hour(); hour < r.startHour || hour > r.endHour {
		return nil
	}

	learners, err := r.store.Learners(ctx)
	if err != nil {
		return err
	}
	for _, learner := range learners {
		items, err := r.store.ReviewItems(ctx, learner)
		if err != nil {
			return err
		}
		due := len(schedule.DueBy(items, now.UTC()))
		if due == 0 {
			continue
		}
		if err := r.notifier.Notify(learner, due); err != nil {
			return fmt.Errorf("notifying %s: %w", learner, err)
		}
	}
	return nil
}
