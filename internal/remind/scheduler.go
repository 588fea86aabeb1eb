// Package remind runs the periodic reminder sweep: find tasks whose
// reminder instant has elapsed, email their owners, and persist the
// notified transition so no reminder is delivered twice.
package remind

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pvesely/webplanner/internal/mail"
	"github.com/pvesely/webplanner/internal/model"
	"github.com/pvesely/webplanner/internal/store"
)

// defaultSendTimeout bounds a single outbound send so one stuck delivery
// cannot stall the rest of the tick.
const defaultSendTimeout = 15 * time.Second

// Scheduler periodically scans for due reminders and delivers them.
// Exactly one sweep runs at a time: the loop goroutine processes ticks
// sequentially, so a slow sweep delays the next tick instead of
// overlapping it.
type Scheduler struct {
	store       store.Store
	sender      mail.Sender
	interval    time.Duration
	sendTimeout time.Duration

	// now is injectable for deterministic tests.
	now func() time.Time

	mu      sync.Mutex
	stopCh  chan struct{}
	running bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithNow overrides the scheduler's clock.
func WithNow(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithSendTimeout overrides the per-send timeout.
func WithSendTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.sendTimeout = d }
}

// New creates a Scheduler sweeping every interval.
func New(st store.Store, sender mail.Sender, interval time.Duration, opts ...Option) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	s := &Scheduler{
		store:       st,
		sender:      sender,
		interval:    interval,
		sendTimeout: defaultSendTimeout,
		now:         time.Now,
		stopCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the sweep loop goroutine. Calling Start on a running
// scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	go s.loop()
}

// Stop halts the sweep loop. A sweep in flight finishes its current task.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	close(s.stopCh)
	s.running = false
}

// loop runs sweeps on a fixed period until stopped.
func (s *Scheduler) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.Sweep(context.Background())
		}
	}
}

// Sweep executes one reminder scan. Per-task failures are logged and
// skipped; they never abort the rest of the batch. A task whose send
// fails stays eligible and is retried on the next tick.
func (s *Scheduler) Sweep(ctx context.Context) {
	now := s.now().UTC()

	tasks, err := s.store.DueReminders(ctx, now)
	if err != nil {
		log.Printf("remind: querying due reminders: %v", err)
		return
	}

	for _, task := range tasks {
		if err := s.deliver(ctx, task); err != nil {
			log.Printf("remind: task %s: %v", task.ID, err)
		}
	}
}

// deliver sends one reminder and persists the notified transition.
func (s *Scheduler) deliver(ctx context.Context, task model.Task) error {
	owner, err := s.store.GetUserByID(ctx, task.UserID)
	if err != nil {
		// Owner lookup misses (user deleted after the reminder was set)
		// are non-fatal; the task stays eligible until cleaned up.
		return fmt.Errorf("resolving owner %s: %w", task.UserID, err)
	}

	subject, body := composeReminder(task)

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	if err := s.sender.Send(sendCtx, owner.Email, subject, body); err != nil {
		return fmt.Errorf("sending reminder: %w", err)
	}

	changed, err := s.store.MarkNotified(ctx, task.ID)
	if err != nil {
		// The email is out but the transition did not persist; the next
		// tick may send again. Accepted limitation of the separate
		// select/update statements.
		return fmt.Errorf("marking notified after send: %w", err)
	}
	if !changed {
		log.Printf("remind: task %s was already notified", task.ID)
	}
	return nil
}

// composeReminder derives the notification subject and body from a task.
func composeReminder(task model.Task) (subject, body string) {
	subject = "Reminder: " + task.Title

	body = fmt.Sprintf("This is a reminder for your task %q.", task.Title)
	if task.Due != nil {
		if due, err := time.Parse(model.DueDateLayout, *task.Due); err == nil {
			body += fmt.Sprintf(" It is due on %s.", due.Format("Monday, 2 January 2006"))
		}
	}
	return subject, body
}
