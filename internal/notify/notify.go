// Package notify holds transient, auto-dismissing user notifications.
package notify

import (
	"sync"
	"time"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 3 * time.Second

// Severity classifies a notification.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Warning Severity = "warning"
)

// Notification is one message shown to the user.
type Notification struct {
	Severity Severity
	Message  string
	ShownAt  time.Time
}

// Notifier keeps at most one visible notification. A new one replaces the
// current one and restarts the dismiss timer.
type Notifier struct {
	ttl  time.Duration
	sink func(Notification)

	mu      sync.Mutex
	current *Notification
	timer   *time.Timer
	seq     uint64
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(n *Notifier) { n.ttl = ttl }
}

// WithSink registers a callback invoked synchronously for every Show.
func WithSink(fn func(Notification)) Option {
	return func(n *Notifier) { n.sink = fn }
}

// New returns a Notifier with DefaultTTL unless overridden by opts.
func New(opts ...Option) *Notifier {
	n := &Notifier{ttl: DefaultTTL}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Show displays msg and schedules its dismissal.
func (n *Notifier) Show(sev Severity, msg string) {
	note := Notification{Severity: sev, Message: msg, ShownAt: time.Now()}

	n.mu.Lock()
	n.current = &note
	n.seq++
	seq := n.seq
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.ttl, func() { n.dismiss(seq) })
	sink := n.sink
	n.mu.Unlock()

	if sink != nil {
		sink(note)
	}
}

func (n *Notifier) Success(msg string) { n.Show(Success, msg) }
func (n *Notifier) Error(msg string)   { n.Show(Error, msg) }
func (n *Notifier) Warning(msg string) { n.Show(Warning, msg) }

// Current returns the visible notification, if any.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}

// Dismiss hides the current notification early.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seq++
	n.current = nil
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

// Close stops the dismiss timer.
func (n *Notifier) Close() {
	n.Dismiss()
}

func (n *Notifier) dismiss(seq uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if seq == n.seq {
		n.current = nil
		n.timer = nil
	}
}
