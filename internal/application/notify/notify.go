// Package notify carries user-visible feedback ("toasts") out of the
// application layer. Sinks never block and never fail the caller.
package notify

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Notification struct {
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	At       time.Time `json:"at"`
}

type Notifier interface {
	Notify(title, message string, severity Severity)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, message string, severity Severity)

func (f NotifierFunc) Notify(title, message string, severity Severity) { f(title, message, severity) }

// Discard drops everything.
var Discard Notifier = NotifierFunc(func(string, string, Severity) {})

// LogNotifier writes notifications to a logrus entry.
type LogNotifier struct {
	Entry *log.Entry
}

func (n LogNotifier) Notify(title, message string, severity Severity) {
	e := n.Entry
	if e == nil {
		e = log.NewEntry(log.StandardLogger())
	}
	e = e.WithFields(log.Fields{"title": title, "severity": string(severity)})
	switch severity {
	case SeverityError:
		e.Warn(message)
	case SeverityWarning:
		e.Info(message)
	default:
		e.Debug(message)
	}
}

// Fanout delivers to every sink in order.
type Fanout []Notifier

func (f Fanout) Notify(title, message string, severity Severity) {
	for _, n := range f {
		if n != nil {
			n.Notify(title, message, severity)
		}
	}
}

const DefaultQueueSize = 32

// Queue buffers notifications until drained. When full the oldest entry is
// dropped.
type Queue struct {
	mu    sync.Mutex
	items []Notification
	max   int
	now   func() time.Time
}

func NewQueue(max int) *Queue {
	if max <= 0 {
		max = DefaultQueueSize
	}
	return &Queue{max: max, now: time.Now}
}

func (q *Queue) Notify(title, message string, severity Severity) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.max {
		q.items = q.items[1:]
	}
	q.items = append(q.items, Notification{Title: title, Message: message, Severity: severity, At: q.now().UTC()})
}

// Drain returns and removes everything queued so far.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
