// Package errlog is a capacity-bounded, append-only log of diagnostic
// entries with synchronous observer fan-out. The log never keeps an
// observer alive: subscriptions are held through weak pointers and pruned
// lazily once their owner drops them.
package errlog

import (
	"fmt"
	"time"
	"weak"
)

// Severity of a log entry.
type Severity int

const (
	Info Severity = iota
	Warn
	Err
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Err:
		return "ERROR"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Entry is one immutable log record.
type Entry struct {
	Time     time.Time
	Severity Severity
	Text     string
}

// Observer is notified synchronously of every appended entry.
type Observer interface {
	Notify(e Entry)
}

// Subscription ties an observer to a log. The caller must keep it alive:
// the log only holds a weak reference, so once the subscription is garbage
// the observer silently stops being notified and is pruned at the next
// append.
type Subscription struct {
	observer Observer
}

// Logs is a FIFO ring of at most size entries. On overflow the oldest entry
// is evicted before the new one is appended. Not safe for concurrent use.
type Logs struct {
	size      int
	entries   []Entry
	observers []weak.Pointer[Subscription]
}

// New creates a log bounded to size entries.
func New(size int) *Logs {
	return &Logs{
		size:    size,
		entries: make([]Entry, 0, size),
	}
}

// Subscribe registers an observer. Notification order is registration
// order.
func (l *Logs) Subscribe(o Observer) *Subscription {
	sub := &Subscription{observer: o}
	l.observers = append(l.observers, weak.Make(sub))
	return sub
}

func (l *Logs) append(e Entry) {
	if l.size <= len(l.entries) && len(l.entries) > 0 {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
	}

	kept := l.observers[:0]
	for _, w := range l.observers {
		sub := w.Value()
		if sub == nil {
			continue
		}
		sub.observer.Notify(e)
		kept = append(kept, w)
	}
	l.observers = kept

	l.entries = append(l.entries, e)
}

// Info appends an informational entry.
func (l *Logs) Info(text string) {
	l.append(Entry{Time: time.Now(), Severity: Info, Text: text})
}

// Warn appends a warning entry.
func (l *Logs) Warn(text string) {
	l.append(Entry{Time: time.Now(), Severity: Warn, Text: text})
}

// Err appends an error entry.
func (l *Logs) Err(text string) {
	l.append(Entry{Time: time.Now(), Severity: Err, Text: text})
}

// Infof, Warnf and Errf are the fmt flavours of the above.

func (l *Logs) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logs) Warnf(format string, args ...any) {
	l.Warn(fmt.Sprintf(format, args...))
}

func (l *Logs) Errf(format string, args ...any) {
	l.Err(fmt.Sprintf(format, args...))
}

// Entries returns the retained entries, oldest first. Treat the slice as
// read-only.
func (l *Logs) Entries() []Entry {
	return l.entries
}

// Len returns the number of retained entries.
func (l *Logs) Len() int {
	return len(l.entries)
}
