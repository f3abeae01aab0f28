// Package notify delivers fire-and-forget user notifications. Callers never
// wait on delivery and delivery failures never affect control flow.
package notify

import (
	"github.com/velvetrock/gitscout/internal/logging"
)

// Notifier receives user-facing notifications.
type Notifier interface {
	Notify(title string, description ...string)
}

// LogNotifier writes notifications to the application log. It is the
// always-available default sink.
type LogNotifier struct{}

func (LogNotifier) Notify(title string, description ...string) {
	if len(description) > 0 && description[0] != "" {
		logging.Info("notification", "title", title, "description", description[0])
		return
	}
	logging.Info("notification", "title", title)
}

// Multi fans one notification out to several sinks.
type Multi []Notifier

func (m Multi) Notify(title string, description ...string) {
	for _, n := range m {
		n.Notify(title, description...)
	}
}

// Nop discards notifications. Used in tests.
type Nop struct{}

func (Nop) Notify(string, ...string) {}
