package core

import (
	"fmt"
	"strings"
	"sync"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a transient, user-visible message about the outcome of an action.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func (n Notification) String() string {
	return string(n.Level) + "|" + n.Message
}

// ParseNotification is the inverse of Notification.String.
func ParseNotification(s string) Notification {
	parts := strings.SplitN(s, "|", 2)
	if len(parts) < 2 {
		return Notification{Level: LevelInfo, Message: s}
	}
	return Notification{Level: Level(parts[0]), Message: parts[1]}
}

// Notifier delivers notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// DiscardNotifier drops every notification.
var DiscardNotifier Notifier = NotifierFunc(func(Notification) {})

// NotificationRecorder keeps notifications in memory until drained.
type NotificationRecorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *NotificationRecorder) Notify(n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

// Drain returns the recorded notifications and forgets them.
func (r *NotificationRecorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.items
	r.items = nil
	return items
}

func Notifyf(n Notifier, level Level, format string, args ...interface{}) {
	if n == nil {
		return
	}
	n.Notify(Notification{Level: level, Message: fmt.Sprintf(format, args...)})
}
