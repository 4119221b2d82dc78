package editor

import (
	"log/slog"
	"sync"
	"time"
)

// Notifier surfaces transient messages to the operator
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

const (
	LevelSuccess = "success"
	LevelError   = "error"
)

const maxNotifications = 100

type Notification struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifications queues messages until the UI drains them. Only the most
// recent maxNotifications are kept.
type Notifications struct {
	mu    sync.Mutex
	items []Notification
}

func NewNotifications() *Notifications {
	return &Notifications{}
}

func (n *Notifications) Success(msg string) {
	slog.Info("notification", "level", LevelSuccess, "message", msg)
	n.push(LevelSuccess, msg)
}

func (n *Notifications) Error(msg string) {
	slog.Warn("notification", "level", LevelError, "message", msg)
	n.push(LevelError, msg)
}

func (n *Notifications) push(level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.items = append(n.items, Notification{Level: level, Message: msg, At: time.Now()})
	if over := len(n.items) - maxNotifications; over > 0 {
		n.items = n.items[over:]
	}
}

// Drain returns the queued notifications oldest first and empties the queue
func (n *Notifications) Drain() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	items := n.items
	n.items = nil
	if items == nil {
		return []Notification{}
	}
	return items
}
