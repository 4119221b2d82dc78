package editor

import (
	"testing"

	"github.com/loganlanou/phishdesk/internal/attachments"
	"github.com/loganlanou/phishdesk/internal/storetest"
)

func newTestController(t *testing.T) (*storetest.Store, *Controller, *Notifications) {
	t.Helper()

	fake, client := storetest.NewServer(t)
	notes := NewNotifications()
	return fake, NewController(client, notes, attachments.NewEncoder(2)), notes
}

func messages(items []Notification) []string {
	out := make([]string, 0, len(items))
	for _, n := range items {
		out = append(out, n.Level+": "+n.Message)
	}
	return out
}
