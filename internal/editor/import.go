package editor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/loganlanou/phishdesk/internal/store"
)

// Import sends raw email source to the store for parsing and fills the
// session's bodies and subject from the result.
func (c *Controller) Import(ctx context.Context, s *Session, raw string, convertLinks bool) error {
	if s.Mode() == ModeClosed {
		return ErrSessionClosed
	}

	s.mu.Lock()
	s.importDlg.Open = true
	s.importDlg.Content = raw
	s.importDlg.ConvertLinks = convertLinks
	s.importDlg.Flash = nil
	s.mu.Unlock()

	if strings.TrimSpace(raw) == "" {
		s.setImportFlash("No Content Specified!")
		return ErrNoContent
	}

	result, err := c.store.ImportEmail(ctx, store.ImportRequest{Content: raw, ConvertLinks: convertLinks})
	if err != nil {
		slog.Warn("failed to import email", "error", err, "session_id", s.ID())
		s.setImportFlash(store.ErrorMessage(err, "Failed to import email"))
		return fmt.Errorf("import email: %w", err)
	}

	s.mu.Lock()
	s.form.Text = result.Text
	s.form.HTML = result.HTML
	s.form.Subject = result.Subject
	if result.HTML != "" {
		s.view = ViewVisual
	}
	s.importDlg = ImportDialog{}
	s.mu.Unlock()

	return nil
}

func (s *Session) setImportFlash(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.importDlg.Flash = &Flash{Level: LevelError, Message: msg}
}
