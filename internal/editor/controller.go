package editor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/loganlanou/phishdesk/internal/attachments"
	"github.com/loganlanou/phishdesk/internal/store"
	"github.com/loganlanou/phishdesk/internal/templates"
)

// TemplateStore is the part of the remote store the editor needs
type TemplateStore interface {
	Templates(ctx context.Context) ([]templates.Template, error)
	CreateTemplate(ctx context.Context, t templates.Template) (*templates.Template, error)
	UpdateTemplate(ctx context.Context, t templates.Template) (*templates.Template, error)
	DeleteTemplate(ctx context.Context, id int64) (string, error)
	ImportEmail(ctx context.Context, req store.ImportRequest) (*store.ImportResult, error)
}

// Confirmer asks the operator to confirm a destructive action
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// ListView is what the template list renders
type ListView struct {
	Loading   bool                 `json:"loading"`
	Empty     bool                 `json:"empty"`
	Templates []templates.Template `json:"templates"`
}

// Controller drives template list, create, update, copy and delete against
// the remote store.
type Controller struct {
	store    TemplateStore
	cache    *Cache
	notifier Notifier
	encoder  *attachments.Encoder
}

func NewController(st TemplateStore, notifier Notifier, encoder *attachments.Encoder) *Controller {
	if encoder == nil {
		encoder = attachments.NewEncoder(attachments.DefaultReaders)
	}
	return &Controller{
		store:    st,
		cache:    NewCache(),
		notifier: notifier,
		encoder:  encoder,
	}
}

func (c *Controller) Cache() *Cache {
	return c.cache
}

// Load fetches all templates and replaces the cache
func (c *Controller) Load(ctx context.Context) error {
	gen := c.cache.Begin()

	list, err := c.store.Templates(ctx)
	if err != nil {
		c.cache.Abandon()
		slog.Error("failed to fetch templates", "error", err)
		c.notifier.Error("Error fetching templates")
		return fmt.Errorf("list templates: %w", err)
	}

	if !c.cache.Replace(gen, list) {
		slog.Debug("discarded superseded template list", "generation", gen)
	}
	return nil
}

func (c *Controller) ListView() ListView {
	list := c.cache.List()
	return ListView{
		Loading:   c.cache.Loading(),
		Empty:     len(list) == 0,
		Templates: list,
	}
}

// Open starts an editor session. Edit and copy resolve id against the cache
// at call time.
func (c *Controller) Open(mode Mode, id int64) (*Session, error) {
	s := newSession()

	switch mode {
	case ModeNew:
		s.load(ModeNew, templates.Template{})
	case ModeEdit, ModeCopy:
		t, ok := c.cache.Get(id)
		if !ok {
			return nil, fmt.Errorf("open template %d: %w", id, ErrTemplateNotFound)
		}
		s.load(mode, t)
	default:
		return nil, fmt.Errorf("open %q: %w", mode, ErrInvalidMode)
	}

	slog.Debug("editor session opened", "session_id", s.ID(), "mode", mode, "template_id", id)
	return s, nil
}

// Save submits the session's record. New and copy sessions create, edit
// sessions update. On success the list is reloaded and the session
// dismissed; on failure the store's message is flashed in the session,
// which stays open.
func (c *Controller) Save(ctx context.Context, s *Session) error {
	if err := s.beginSubmit(); err != nil {
		return err
	}
	defer s.endSubmit()

	record := s.Record()

	var err error
	var success string
	if s.Mode() == ModeEdit {
		_, err = c.store.UpdateTemplate(ctx, record)
		success = "Template edited successfully!"
	} else {
		_, err = c.store.CreateTemplate(ctx, record)
		success = "Template added successfully!"
	}

	if err != nil {
		slog.Warn("failed to save template", "error", err, "session_id", s.ID(), "name", record.Name)
		s.setFlash(LevelError, store.ErrorMessage(err, "Failed to save template"))
		return fmt.Errorf("save template: %w", err)
	}

	slog.Info("template saved", "session_id", s.ID(), "name", record.Name, "template_id", record.ID)
	c.notifier.Success(success)
	_ = c.Load(ctx)
	c.Dismiss(s)
	return nil
}

// Dismiss closes the session, clearing all fields and staged attachments
func (c *Controller) Dismiss(s *Session) {
	s.Reset()
}

// Delete removes the template with the given id once the operator confirms.
// It reports whether the template was deleted; a declined confirmation is
// not an error.
func (c *Controller) Delete(ctx context.Context, id int64, confirm Confirmer) (bool, error) {
	t, ok := c.cache.Get(id)
	if !ok {
		return false, fmt.Errorf("delete template %d: %w", id, ErrTemplateNotFound)
	}

	if confirm == nil || !confirm.Confirm("Delete "+t.Name+"?") {
		slog.Debug("template deletion declined", "template_id", id)
		return false, nil
	}

	msg, err := c.store.DeleteTemplate(ctx, id)
	if err != nil {
		slog.Warn("failed to delete template", "error", err, "template_id", id)
		c.notifier.Error(store.ErrorMessage(err, "Failed to delete template"))
		return false, fmt.Errorf("delete template %d: %w", id, err)
	}

	c.notifier.Success(msg)
	_ = c.Load(ctx)
	return true, nil
}

// Attach encodes uploaded files into the session's staging table
func (c *Controller) Attach(ctx context.Context, s *Session, files []attachments.File) (int, error) {
	if s.Mode() == ModeClosed {
		return 0, ErrSessionClosed
	}
	return c.encoder.Encode(ctx, files, s.Table())
}

// RemoveAttachment drops a staged attachment row. There is no undo.
func (c *Controller) RemoveAttachment(s *Session, rowID string) bool {
	return s.Table().Remove(rowID)
}
