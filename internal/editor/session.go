package editor

import (
	"sync"

	"github.com/loganlanou/phishdesk/internal/attachments"
	"github.com/loganlanou/phishdesk/internal/compose"
	"github.com/loganlanou/phishdesk/internal/templates"
	"github.com/oklog/ulid/v2"
)

// Mode is the state of the template editor modal
type Mode string

const (
	ModeClosed Mode = "closed"
	ModeNew    Mode = "new"
	ModeEdit   Mode = "edit"
	ModeCopy   Mode = "copy"
)

// View is the rich-text editor's display mode
type View string

const (
	ViewSource View = "source"
	ViewVisual View = "visual"
)

// Flash is a message shown inside a modal
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// ImportDialog is the state of the "import email" dialog
type ImportDialog struct {
	Open         bool   `json:"open"`
	Content      string `json:"content"`
	ConvertLinks bool   `json:"convert_links"`
	Flash        *Flash `json:"flash,omitempty"`
}

// State is a point-in-time copy of a session, used for rendering and drafts
type State struct {
	ID          string            `json:"id"`
	Mode        Mode              `json:"mode"`
	TemplateID  int64             `json:"template_id,omitempty"`
	Form        compose.Form      `json:"form"`
	View        View              `json:"view"`
	Flash       *Flash            `json:"flash,omitempty"`
	Submitting  bool              `json:"submitting"`
	Import      ImportDialog      `json:"import"`
	Attachments []attachments.Row `json:"attachments"`
}

// Session is one pass through the template editor: it owns the form fields
// and the attachment staging table from open until dismiss.
type Session struct {
	id    string
	table *attachments.Table

	mu         sync.Mutex
	mode       Mode
	templateID int64
	form       compose.Form
	view       View
	flash      *Flash
	submitting bool
	importDlg  ImportDialog
}

func newSession() *Session {
	return &Session{
		id:    ulid.Make().String(),
		table: attachments.NewTable(),
		mode:  ModeClosed,
		view:  ViewSource,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Table() *attachments.Table {
	return s.table
}

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Session) Form() compose.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// SetForm replaces the editable fields
func (s *Session) SetForm(form compose.Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = form
}

// SetView switches the rich-text editor between source and visual mode
func (s *Session) SetView(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
}

func (s *Session) Flash() *Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flash
}

// Record builds the template this session would save. Edit sessions carry
// the id of the template being edited; new and copy sessions never do.
func (s *Session) Record() templates.Template {
	s.mu.Lock()
	form, mode, id := s.form, s.mode, s.templateID
	s.mu.Unlock()

	t := compose.Build(form, s.table.Rows())
	if mode == ModeEdit {
		t.ID = id
	}
	return t
}

// Reset clears every field and the staging table and closes the session
func (s *Session) Reset() {
	s.mu.Lock()
	s.mode = ModeClosed
	s.templateID = 0
	s.form = compose.Form{}
	s.view = ViewSource
	s.flash = nil
	s.submitting = false
	s.importDlg = ImportDialog{}
	s.mu.Unlock()

	s.table.Clear()
}

// load enters mode with the fields of t. The tracker toggle is derived from
// the HTML, not stored.
func (s *Session) load(mode Mode, t templates.Template) {
	s.Reset()

	name := t.Name
	if mode == ModeCopy {
		name = "Copy of " + t.Name
	}

	s.mu.Lock()
	s.mode = mode
	if mode == ModeEdit {
		s.templateID = t.ID
	}
	s.form = compose.Form{
		Name:           name,
		Subject:        t.Subject,
		EnvelopeSender: t.EnvelopeSender,
		HTML:           t.HTML,
		Text:           t.Text,
		UseTracker:     templates.HasTracker(t.HTML),
	}
	s.mu.Unlock()

	s.table.Load(t.Attachments)
}

func (s *Session) setFlash(level, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flash = &Flash{Level: level, Message: msg}
}

// beginSubmit marks the session as submitting; it fails if the session is
// closed or a submit is already running.
func (s *Session) beginSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.mode == ModeClosed:
		return ErrSessionClosed
	case s.submitting:
		return ErrSubmitPending
	}
	s.submitting = true
	s.flash = nil
	return nil
}

func (s *Session) endSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
}

// OpenImport shows the import dialog
func (s *Session) OpenImport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.importDlg = ImportDialog{Open: true}
}

// CloseImport hides the import dialog and forgets its content
func (s *Session) CloseImport() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.importDlg = ImportDialog{}
}

// State returns a snapshot of the session
func (s *Session) State() State {
	s.mu.Lock()
	st := State{
		ID:         s.id,
		Mode:       s.mode,
		TemplateID: s.templateID,
		Form:       s.form,
		View:       s.view,
		Submitting: s.submitting,
		Import:     s.importDlg,
	}
	if s.flash != nil {
		f := *s.flash
		st.Flash = &f
	}
	s.mu.Unlock()

	st.Attachments = s.table.Rows()
	return st
}

// restoreSession rebuilds a session from a snapshot
func restoreSession(st State) *Session {
	s := &Session{
		id:         st.ID,
		table:      attachments.NewTable(),
		mode:       st.Mode,
		templateID: st.TemplateID,
		form:       st.Form,
		view:       st.View,
		flash:      st.Flash,
		importDlg:  st.Import,
	}
	if s.view == "" {
		s.view = ViewSource
	}
	for _, r := range st.Attachments {
		s.table.Add(r)
	}
	return s
}
