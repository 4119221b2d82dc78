package attachments

import (
	"html"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/loganlanou/phishdesk/internal/templates"
)

const (
	defaultType  = "application/octet-stream"
	deleteMarkup = `<span class="remove-row"><i class="fa fa-trash-o"></i></span>`
)

// Row is one staged attachment as shown in the editor's attachment table.
// Name is HTML-escaped for display.
type Row struct {
	ID      string `json:"id"`
	Icon    string `json:"icon"`
	Name    string `json:"name"`
	Delete  string `json:"delete"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// NewRow builds a staging row for a file with base64 content
func NewRow(name, content, mimeType string) Row {
	if mimeType == "" {
		mimeType = defaultType
	}
	return Row{
		ID:      uuid.New().String(),
		Icon:    `<i class="fa ` + Icon(mimeType) + `"></i>`,
		Name:    html.EscapeString(name),
		Delete:  deleteMarkup,
		Content: content,
		Type:    mimeType,
	}
}

// Attachment converts the row back into a template attachment, undoing the
// display escaping of the name.
func (r Row) Attachment() templates.Attachment {
	return templates.Attachment{
		Name:    html.UnescapeString(r.Name),
		Content: r.Content,
		Type:    r.Type,
	}
}

// Table is the staging area for attachments during one editor session
type Table struct {
	mu   sync.Mutex
	rows []Row
}

func NewTable() *Table {
	return &Table{}
}

// FromAttachments builds a table from a stored template's attachments
func FromAttachments(list []templates.Attachment) *Table {
	t := NewTable()
	t.Load(list)
	return t
}

// Load replaces the table contents with rows for the given attachments
func (t *Table) Load(list []templates.Attachment) {
	rows := make([]Row, 0, len(list))
	for _, a := range list {
		rows = append(rows, NewRow(a.Name, a.Content, a.Type))
	}

	t.mu.Lock()
	t.rows = rows
	t.mu.Unlock()
}

func (t *Table) Add(row Row) {
	t.mu.Lock()
	t.rows = append(t.rows, row)
	t.mu.Unlock()
}

// Remove drops the row with the given id. There is no undo.
func (t *Table) Remove(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, r := range t.rows {
		if r.ID == id {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return true
		}
	}
	return false
}

func (t *Table) Clear() {
	t.mu.Lock()
	t.rows = nil
	t.mu.Unlock()
}

func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

// Rows returns a copy of the rows ordered by display name, ascending.
// Rows with equal names keep their insertion order.
func (t *Table) Rows() []Row {
	t.mu.Lock()
	rows := make([]Row, len(t.rows))
	copy(rows, t.rows)
	t.mu.Unlock()

	sort.SliceStable(rows, func(i, j int) bool {
		return html.UnescapeString(rows[i].Name) < html.UnescapeString(rows[j].Name)
	})
	return rows
}

// Attachments maps the current rows back to template attachments
func (t *Table) Attachments() []templates.Attachment {
	rows := t.Rows()
	out := make([]templates.Attachment, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Attachment())
	}
	return out
}
