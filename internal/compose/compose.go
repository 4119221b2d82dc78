// Package compose turns the editor's form state into a template record.
package compose

import (
	"github.com/loganlanou/phishdesk/internal/attachments"
	"github.com/loganlanou/phishdesk/internal/templates"
)

// Form holds the editor fields as the operator left them
type Form struct {
	Name           string `json:"name"`
	Subject        string `json:"subject"`
	EnvelopeSender string `json:"envelope_sender"`
	HTML           string `json:"html"`
	Text           string `json:"text"`
	UseTracker     bool   `json:"use_tracker"`
}

// Build assembles a template from the form and the staged attachment rows.
// The result never carries an ID; callers updating an existing template set
// it themselves.
func Build(form Form, rows []attachments.Row) templates.Template {
	html := templates.NormalizeURLScheme(form.HTML)
	html = templates.ApplyTracker(html, form.UseTracker)

	list := make([]templates.Attachment, 0, len(rows))
	for _, r := range rows {
		list = append(list, r.Attachment())
	}

	return templates.Template{
		Name:           form.Name,
		Subject:        form.Subject,
		EnvelopeSender: form.EnvelopeSender,
		HTML:           html,
		Text:           form.Text,
		Attachments:    list,
	}
}
