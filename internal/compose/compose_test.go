package compose

import (
	"testing"

	"github.com/loganlanou/phishdesk/internal/attachments"
	"github.com/loganlanou/phishdesk/internal/templates"
	"github.com/stretchr/testify/assert"
)

func TestBuildAttachments(t *testing.T) {
	rows := []attachments.Row{attachments.NewRow("a.gif", "QQ==", "image/gif")}

	tmpl := Build(Form{Name: "Invoice"}, rows)

	assert.Equal(t, []templates.Attachment{{Name: "a.gif", Content: "QQ==", Type: "image/gif"}}, tmpl.Attachments)
	assert.Zero(t, tmpl.ID)
}

func TestBuildUnescapesNames(t *testing.T) {
	rows := []attachments.Row{attachments.NewRow("R&D <draft>.docx", "QQ==", "")}

	tmpl := Build(Form{}, rows)

	assert.Equal(t, "R&D <draft>.docx", tmpl.Attachments[0].Name)
	assert.Equal(t, "application/octet-stream", tmpl.Attachments[0].Type)
}

func TestBuildStripsSchemeBeforeURL(t *testing.T) {
	form := Form{HTML: `<p><a href="http://{{.URL}}">x</a></p></body>`}

	tmpl := Build(form, nil)

	assert.Equal(t, `<p><a href="{{.URL}}">x</a></p></body>`, tmpl.HTML)
	assert.NotNil(t, tmpl.Attachments)
	assert.Empty(t, tmpl.Attachments)
}

func TestBuildAppliesTracker(t *testing.T) {
	form := Form{
		Name:           "Reset",
		Subject:        "Reset your password",
		EnvelopeSender: "IT <it@example.com>",
		HTML:           `<html><body><a href="https://{{.URL}}">reset</a></body></html>`,
		Text:           "Visit {{.URL}}",
		UseTracker:     true,
	}

	tmpl := Build(form, nil)

	assert.Equal(t, templates.Template{
		Name:           "Reset",
		Subject:        "Reset your password",
		EnvelopeSender: "IT <it@example.com>",
		HTML:           `<html><body><a href="{{.URL}}">reset</a>{{.Tracker}}</body></html>`,
		Text:           "Visit {{.URL}}",
		Attachments:    []templates.Attachment{},
	}, tmpl)

	form.HTML = tmpl.HTML
	form.UseTracker = false
	assert.Equal(t, `<html><body><a href="{{.URL}}">reset</a></body></html>`, Build(form, nil).HTML)
}
