package templates

import "time"

// Template is an email definition stored by the remote template store
type Template struct {
	ID             int64        `json:"id,omitempty"`
	Name           string       `json:"name"`
	Subject        string       `json:"subject"`
	EnvelopeSender string       `json:"envelope_sender"`
	HTML           string       `json:"html"`
	Text           string       `json:"text"`
	Attachments    []Attachment `json:"attachments"`
	ModifiedDate   time.Time    `json:"modified_date,omitempty"`
}

// Attachment is a file carried by a template; Content is base64
type Attachment struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// LandingPage is a page stored by the remote landing-page store
type LandingPage struct {
	ID                 int64     `json:"id,omitempty"`
	Name               string    `json:"name"`
	HTML               string    `json:"html"`
	CaptureCredentials bool      `json:"capture_credentials"`
	CapturePasswords   bool      `json:"capture_passwords"`
	RedirectURL        string    `json:"redirect_url"`
	ModifiedDate       time.Time `json:"modified_date,omitempty"`
}
