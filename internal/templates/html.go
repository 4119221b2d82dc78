package templates

import (
	"regexp"
	"strings"
)

// Placeholders substituted per recipient by the server. They are opaque here:
// only their literal presence is tested.
const (
	URLToken         = "{{.URL}}"
	TrackerToken     = "{{.Tracker}}"
	TrackingURLToken = "{{.TrackingUrl}}"
)

const closingBody = "</body>"

// The rich-text editor turns a bare {{.URL}} into an absolute link.
var schemeBeforeURL = regexp.MustCompile(`(?i)https?://` + regexp.QuoteMeta(URLToken))

// NormalizeURLScheme strips any http:// or https:// prefix sitting directly in
// front of the URL placeholder.
func NormalizeURLScheme(html string) string {
	return schemeBeforeURL.ReplaceAllLiteralString(html, URLToken)
}

// HasTracker reports whether the tracker image placeholder is present. The
// editor's tracker toggle is derived from this on load.
func HasTracker(html string) bool {
	return strings.Contains(html, TrackerToken)
}

// ApplyTracker inserts or removes the tracker image placeholder in front of
// the closing body tag.
//
// Enabling never duplicates: if either the tracker image or the tracking URL
// placeholder is already present, html is returned untouched. Disabling only
// removes a tracker placeholder adjacent to </body>; a tracking URL placed
// elsewhere is left alone.
func ApplyTracker(html string, enabled bool) string {
	if !enabled {
		return strings.Replace(html, TrackerToken+closingBody, closingBody, 1)
	}
	if strings.Contains(html, TrackerToken) || strings.Contains(html, TrackingURLToken) {
		return html
	}
	return strings.Replace(html, closingBody, TrackerToken+closingBody, 1)
}
