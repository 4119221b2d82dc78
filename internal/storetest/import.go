package storetest

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/mail"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/loganlanou/phishdesk/internal/store"
	"github.com/loganlanou/phishdesk/internal/templates"
)

var hrefValue = regexp.MustCompile(`(?i)href\s*=\s*"[^"]*"`)

func (s *Store) handleImport(c echo.Context) error {
	var req store.ImportRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid JSON structure")
	}

	msg, err := mail.ReadMessage(strings.NewReader(req.Content))
	if err != nil {
		return message(c, http.StatusBadRequest, "Error parsing email: "+err.Error())
	}

	result := store.ImportResult{Subject: msg.Header.Get("Subject")}
	if err := readParts(msg.Header.Get("Content-Type"), msg.Body, &result); err != nil {
		return message(c, http.StatusBadRequest, "Error parsing email body: "+err.Error())
	}

	if req.ConvertLinks && result.HTML != "" {
		result.HTML = hrefValue.ReplaceAllString(result.HTML, `href="`+templates.URLToken+`"`)
	}
	return c.JSON(http.StatusOK, result)
}

// readParts fills the text and HTML bodies, walking multipart messages
func readParts(contentType string, body io.Reader, out *store.ImportResult) error {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		mr := multipart.NewReader(body, params["boundary"])
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			if err := readParts(part.Header.Get("Content-Type"), part, out); err != nil {
				return err
			}
		}
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	switch mediaType {
	case "text/html":
		if out.HTML == "" {
			out.HTML = string(data)
		}
	case "text/plain":
		if out.Text == "" {
			out.Text = string(data)
		}
	}
	return nil
}
