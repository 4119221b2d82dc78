package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/loganlanou/phishdesk/internal/attachments"
	"github.com/loganlanou/phishdesk/internal/editor"
)

type sessionResponse struct {
	Session editor.State `json:"session"`
	Error   string       `json:"error,omitempty"`
}

// session looks up the editor session named in the path
func (h *EditorHandler) session(c echo.Context) (*editor.Session, error) {
	return h.sessions.Get(c.Request().Context(), c.Param("id"))
}

// persist snapshots the session; a failure only costs the draft
func (h *EditorHandler) persist(c echo.Context, s *editor.Session) {
	if err := h.sessions.Persist(c.Request().Context(), s); err != nil {
		slog.Warn("failed to persist editor draft", "error", err, "session_id", s.ID())
	}
}

// HandleOpenSession opens the editor in new, edit or copy mode
func (h *EditorHandler) HandleOpenSession(c echo.Context) error {
	var req struct {
		Mode       editor.Mode `json:"mode"`
		TemplateID int64       `json:"template_id"`
	}
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request")
	}

	s, err := h.controller.Open(req.Mode, req.TemplateID)
	if err != nil {
		return errorJSON(c, statusFor(err), err.Error())
	}
	if err := h.sessions.Track(c.Request().Context(), s); err != nil {
		slog.Warn("failed to persist editor draft", "error", err, "session_id", s.ID())
	}

	return c.JSON(http.StatusCreated, sessionResponse{Session: s.State()})
}

func (h *EditorHandler) HandleGetSession(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return errorJSON(c, statusFor(err), err.Error())
	}
	return c.JSON(http.StatusOK, sessionResponse{Session: s.State()})
}

// HandleUpdateSession applies a partial update to the form fields, the
// editor view and the import dialog visibility.
func (h *EditorHandler) HandleUpdateSession(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return errorJSON(c, statusFor(err), err.Error())
	}
	if s.Mode() == editor.ModeClosed {
		return errorJSON(c, http.StatusConflict, editor.ErrSessionClosed.Error())
	}

	var req struct {
		Name           *string      `json:"name"`
		Subject        *string      `json:"subject"`
		EnvelopeSender *string      `json:"envelope_sender"`
		HTML           *string      `json:"html"`
		Text           *string      `json:"text"`
		UseTracker     *bool        `json:"use_tracker"`
		View           *editor.View `json:"view"`
		ImportOpen     *bool        `json:"import_open"`
	}
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request")
	}

	form := s.Form()
	if req.Name != nil {
		form.Name = *req.Name
	}
	if req.Subject != nil {
		form.Subject = *req.Subject
	}
	if req.EnvelopeSender != nil {
		form.EnvelopeSender = *req.EnvelopeSender
	}
	if req.HTML != nil {
		form.HTML = *req.HTML
	}
	if req.Text != nil {
		form.Text = *req.Text
	}
	if req.UseTracker != nil {
		form.UseTracker = *req.UseTracker
	}
	s.SetForm(form)

	if req.View != nil {
		switch *req.View {
		case editor.ViewSource, editor.ViewVisual:
			s.SetView(*req.View)
		default:
			return errorJSON(c, http.StatusBadRequest, "Invalid view")
		}
	}
	if req.ImportOpen != nil {
		if *req.ImportOpen {
			s.OpenImport()
		} else {
			s.CloseImport()
		}
	}

	h.persist(c, s)
	return c.JSON(http.StatusOK, sessionResponse{Session: s.State()})
}

// HandleDismissSession closes the editor and drops its draft
func (h *EditorHandler) HandleDismissSession(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return errorJSON(c, statusFor(err), err.Error())
	}

	h.controller.Dismiss(s)
	h.persist(c, s)
	return c.NoContent(http.StatusNoContent)
}

// HandleUploadAttachments stages uploaded files. Multipart uploads use the
// "files" field; JSON bodies carry data URLs.
func (h *EditorHandler) HandleUploadAttachments(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return errorJSON(c, statusFor(err), err.Error())
	}

	var files []attachments.File
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var req struct {
			Files []struct {
				Name string `json:"name"`
				Type string `json:"type"`
				Data string `json:"data"`
			} `json:"files"`
		}
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "Invalid request")
		}
		for _, f := range req.Files {
			files = append(files, attachments.FromDataURI(f.Name, f.Type, f.Data))
		}
	} else {
		form, err := c.MultipartForm()
		if err != nil {
			return errorJSON(c, http.StatusBadRequest, "Invalid upload")
		}
		for _, fh := range form.File["files"] {
			files = append(files, attachments.FromMultipart(fh))
		}
	}

	added, err := h.controller.Attach(c.Request().Context(), s, files)
	if err != nil {
		return errorJSON(c, statusFor(err), err.Error())
	}
	slog.Debug("attachments staged", "session_id", s.ID(), "received", len(files), "added", added)

	h.persist(c, s)
	return c.JSON(http.StatusOK, map[string]any{
		"added":   added,
		"session": s.State(),
	})
}

func (h *EditorHandler) HandleRemoveAttachment(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return errorJSON(c, statusFor(err), err.Error())
	}

	if !h.controller.RemoveAttachment(s, c.Param("row")) {
		return errorJSON(c, http.StatusNotFound, "Attachment not found")
	}

	h.persist(c, s)
	return c.JSON(http.StatusOK, sessionResponse{Session: s.State()})
}

// HandleSave submits the session to the store. A store rejection keeps the
// session open and returns it with its flash message.
func (h *EditorHandler) HandleSave(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return errorJSON(c, statusFor(err), err.Error())
	}

	if err := h.controller.Save(c.Request().Context(), s); err != nil {
		if errors.Is(err, editor.ErrSessionClosed) || errors.Is(err, editor.ErrSubmitPending) {
			return errorJSON(c, statusFor(err), err.Error())
		}
		h.persist(c, s)
		resp := sessionResponse{Session: s.State()}
		if resp.Session.Flash != nil {
			resp.Error = resp.Session.Flash.Message
		}
		return c.JSON(http.StatusUnprocessableEntity, resp)
	}

	h.persist(c, s)
	return c.JSON(http.StatusOK, h.controller.ListView())
}

// HandleImport parses raw email source into the session
func (h *EditorHandler) HandleImport(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return errorJSON(c, statusFor(err), err.Error())
	}

	var req struct {
		Content      string `json:"content"`
		ConvertLinks bool   `json:"convert_links"`
	}
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request")
	}

	err = h.controller.Import(c.Request().Context(), s, req.Content, req.ConvertLinks)
	if errors.Is(err, editor.ErrSessionClosed) {
		return errorJSON(c, http.StatusConflict, err.Error())
	}

	h.persist(c, s)
	resp := sessionResponse{Session: s.State()}
	if err != nil {
		if f := resp.Session.Import.Flash; f != nil {
			resp.Error = f.Message
		}
		return c.JSON(http.StatusUnprocessableEntity, resp)
	}
	return c.JSON(http.StatusOK, resp)
}
