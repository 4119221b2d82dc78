package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/loganlanou/phishdesk/internal/editor"
	"github.com/loganlanou/phishdesk/internal/scenario"
)

func (h *EditorHandler) HandleGetDialog(c echo.Context) error {
	return c.JSON(http.StatusOK, h.generator.Dialog())
}

func (h *EditorHandler) HandleOpenDialog(c echo.Context) error {
	h.generator.OpenDialog()
	return c.JSON(http.StatusOK, h.generator.Dialog())
}

func (h *EditorHandler) HandleCloseDialog(c echo.Context) error {
	h.generator.CloseDialog()
	return c.JSON(http.StatusOK, h.generator.Dialog())
}

// HandleGenerate runs AI generation and, on success, returns the editor
// session it opened. The landing page is created in the background and
// reported through notifications.
func (h *EditorHandler) HandleGenerate(c echo.Context) error {
	var req struct {
		Scenario           string `json:"scenario"`
		TargetCompany      string `json:"target_company"`
		IncludeLandingPage bool   `json:"include_landing_page"`
	}
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request")
	}

	gen, err := h.generator.Generate(c.Request().Context(), req.Scenario, req.TargetCompany, req.IncludeLandingPage)
	switch {
	case errors.Is(err, editor.ErrGenerationPending), errors.Is(err, editor.ErrDialogClosed):
		return errorJSON(c, http.StatusConflict, err.Error())
	case err != nil:
		return c.JSON(statusFor(err), map[string]any{
			"error":  dialogError(h.generator.Dialog()),
			"dialog": h.generator.Dialog(),
		})
	}

	if err := h.sessions.Track(c.Request().Context(), gen.Session); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Failed to store editor session")
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"session":      gen.Session.State(),
		"landing_page": gen.Page != nil,
	})
}

func dialogError(d editor.DialogState) string {
	if d.Flash != nil {
		return d.Flash.Message
	}
	return "Failed to generate template"
}

// HandleNotifications drains queued success and error messages
func (h *EditorHandler) HandleNotifications(c echo.Context) error {
	return c.JSON(http.StatusOK, h.notifications.Drain())
}

// HandleScenarios lists the AI scenarios with their display labels
func (h *EditorHandler) HandleScenarios(c echo.Context) error {
	type item struct {
		ID     string            `json:"id"`
		Label  string            `json:"label"`
		Sender scenario.Identity `json:"sender"`
	}

	ids := scenario.Known()
	out := make([]item, 0, len(ids))
	for _, id := range ids {
		out = append(out, item{ID: id, Label: scenario.Label(id), Sender: scenario.Sender(id)})
	}
	return c.JSON(http.StatusOK, out)
}
