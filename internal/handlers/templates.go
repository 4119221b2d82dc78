package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/loganlanou/phishdesk/internal/editor"
	"github.com/loganlanou/phishdesk/internal/store"
)

// HandleListTemplates reloads the template list from the store
func (h *EditorHandler) HandleListTemplates(c echo.Context) error {
	if err := h.controller.Load(c.Request().Context()); err != nil {
		return errorJSON(c, statusFor(err), "Error fetching templates")
	}
	return c.JSON(http.StatusOK, h.controller.ListView())
}

// HandleDeleteTemplate deletes a template. The request must carry
// {"confirm": true}; anything else is treated as a declined prompt.
func (h *EditorHandler) HandleDeleteTemplate(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid template id")
	}

	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request")
	}

	var prompt string
	deleted, err := h.controller.Delete(c.Request().Context(), id, editor.ConfirmFunc(func(p string) bool {
		prompt = p
		return req.Confirm
	}))
	if err != nil {
		slog.Error("failed to delete template", "error", err, "template_id", id)
		return errorJSON(c, statusFor(err), store.ErrorMessage(err, "Failed to delete template"))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"deleted": deleted,
		"prompt":  prompt,
	})
}
