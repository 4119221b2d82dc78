package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/loganlanou/phishdesk/internal/editor"
	"github.com/loganlanou/phishdesk/internal/store"
)

// statusFor maps controller errors onto HTTP statuses
func statusFor(err error) int {
	var apiErr *store.APIError
	switch {
	case errors.Is(err, editor.ErrSessionNotFound), errors.Is(err, editor.ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, editor.ErrNoContent), errors.Is(err, editor.ErrInvalidMode):
		return http.StatusBadRequest
	case errors.Is(err, editor.ErrSessionClosed),
		errors.Is(err, editor.ErrSubmitPending),
		errors.Is(err, editor.ErrGenerationPending),
		errors.Is(err, editor.ErrDialogClosed):
		return http.StatusConflict
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}
