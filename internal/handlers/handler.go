// Package handlers exposes the template editor over JSON for the browser UI.
package handlers

import (
	"github.com/loganlanou/phishdesk/internal/editor"
)

type EditorHandler struct {
	controller    *editor.Controller
	sessions      *editor.Registry
	generator     *editor.Generator
	notifications *editor.Notifications
}

func NewEditorHandler(controller *editor.Controller, sessions *editor.Registry, generator *editor.Generator, notifications *editor.Notifications) *EditorHandler {
	return &EditorHandler{
		controller:    controller,
		sessions:      sessions,
		generator:     generator,
		notifications: notifications,
	}
}
