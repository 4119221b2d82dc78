package editor

import "errors"

var (
	ErrSessionClosed     = errors.New("editor session is closed")
	ErrSessionNotFound   = errors.New("editor session not found")
	ErrSubmitPending     = errors.New("a submit is already in progress")
	ErrTemplateNotFound  = errors.New("template not found")
	ErrNoContent         = errors.New("no content specified")
	ErrInvalidMode       = errors.New("invalid editor mode")
	ErrGenerationPending = errors.New("a generation is already in progress")
	ErrDialogClosed      = errors.New("generation dialog was closed")
)
