package service

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/loganlanou/phishdesk/internal/attachments"
	"github.com/loganlanou/phishdesk/internal/editor"
	"github.com/loganlanou/phishdesk/internal/handlers"
	"github.com/loganlanou/phishdesk/internal/store"
	"github.com/loganlanou/phishdesk/storage"
)

type Service struct {
	storage       *storage.Storage
	config        *Config
	store         *store.Client
	notifications *editor.Notifications
	editorHandler *handlers.EditorHandler
}

func New(storage *storage.Storage, config *Config) *Service {
	client := store.NewClient(config.Store.URL, config.Store.APIKey, config.Store.Timeout)
	notifications := editor.NewNotifications()

	controller := editor.NewController(client, notifications, attachments.NewEncoder(config.Editor.AttachmentReaders))
	generator := editor.NewGenerator(client, controller, notifications, config.Editor.MinLoading)

	// storage is nil-able so the BFF can run without local drafts
	var drafts editor.DraftStore
	if storage != nil {
		drafts = storage
	}

	return &Service{
		storage:       storage,
		config:        config,
		store:         client,
		notifications: notifications,
		editorHandler: handlers.NewEditorHandler(controller, editor.NewRegistry(drafts), generator, notifications),
	}
}

func (s *Service) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.handleHealth)

	api := e.Group("/api")

	// Template list
	api.GET("/templates", s.editorHandler.HandleListTemplates)
	api.DELETE("/templates/:id", s.editorHandler.HandleDeleteTemplate)

	// Editor sessions
	api.POST("/editor", s.editorHandler.HandleOpenSession)
	api.GET("/editor/:id", s.editorHandler.HandleGetSession)
	api.PATCH("/editor/:id", s.editorHandler.HandleUpdateSession)
	api.DELETE("/editor/:id", s.editorHandler.HandleDismissSession)
	api.POST("/editor/:id/attachments", s.editorHandler.HandleUploadAttachments)
	api.DELETE("/editor/:id/attachments/:row", s.editorHandler.HandleRemoveAttachment)
	api.POST("/editor/:id/save", s.editorHandler.HandleSave)
	api.POST("/editor/:id/import", s.editorHandler.HandleImport)

	// AI generation
	api.GET("/generate/dialog", s.editorHandler.HandleGetDialog)
	api.POST("/generate/dialog", s.editorHandler.HandleOpenDialog)
	api.DELETE("/generate/dialog", s.editorHandler.HandleCloseDialog)
	api.POST("/generate", s.editorHandler.HandleGenerate)
	api.GET("/scenarios", s.editorHandler.HandleScenarios)

	api.GET("/notifications", s.editorHandler.HandleNotifications)
}

func (s *Service) handleHealth(c echo.Context) error {
	status := map[string]any{
		"status":      "healthy",
		"environment": s.config.Environment,
		"store":       s.store.BaseURL(),
	}
	if s.storage != nil {
		if err := s.storage.DB().PingContext(c.Request().Context()); err != nil {
			status["status"] = "degraded"
			status["drafts"] = err.Error()
			return c.JSON(http.StatusServiceUnavailable, status)
		}
	}
	return c.JSON(http.StatusOK, status)
}
