package service

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/loganlanou/phishdesk/internal/storetest"
	"github.com/loganlanou/phishdesk/storage"
)

// setupTestService creates a service backed by an in-memory draft database
// and a fake remote store
func setupTestService(t *testing.T) (*Service, *storetest.Store) {
	t.Helper()

	db, cleanup, err := storage.NewTestDB()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(cleanup)

	fake := storetest.New("test-key")
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	config := &Config{
		Environment: "test",
		Port:        "8080",
	}
	config.Store.URL = srv.URL
	config.Store.APIKey = "test-key"
	config.Editor.AttachmentReaders = 2

	return New(db, config), fake
}

// setupTestEcho creates an Echo instance with routes registered
func setupTestEcho(t *testing.T) (*echo.Echo, *storetest.Store) {
	t.Helper()

	e := echo.New()
	svc, fake := setupTestService(t)
	svc.RegisterRoutes(e)

	return e, fake
}
