// Package storetest provides an in-memory fake of the remote template store
// for tests and local development.
package storetest

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/loganlanou/phishdesk/internal/store"
	"github.com/loganlanou/phishdesk/internal/templates"
)

// Op names a store endpoint for failure and latency injection
type Op string

const (
	OpList       Op = "list"
	OpCreate     Op = "create"
	OpUpdate     Op = "update"
	OpDelete     Op = "delete"
	OpImport     Op = "import"
	OpGenerate   Op = "generate"
	OpCreatePage Op = "create_page"
)

type failure struct {
	status  int
	message string
}

// Store is the fake remote store state
type Store struct {
	apiKey string

	mu        sync.Mutex
	nextID    int64
	templates map[int64]templates.Template
	pages     []templates.LandingPage
	failures  map[Op][]failure
	delays    map[Op]time.Duration
	calls     map[Op]int
	generated func(req store.GenerateRequest) store.GenerateResult
}

// New creates an empty fake store. An empty apiKey disables the auth check.
func New(apiKey string) *Store {
	return &Store{
		apiKey:    apiKey,
		nextID:    1,
		templates: make(map[int64]templates.Template),
		failures:  make(map[Op][]failure),
		delays:    make(map[Op]time.Duration),
		calls:     make(map[Op]int),
		generated: fakeGeneration,
	}
}

// NewServer starts the fake store on a test HTTP server and returns a client for it
func NewServer(t testing.TB) (*Store, *store.Client) {
	t.Helper()

	s := New("test-key")
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	return s, store.NewClient(srv.URL, "test-key", 0)
}

// Handler returns the HTTP handler serving the store API
func (s *Store) Handler() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	api := e.Group("/api", s.auth)
	api.GET("/templates/", s.wrap(OpList, s.handleList))
	api.POST("/templates/", s.wrap(OpCreate, s.handleCreate))
	api.POST("/templates/generate_ai", s.wrap(OpGenerate, s.handleGenerate))
	api.PUT("/templates/:id", s.wrap(OpUpdate, s.handleUpdate))
	api.DELETE("/templates/:id", s.wrap(OpDelete, s.handleDelete))
	api.POST("/import/email", s.wrap(OpImport, s.handleImport))
	api.POST("/pages/", s.wrap(OpCreatePage, s.handleCreatePage))

	return e
}

// FailNext makes the next call to op fail with the given status and message
func (s *Store) FailNext(op Op, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = append(s.failures[op], failure{status: status, message: message})
}

// Delay holds every response to op for d, or until the request is cancelled
func (s *Store) Delay(op Op, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[op] = d
}

// OnGenerate replaces the canned AI generation result
func (s *Store) OnGenerate(fn func(req store.GenerateRequest) store.GenerateResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generated = fn
}

// Calls reports how many requests reached op, including injected failures
func (s *Store) Calls(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Seed inserts templates directly and returns them with their assigned ids
func (s *Store) Seed(list ...templates.Template) []templates.Template {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]templates.Template, 0, len(list))
	for _, t := range list {
		out = append(out, s.insertLocked(t))
	}
	return out
}

// Templates returns the stored templates ordered by id
func (s *Store) Templates() []templates.Template {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]templates.Template, 0, len(s.templates))
	for _, t := range s.templates {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Pages returns the landing pages created so far
func (s *Store) Pages() []templates.LandingPage {
	s.mu.Lock()
	defer s.mu.Unlock()

	pages := make([]templates.LandingPage, len(s.pages))
	copy(pages, s.pages)
	return pages
}

func (s *Store) insertLocked(t templates.Template) templates.Template {
	t.ID = s.nextID
	s.nextID++
	if t.Attachments == nil {
		t.Attachments = []templates.Attachment{}
	}
	t.ModifiedDate = time.Now().UTC()
	s.templates[t.ID] = t
	return t
}

func (s *Store) auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.apiKey == "" {
			return next(c)
		}
		if c.Request().Header.Get("Authorization") != "Bearer "+s.apiKey {
			return message(c, http.StatusUnauthorized, "Invalid API Key")
		}
		return next(c)
	}
}

// wrap counts the call, applies injected latency, then either fails or runs h
func (s *Store) wrap(op Op, h echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.calls[op]++
		delay := s.delays[op]
		var fail *failure
		if queue := s.failures[op]; len(queue) > 0 {
			fail = &queue[0]
			s.failures[op] = queue[1:]
		}
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-c.Request().Context().Done():
				return c.Request().Context().Err()
			}
		}

		if fail != nil {
			return message(c, fail.status, fail.message)
		}
		return h(c)
	}
}

func message(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]any{"message": msg, "success": status < 300})
}

func (s *Store) handleList(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Templates())
}

func (s *Store) handleCreate(c echo.Context) error {
	var t templates.Template
	if err := c.Bind(&t); err != nil {
		return message(c, http.StatusBadRequest, "Invalid JSON structure")
	}
	if msg := validate(t); msg != "" {
		return message(c, http.StatusBadRequest, msg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTakenLocked(t.Name, 0) {
		return message(c, http.StatusConflict, "Template name already in use")
	}
	return c.JSON(http.StatusCreated, s.insertLocked(t))
}

func (s *Store) handleUpdate(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return message(c, http.StatusBadRequest, "Invalid template id")
	}

	var t templates.Template
	if err := c.Bind(&t); err != nil {
		return message(c, http.StatusBadRequest, "Invalid JSON structure")
	}
	if t.ID != id {
		return message(c, http.StatusBadRequest, "Error: /:id and template_id mismatch")
	}
	if msg := validate(t); msg != "" {
		return message(c, http.StatusBadRequest, msg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[id]; !ok {
		return message(c, http.StatusNotFound, "Template not found")
	}
	if s.nameTakenLocked(t.Name, id) {
		return message(c, http.StatusConflict, "Template name already in use")
	}
	if t.Attachments == nil {
		t.Attachments = []templates.Attachment{}
	}
	t.ModifiedDate = time.Now().UTC()
	s.templates[id] = t
	return c.JSON(http.StatusOK, t)
}

func (s *Store) handleDelete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return message(c, http.StatusBadRequest, "Invalid template id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.templates[id]; !ok {
		return message(c, http.StatusNotFound, "Template not found")
	}
	delete(s.templates, id)
	return message(c, http.StatusOK, "Template deleted successfully!")
}

func (s *Store) handleCreatePage(c echo.Context) error {
	var p templates.LandingPage
	if err := c.Bind(&p); err != nil {
		return message(c, http.StatusBadRequest, "Invalid JSON structure")
	}
	if p.Name == "" {
		return message(c, http.StatusBadRequest, "Page name not specified")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = int64(len(s.pages) + 1)
	p.ModifiedDate = time.Now().UTC()
	s.pages = append(s.pages, p)
	return c.JSON(http.StatusCreated, p)
}

func (s *Store) nameTakenLocked(name string, except int64) bool {
	for id, t := range s.templates {
		if id != except && strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}

func validate(t templates.Template) string {
	switch {
	case t.Name == "":
		return "Template name not specified"
	case t.Text == "" && t.HTML == "":
		return "Need to specify at least plaintext or HTML content"
	}
	return ""
}
