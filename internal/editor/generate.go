package editor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/loganlanou/phishdesk/internal/compose"
	"github.com/loganlanou/phishdesk/internal/scenario"
	"github.com/loganlanou/phishdesk/internal/store"
	"github.com/loganlanou/phishdesk/internal/templates"
	"golang.org/x/sync/errgroup"
)

// DefaultMinLoading is the shortest time the generation overlay stays up
const DefaultMinLoading = 2 * time.Second

const (
	generateLabel   = "Generate"
	generatingLabel = "Generating..."
	landingRedirect = "https://example.com"
)

// GenerationStore is the part of the remote store AI generation needs
type GenerationStore interface {
	GenerateTemplate(ctx context.Context, req store.GenerateRequest) (*store.GenerateResult, error)
	CreatePage(ctx context.Context, page templates.LandingPage) (*templates.LandingPage, error)
}

// DialogState is the "generate with AI" dialog as the UI should render it
type DialogState struct {
	Open           bool   `json:"open"`
	Pending        bool   `json:"pending"`
	InputsDisabled bool   `json:"inputs_disabled"`
	Overlay        string `json:"overlay,omitempty"`
	ButtonLabel    string `json:"button_label"`
	Flash          *Flash `json:"flash,omitempty"`
}

// PageResult is the outcome of the landing page created next to a generated template
type PageResult struct {
	Page *templates.LandingPage
	Err  error
}

// Generation is a successful AI generation: the editor session it opened
// and, when a landing page was requested and returned, a channel that
// yields the landing page result once.
type Generation struct {
	Session *Session
	Page    <-chan PageResult
}

// Generator orchestrates AI template generation
type Generator struct {
	store      GenerationStore
	editor     *Controller
	notifier   Notifier
	minLoading time.Duration

	mu     sync.Mutex
	dialog DialogState
	epoch  uint64 // bumped on every close
}

func NewGenerator(st GenerationStore, editor *Controller, notifier Notifier, minLoading time.Duration) *Generator {
	if minLoading < 0 {
		minLoading = 0
	}
	return &Generator{
		store:      st,
		editor:     editor,
		notifier:   notifier,
		minLoading: minLoading,
		dialog:     DialogState{ButtonLabel: generateLabel},
	}
}

// OpenDialog shows the dialog with any previous message cleared
func (g *Generator) OpenDialog() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.dialog.Open = true
	g.dialog.Flash = nil
}

// CloseDialog hides the dialog. A generation still in flight keeps running,
// but its result is discarded.
func (g *Generator) CloseDialog() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.dialog = DialogState{ButtonLabel: generateLabel}
	g.epoch++
}

func (g *Generator) Dialog() DialogState {
	g.mu.Lock()
	defer g.mu.Unlock()

	d := g.dialog
	if d.Flash != nil {
		f := *d.Flash
		d.Flash = &f
	}
	return d
}

// Generate asks the store for generated content and opens a new editor
// session filled with it.
//
// The call never returns success sooner than the generator's minimum loading
// time after it started; a slower response is used as soon as it arrives.
// Failures are reported immediately. The dialog inputs are re-enabled on
// every path before the outcome is shown.
func (g *Generator) Generate(ctx context.Context, scenarioID, targetCompany string, includeLandingPage bool) (*Generation, error) {
	req := store.GenerateRequest{
		Scenario:           scenarioID,
		TargetCompany:      scenario.Company(targetCompany),
		IncludeLandingPage: includeLandingPage,
	}

	epoch, err := g.begin(includeLandingPage)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := g.await(ctx, req)
	slog.Debug("generation settled", "scenario", req.Scenario, "elapsed", time.Since(start), "error", err)

	if !g.settle(epoch) {
		slog.Info("generation finished after dialog was closed, discarding result", "scenario", req.Scenario)
		return nil, ErrDialogClosed
	}

	if err != nil {
		msg := store.ErrorMessage(err, "Failed to generate template")
		g.mu.Lock()
		g.dialog.Flash = &Flash{Level: LevelError, Message: msg}
		g.mu.Unlock()
		slog.Warn("AI generation failed", "error", err, "scenario", req.Scenario)
		return nil, fmt.Errorf("generate template: %w", err)
	}

	return g.open(ctx, req, result)
}

func (g *Generator) begin(includeLandingPage bool) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.dialog.Pending {
		return 0, ErrGenerationPending
	}

	overlay := "Generating AI Template..."
	if includeLandingPage {
		overlay = "Generating AI Template & Landing Page..."
	}

	g.dialog.Open = true
	g.dialog.Pending = true
	g.dialog.InputsDisabled = true
	g.dialog.Overlay = overlay
	g.dialog.ButtonLabel = generatingLabel
	g.dialog.Flash = nil
	return g.epoch, nil
}

// settle clears the loading state and reports whether the dialog that
// started the generation is still open. A dialog closed in the meantime is
// left untouched.
func (g *Generator) settle(epoch uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if epoch != g.epoch {
		return false
	}
	open := g.dialog.Open
	g.dialog.Pending = false
	g.dialog.InputsDisabled = false
	g.dialog.Overlay = ""
	g.dialog.ButtonLabel = generateLabel
	return open
}

// await runs the request alongside the minimum loading timer and returns
// once both are done, or as soon as the request fails.
func (g *Generator) await(ctx context.Context, req store.GenerateRequest) (*store.GenerateResult, error) {
	eg, egCtx := errgroup.WithContext(ctx)

	var result *store.GenerateResult
	eg.Go(func() error {
		r, err := g.store.GenerateTemplate(egCtx, req)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	eg.Go(func() error {
		timer := time.NewTimer(g.minLoading)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-egCtx.Done():
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (g *Generator) open(ctx context.Context, req store.GenerateRequest, result *store.GenerateResult) (*Generation, error) {
	name := scenario.TemplateName(req.Scenario, req.TargetCompany)

	gen := &Generation{}
	withPage := req.IncludeLandingPage && result.LandingPage != ""
	if withPage {
		gen.Page = g.createPage(context.WithoutCancel(ctx), name, result.LandingPage)
	}

	g.CloseDialog()

	s, err := g.editor.Open(ModeNew, 0)
	if err != nil {
		return nil, err
	}

	s.SetForm(compose.Form{
		Name:           name,
		Subject:        result.Subject,
		EnvelopeSender: scenario.Sender(req.Scenario).String(),
		HTML:           result.HTML,
		Text:           result.Text,
	})
	if result.HTML != "" {
		s.SetView(ViewVisual)
	}

	msg := "AI template generated successfully!"
	if withPage {
		msg = "AI template and landing page generated successfully!"
	}
	s.setFlash(LevelSuccess, msg)

	slog.Info("AI template generated", "scenario", req.Scenario, "name", name, "session_id", s.ID(), "landing_page", withPage)
	gen.Session = s
	return gen, nil
}

// createPage saves the generated landing page in the background. Its outcome
// goes to the notifier and the returned channel, never to the main flow.
func (g *Generator) createPage(ctx context.Context, templateName, html string) <-chan PageResult {
	out := make(chan PageResult, 1)
	pageName := scenario.LandingPageName(templateName)

	go func() {
		defer close(out)

		page, err := g.store.CreatePage(ctx, templates.LandingPage{
			Name:               pageName,
			HTML:               html,
			CaptureCredentials: true,
			CapturePasswords:   true,
			RedirectURL:        landingRedirect,
		})
		if err != nil {
			slog.Warn("failed to create landing page", "error", err, "name", pageName)
			g.notifier.Error("Failed to create landing page: " + store.ErrorMessage(err, "Unknown error"))
			out <- PageResult{Err: err}
			return
		}

		g.notifier.Success("Landing page '" + pageName + "' created successfully!")
		out <- PageResult{Page: page}
	}()

	return out
}
