package storetest

import (
	"fmt"
	"html"
	"net/http"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/labstack/echo/v4"
	"github.com/loganlanou/phishdesk/internal/scenario"
	"github.com/loganlanou/phishdesk/internal/store"
)

func (s *Store) handleGenerate(c echo.Context) error {
	var req store.GenerateRequest
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid JSON structure")
	}
	if req.Scenario == "" {
		return message(c, http.StatusBadRequest, "Scenario is required")
	}
	req.TargetCompany = scenario.Company(req.TargetCompany)

	s.mu.Lock()
	fn := s.generated
	s.mu.Unlock()

	return c.JSON(http.StatusOK, fn(req))
}

// fakeGeneration produces believable filler content for a scenario
func fakeGeneration(req store.GenerateRequest) store.GenerateResult {
	label := scenario.Label(req.Scenario)
	signer := gofakeit.Name()
	pitch := gofakeit.HackerPhrase()

	text := fmt.Sprintf("Dear %s employee,\n\n%s\n\nPlease review the request here: {{.URL}}\n\nRegards,\n%s",
		req.TargetCompany, pitch, signer)
	body := fmt.Sprintf(`<html><head></head><body><p>Dear %s employee,</p><p>%s</p><p><a href="{{.URL}}">Review request</a></p><p>Regards,<br>%s</p></body></html>`,
		html.EscapeString(req.TargetCompany), html.EscapeString(pitch), html.EscapeString(signer))

	result := store.GenerateResult{
		Subject: fmt.Sprintf("%s: action required for %s", label, req.TargetCompany),
		Text:    text,
		HTML:    body,
	}
	if req.IncludeLandingPage {
		result.LandingPage = fmt.Sprintf(`<html><body><h2>%s sign in</h2><form method="post"><input name="username"><input name="password" type="password"><button>Continue</button></form></body></html>`,
			html.EscapeString(req.TargetCompany))
	}
	return result
}
