package editor

import (
	"context"
	"net/http"
	"testing"

	"github.com/loganlanou/phishdesk/internal/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multipartEmail = "From: IT <it@example.com>\r\n" +
	"Subject: Password expiry\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
	"\r\n" +
	"--b1\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Your password expires today.\r\n" +
	"--b1\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<html><body><a href=\"https://corp.example.com/reset\">Reset</a></body></html>\r\n" +
	"--b1--\r\n"

func TestImportEmptyContent(t *testing.T) {
	fake, ctrl, _ := newTestController(t)

	s, err := ctrl.Open(ModeNew, 0)
	require.NoError(t, err)

	err = ctrl.Import(context.Background(), s, "   \n", false)
	assert.ErrorIs(t, err, ErrNoContent)

	st := s.State()
	assert.True(t, st.Import.Open)
	require.NotNil(t, st.Import.Flash)
	assert.Equal(t, "No Content Specified!", st.Import.Flash.Message)
	assert.Equal(t, 0, fake.Calls(storetest.OpImport))
}

func TestImportFillsForm(t *testing.T) {
	_, ctrl, _ := newTestController(t)

	s, err := ctrl.Open(ModeNew, 0)
	require.NoError(t, err)
	form := s.Form()
	form.Name = "Kept"
	s.SetForm(form)
	s.OpenImport()

	require.NoError(t, ctrl.Import(context.Background(), s, multipartEmail, true))

	st := s.State()
	assert.Equal(t, "Kept", st.Form.Name)
	assert.Equal(t, "Password expiry", st.Form.Subject)
	assert.Contains(t, st.Form.Text, "Your password expires today.")
	assert.Contains(t, st.Form.HTML, `href="{{.URL}}"`)
	assert.Equal(t, ViewVisual, st.View)
	assert.False(t, st.Import.Open)
	assert.Empty(t, st.Import.Content)
}

func TestImportWithoutLinkConversion(t *testing.T) {
	_, ctrl, _ := newTestController(t)

	s, err := ctrl.Open(ModeNew, 0)
	require.NoError(t, err)

	require.NoError(t, ctrl.Import(context.Background(), s, multipartEmail, false))
	assert.Contains(t, s.Form().HTML, "https://corp.example.com/reset")
}

func TestImportPlainTextStaysInSourceView(t *testing.T) {
	_, ctrl, _ := newTestController(t)

	s, err := ctrl.Open(ModeNew, 0)
	require.NoError(t, err)

	raw := "Subject: Lunch\r\nContent-Type: text/plain\r\n\r\nPizza on Friday\r\n"
	require.NoError(t, ctrl.Import(context.Background(), s, raw, false))

	st := s.State()
	assert.Equal(t, "Lunch", st.Form.Subject)
	assert.Empty(t, st.Form.HTML)
	assert.Equal(t, ViewSource, st.View)
}

func TestImportFailureKeepsDialogOpen(t *testing.T) {
	fake, ctrl, notes := newTestController(t)
	fake.FailNext(storetest.OpImport, http.StatusBadRequest, "Error parsing email")

	s, err := ctrl.Open(ModeNew, 0)
	require.NoError(t, err)

	err = ctrl.Import(context.Background(), s, "garbage", true)
	require.Error(t, err)

	st := s.State()
	assert.True(t, st.Import.Open)
	assert.Equal(t, "garbage", st.Import.Content)
	assert.True(t, st.Import.ConvertLinks)
	require.NotNil(t, st.Import.Flash)
	assert.Equal(t, "Error parsing email", st.Import.Flash.Message)
	assert.Empty(t, notes.Drain())
}

func TestImportClosedSession(t *testing.T) {
	_, ctrl, _ := newTestController(t)

	s, err := ctrl.Open(ModeNew, 0)
	require.NoError(t, err)
	ctrl.Dismiss(s)

	assert.ErrorIs(t, ctrl.Import(context.Background(), s, multipartEmail, false), ErrSessionClosed)
}
