package attachments

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/loganlanou/phishdesk/internal/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIcon(t *testing.T) {
	tests := []struct {
		mimeType string
		want     string
	}{
		{"application/vnd.ms-excel", "fa-file-excel-o"},
		{"text/plain", "fa-file-text-o"},
		{"image/gif", "fa-file-image-o"},
		{"image/png", "fa-file-image-o"},
		{"application/pdf", "fa-file-pdf-o"},
		{"application/x-zip-compressed", "fa-file-archive-o"},
		{"application/x-gzip", "fa-file-archive-o"},
		{"application/vnd.openxmlformats-officedocument.presentationml.presentation", "fa-file-powerpoint-o"},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "fa-file-word-o"},
		{"application/octet-stream", "fa-file-o"},
		{"application/x-msdownload", "fa-file-o"},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			assert.Equal(t, tt.want, Icon(tt.mimeType))
		})
	}
}

func TestIconUnknownTypesAreGeneric(t *testing.T) {
	for _, mimeType := range []string{"", "image/jpeg", "TEXT/PLAIN", "text/plain; charset=utf-8", "application/zip", "video/mp4"} {
		assert.Equal(t, "fa-file-o", Icon(mimeType), "type %q", mimeType)
	}
}

func TestNewRowEscapesAndRoundTrips(t *testing.T) {
	row := NewRow(`Q3 <report> & "notes".pdf`, "QQ==", "application/pdf")

	assert.Equal(t, "Q3 &lt;report&gt; &amp; &#34;notes&#34;.pdf", row.Name)
	assert.Equal(t, `<i class="fa fa-file-pdf-o"></i>`, row.Icon)
	assert.NotEmpty(t, row.ID)
	assert.Equal(t, templates.Attachment{Name: `Q3 <report> & "notes".pdf`, Content: "QQ==", Type: "application/pdf"}, row.Attachment())
}

func TestNewRowDefaultsType(t *testing.T) {
	row := NewRow("blob", "AA==", "")
	assert.Equal(t, "application/octet-stream", row.Type)
	assert.Equal(t, `<i class="fa fa-file-o"></i>`, row.Icon)
}

func TestTableSortsByName(t *testing.T) {
	table := NewTable()
	table.Add(NewRow("zeta.txt", "", "text/plain"))
	table.Add(NewRow("alpha.txt", "", "text/plain"))
	table.Add(NewRow("mid.txt", "", "text/plain"))

	rows := table.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "alpha.txt", rows[0].Name)
	assert.Equal(t, "mid.txt", rows[1].Name)
	assert.Equal(t, "zeta.txt", rows[2].Name)
}

func TestTableRemoveAndClear(t *testing.T) {
	table := FromAttachments([]templates.Attachment{
		{Name: "a.gif", Content: "QQ==", Type: "image/gif"},
		{Name: "b.gif", Content: "Qg==", Type: "image/gif"},
	})
	require.Equal(t, 2, table.Len())

	first := table.Rows()[0]
	assert.True(t, table.Remove(first.ID))
	assert.False(t, table.Remove(first.ID), "second removal of the same row should be a no-op")
	assert.Equal(t, []templates.Attachment{{Name: "b.gif", Content: "Qg==", Type: "image/gif"}}, table.Attachments())

	table.Clear()
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Attachments())
}

func TestEncode(t *testing.T) {
	table := NewTable()
	files := []File{
		stringFile("b.txt", "text/plain", "hello"),
		stringFile("a.gif", "image/gif", "A"),
	}

	added, err := NewEncoder(2).Encode(context.Background(), files, table)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	assert.Equal(t, []templates.Attachment{
		{Name: "a.gif", Content: "QQ==", Type: "image/gif"},
		{Name: "b.txt", Content: "aGVsbG8=", Type: "text/plain"},
	}, table.Attachments())
}

func TestEncodeKeepsDuplicates(t *testing.T) {
	table := NewTable()
	files := []File{
		stringFile("same.txt", "text/plain", "x"),
		stringFile("same.txt", "text/plain", "x"),
	}

	added, err := NewEncoder(0).Encode(context.Background(), files, table)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, table.Len())
}

func TestEncodeSkipsUnreadableFiles(t *testing.T) {
	table := NewTable()
	files := []File{
		stringFile("good.txt", "text/plain", "ok"),
		{Name: "broken.bin", Type: "application/octet-stream", Open: func() (io.ReadCloser, error) {
			return io.NopCloser(failingReader{}), nil
		}},
		{Name: "missing.bin", Open: func() (io.ReadCloser, error) {
			return nil, errors.New("gone")
		}},
		{Name: "nil.bin"},
	}

	added, err := NewEncoder(4).Encode(context.Background(), files, table)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	rows := table.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "good.txt", rows[0].Name)
}

func TestEncodeSniffsMissingType(t *testing.T) {
	table := NewTable()
	files := []File{
		stringFile("pixel", "", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"),
		stringFile("notes", "", "just some words\n"),
		stringFile("empty", "", ""),
	}

	_, err := NewEncoder(1).Encode(context.Background(), files, table)
	require.NoError(t, err)

	types := map[string]string{}
	for _, r := range table.Rows() {
		types[r.Name] = r.Type
	}
	assert.Equal(t, "image/png", types["pixel"])
	assert.Equal(t, "text/plain", types["notes"])
	assert.Equal(t, "application/octet-stream", types["empty"])
}

func TestEncodeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEncoder(1).Encode(ctx, []File{stringFile("a.txt", "text/plain", "a")}, NewTable())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeDataURI(t *testing.T) {
	assert.Equal(t, "QQ==", DecodeDataURI("data:image/gif;base64,QQ=="))
	assert.Equal(t, "QQ==", DecodeDataURI("QQ=="))
	assert.Equal(t, "", DecodeDataURI("data:broken"))
}

func TestEncodeDataURI(t *testing.T) {
	table := NewTable()
	files := []File{
		FromDataURI("hello.txt", "", "data:text/plain;base64,aGVsbG8="),
		FromDataURI("bad.bin", "application/octet-stream", "data:;base64,!!!"),
	}

	added, err := NewEncoder(2).Encode(context.Background(), files, table)
	require.NoError(t, err)
	require.Equal(t, 1, added)

	rows := table.Rows()
	assert.Equal(t, "aGVsbG8=", rows[0].Content)
	assert.Equal(t, "text/plain", rows[0].Type)
}

func stringFile(name, mimeType, body string) File {
	return File{
		Name: name,
		Type: mimeType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}
