package attachments

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/semaphore"
)

// DefaultReaders limits how many uploaded files are read at the same time
const DefaultReaders = 4

// File is an uploaded file handle with its declared MIME type
type File struct {
	Name string
	Type string
	Open func() (io.ReadCloser, error)
}

// FromMultipart wraps a multipart upload as a File
func FromMultipart(fh *multipart.FileHeader) File {
	return File{
		Name: fh.Filename,
		Type: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// FromDataURI wraps a file sent inline as a base64 data URL
func FromDataURI(name, mimeType, uri string) File {
	return File{
		Name: name,
		Type: mimeType,
		Open: func() (io.ReadCloser, error) {
			payload := DecodeDataURI(uri)
			return io.NopCloser(base64.NewDecoder(base64.StdEncoding, strings.NewReader(payload))), nil
		},
	}
}

// Encoder turns uploaded files into base64 staging rows
type Encoder struct {
	readers int64
}

func NewEncoder(readers int) *Encoder {
	if readers <= 0 {
		readers = DefaultReaders
	}
	return &Encoder{readers: int64(readers)}
}

// Encode reads every file and appends one row per readable file to table.
// Files that cannot be read are logged and skipped; identical files still get
// separate rows. It returns how many rows were added.
func (e *Encoder) Encode(ctx context.Context, files []File, table *Table) (int, error) {
	sem := semaphore.NewWeighted(e.readers)
	var wg sync.WaitGroup

	var added int
	var mu sync.Mutex

	for _, f := range files {
		wg.Add(1)

		go func(f File) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				slog.Debug("context cancelled while waiting to read attachment", "error", err)
				return
			}
			defer sem.Release(1)

			row, err := encodeFile(f)
			if err != nil {
				slog.Warn("failed to read attachment", "error", err, "name", f.Name)
				return
			}
			table.Add(row)

			mu.Lock()
			added++
			mu.Unlock()
		}(f)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return added, err
	}
	return added, nil
}

func encodeFile(f File) (Row, error) {
	if f.Open == nil {
		return Row{}, fmt.Errorf("no reader for %q", f.Name)
	}

	rc, err := f.Open()
	if err != nil {
		return Row{}, fmt.Errorf("open: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return Row{}, fmt.Errorf("read: %w", err)
	}

	return NewRow(f.Name, base64.StdEncoding.EncodeToString(data), resolveType(f.Type, data)), nil
}

// resolveType prefers the declared type and falls back to sniffing the content
func resolveType(declared string, data []byte) string {
	if declared != "" {
		return declared
	}
	if len(data) == 0 {
		return defaultType
	}
	detected, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return strings.TrimSpace(detected)
}

// DecodeDataURI returns the base64 payload of a data URL, dropping everything
// up to and including the first comma. Strings without a data: prefix are
// returned as is.
func DecodeDataURI(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	_, payload, found := strings.Cut(s, ",")
	if !found {
		return ""
	}
	return payload
}
