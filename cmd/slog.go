package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

func init() {
	logger, err := newLogger(os.Getenv("LOG_LEVEL"), os.Stdout, os.Stderr)
	if err != nil {
		panic(err)
	}
	slog.SetDefault(logger)
}

// newLogger builds the process logger. Debug level gets a colored tint
// handler with short source paths on console; every other level logs JSON.
func newLogger(level string, console, structured io.Writer) (*slog.Logger, error) {
	logLevel := slog.LevelInfo
	if level != "" {
		if err := logLevel.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level: %s", level)
		}
	}

	if logLevel > slog.LevelDebug {
		return slog.New(slog.NewJSONHandler(structured, &slog.HandlerOptions{Level: logLevel})), nil
	}

	prefix := modulePrefix()
	return slog.New(tint.NewHandler(console, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.TimeOnly,
		AddSource:  true,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = trimSource(source.File, prefix)
				}
			}
			if err, ok := a.Value.Any().(error); ok {
				aErr := tint.Err(err)
				aErr.Key = a.Key
				return aErr
			}
			return a
		},
	})), nil
}

// modulePrefix returns "/<last module path element>/" for trimming source paths
func modulePrefix() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Path == "" {
		return "/phishdesk/"
	}
	parts := strings.Split(info.Main.Path, "/")
	return "/" + parts[len(parts)-1] + "/"
}

func trimSource(file, prefix string) string {
	if _, rest, ok := strings.Cut(file, prefix); ok {
		return rest
	}
	if idx := strings.LastIndex(file, "/src/"); idx != -1 {
		return file[idx+len("/src/"):]
	}
	return file
}
