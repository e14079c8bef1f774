package logging

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	c "lautenbacher.net/goaccel/config"
)

// teeWriter sends log output either to a live target or, while a TUI owns
// the terminal, into a buffer that is flushed later. A log file, when
// configured, receives every record in both modes.
type teeWriter struct {
	mu          sync.Mutex
	buffer      bytes.Buffer
	target      io.Writer
	file        *os.File
	isBuffering bool
}

func (w *teeWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var firstErr error
	if w.isBuffering {
		w.buffer.Write(p)
	} else if w.target != nil {
		if _, err := w.target.Write(p); err != nil {
			firstErr = err
		}
	}
	if w.file != nil {
		if _, err := w.file.Write(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return len(p), firstErr
}

var writer = &teeWriter{target: os.Stderr}

// ParseLevel maps a config level name to a slog.Level, INFO if unknown.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init installs the default slog logger described by conf. With
// bufferOutput set, records are held back until SetOutput is called.
func Init(conf c.LoggingConfig, bufferOutput bool) error {
	writer = &teeWriter{
		target:      os.Stderr,
		isBuffering: bufferOutput,
	}

	if conf.File != "" {
		file, err := os.OpenFile(conf.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return err
		}
		writer.file = file
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(conf.Level)}

	var handler slog.Handler
	if strings.ToLower(conf.Format) == "json" {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// SetOutput flushes anything buffered to newTarget and logs to it live from
// now on.
func SetOutput(newTarget io.Writer) error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.buffer.Len() > 0 {
		if _, err := newTarget.Write(writer.buffer.Bytes()); err != nil {
			return err
		}
		writer.buffer.Reset()
	}
	writer.target = newTarget
	writer.isBuffering = false
	return nil
}

// BufferOutput stops live logging and starts buffering.
func BufferOutput() {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	writer.target = nil
	writer.isBuffering = true
}

// Close flushes the buffer to stderr, or to the log file if there is one,
// and closes the file.
func Close() error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	var firstErr error
	if writer.file != nil {
		if err := writer.file.Close(); err != nil {
			firstErr = err
		}
		writer.file = nil
	} else if writer.buffer.Len() > 0 {
		if _, err := os.Stderr.Write(writer.buffer.Bytes()); err != nil {
			firstErr = err
		}
	}
	writer.buffer.Reset()
	return firstErr
}
