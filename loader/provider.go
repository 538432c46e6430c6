// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Resource is an opened source. Its metadata is available before the
// payload is read, so callers can validate and Close without fetching.
type Resource interface {
	Name() string
	MIMEType() string
	// Size is the payload length in bytes, or -1 when unknown.
	Size() int64
	ReadAll() ([]byte, error)
	Close() error
}

// Provider opens sources.
type Provider interface {
	Open(ctx context.Context, ref Ref) (Resource, error)
}

// HTTPConfig tunes remote fetches.
type HTTPConfig struct {
	Timeout time.Duration
	// MaxBytes caps the payload size; zero means no cap.
	MaxBytes  int64
	UserAgent string
}

var DefaultHTTPConfig = HTTPConfig{
	Timeout:   30 * time.Second,
	MaxBytes:  512 << 20,
	UserAgent: "smartplay",
}

// Loader is the default Provider. It handles File, Blob and URL refs.
type Loader struct {
	client *http.Client
	cfg    HTTPConfig
	logger logrus.FieldLogger
}

// New returns a Loader. A nil client gets one with cfg.Timeout; a nil
// logger falls back to the standard logrus logger.
func New(cfg HTTPConfig, client *http.Client, logger logrus.FieldLogger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Loader{client: client, cfg: cfg, logger: logger}
}

// Open resolves ref into a Resource.
func (l *Loader) Open(ctx context.Context, ref Ref) (Resource, error) {
	switch r := ref.(type) {
	case File:
		return l.openFile(r)
	case Blob:
		mt := r.MIMEType
		if mt == "" {
			mt = DetectType(r.Filename, head(r.Data))
		}
		return &memResource{name: r.Filename, mimeType: mt, data: r.Data}, nil
	case URL:
		return l.openURL(ctx, r)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownRef, ref)
	}
}

func (l *Loader) openFile(f File) (Resource, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, f.Path)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	info, err := fh.Stat()
	if err != nil {
		_ = fh.Close()
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	if info.IsDir() {
		_ = fh.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnreadable, f.Path)
	}

	mt := f.MIMEType
	if mt == "" {
		buf := make([]byte, 512)
		n, _ := io.ReadFull(fh, buf)
		mt = DetectType(f.Path, buf[:n])
		if _, err := fh.Seek(0, io.SeekStart); err != nil {
			_ = fh.Close()
			return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
		}
	}

	l.logger.WithFields(logrus.Fields{
		"function": "Loader.openFile",
		"path":     f.Path,
		"mime":     mt,
		"size":     info.Size(),
	}).Debug("Opened local file")

	return &fileResource{file: fh, name: f.Path, mimeType: mt, size: info.Size()}, nil
}

func (l *Loader) openURL(ctx context.Context, u URL) (Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, string(u), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreachable, err)
	}
	if l.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", l.cfg.UserAgent)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreachable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %s", ErrSourceUnreachable, u, resp.Status)
	}

	res := &httpResource{
		body:     resp.Body,
		name:     string(u),
		mimeType: resp.Header.Get("Content-Type"),
		size:     resp.ContentLength,
		maxBytes: l.cfg.MaxBytes,
	}

	logger := l.logger.WithFields(logrus.Fields{
		"function": "Loader.openURL",
		"url":      string(u),
		"status":   resp.StatusCode,
		"mime":     res.mimeType,
		"size":     res.size,
	})

	// Without a Content-Length the size is only known once the body is in.
	// A non-audio type fails validation anyway, so skip the download then.
	if res.size < 0 && Validate(res.mimeType, 1) == nil {
		logger.Debug("Content-Length unknown, reading body")
		if _, err := res.ReadAll(); err != nil {
			_ = res.Close()
			return nil, err
		}
	} else {
		logger.Debug("Response headers received")
	}

	return res, nil
}

func head(data []byte) []byte {
	return data[:min(len(data), 512)]
}

type memResource struct {
	name     string
	mimeType string
	data     []byte
}

func (m *memResource) Name() string             { return m.name }
func (m *memResource) MIMEType() string         { return m.mimeType }
func (m *memResource) Size() int64              { return int64(len(m.data)) }
func (m *memResource) ReadAll() ([]byte, error) { return m.data, nil }
func (m *memResource) Close() error             { return nil }

type fileResource struct {
	file     *os.File
	name     string
	mimeType string
	size     int64
}

func (f *fileResource) Name() string     { return f.name }
func (f *fileResource) MIMEType() string { return f.mimeType }
func (f *fileResource) Size() int64      { return f.size }
func (f *fileResource) Close() error     { return f.file.Close() }

func (f *fileResource) ReadAll() ([]byte, error) {
	data, err := io.ReadAll(f.file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return data, nil
}

type httpResource struct {
	body     io.ReadCloser
	name     string
	mimeType string
	size     int64
	maxBytes int64
	data     []byte
	read     bool
}

func (h *httpResource) Name() string     { return h.name }
func (h *httpResource) MIMEType() string { return h.mimeType }
func (h *httpResource) Size() int64      { return h.size }
func (h *httpResource) Close() error     { return h.body.Close() }

func (h *httpResource) ReadAll() ([]byte, error) {
	if h.read {
		return h.data, nil
	}

	if h.maxBytes > 0 && h.size > h.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrInvalidSource, h.size, h.maxBytes)
	}

	var r io.Reader = h.body
	if h.maxBytes > 0 {
		r = io.LimitReader(h.body, h.maxBytes+1)
	}

	var buf bytes.Buffer
	if h.size > 0 {
		buf.Grow(int(h.size))
	}
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnreachable, err)
	}

	if h.maxBytes > 0 && int64(buf.Len()) > h.maxBytes {
		return nil, fmt.Errorf("%w: payload exceeds limit of %d bytes", ErrInvalidSource, h.maxBytes)
	}

	h.data = buf.Bytes()
	h.size = int64(len(h.data))
	h.read = true

	return h.data, nil
}
