// Package xmlio holds the file plumbing shared by the MATSim document
// readers: transparent gzip handling and the XML prolog the framework expects.
package xmlio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// IsGzip reports whether the path names a gzip-compressed document.
func IsGzip(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".gz")
}

// NewReader wraps r with a gzip reader when gz is set.
func NewReader(r io.Reader, gz bool) (io.ReadCloser, error) {
	if !gz {
		return io.NopCloser(bufio.NewReader(r)), nil
	}
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	return zr, nil
}

// Open opens a local document, decompressing when the name ends in .gz.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f, IsGzip(path))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &stackedCloser{Reader: r, closers: []io.Closer{r, f}}, nil
}

// Create creates a local document, compressing when the name ends in .gz.
// Parent directories are created as needed.
func Create(path string) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriter(f)
	if !IsGzip(path) {
		return &stackedWriter{Writer: bw, closers: []io.Closer{flushCloser(bw.Flush), f}}, nil
	}
	zw := gzip.NewWriter(bw)
	return &stackedWriter{Writer: zw, closers: []io.Closer{zw, flushCloser(bw.Flush), f}}, nil
}

// WriteProlog writes the XML declaration and the DOCTYPE of a MATSim document.
func WriteProlog(w io.Writer, root, dtd string) error {
	_, err := fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<!DOCTYPE %s SYSTEM \"%s\">\n", root, dtd)
	return err
}

type flushCloser func() error

func (f flushCloser) Close() error { return f() }

type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type stackedWriter struct {
	io.Writer
	closers []io.Closer
}

// Close flushes and closes the layers from the outermost writer inwards.
func (s *stackedWriter) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
