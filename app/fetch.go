package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/kilianp07/kelheim/core/scenario"
	"github.com/kilianp07/kelheim/infra/logger"
)

// Fetcher copies remote scenario inputs into the staging directory when the
// launcher has to rewrite them.
type Fetcher struct {
	client *http.Client
	log    logger.Logger
}

// NewFetcher returns a Fetcher whose downloads time out after timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: timeout}, log: logger.New("fetch")}
}

// Localize returns a local path for loc. Local paths are returned as is;
// URLs are downloaded into dir once and reused afterwards.
func (f *Fetcher) Localize(ctx context.Context, loc, dir string) (string, error) {
	if !scenario.IsURL(loc) {
		return loc, nil
	}
	u, err := url.Parse(loc)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", loc, err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		return "", fmt.Errorf("no file name in %s", loc)
	}
	dst := filepath.Join(dir, "download-"+name)
	if info, err := os.Stat(dst); err == nil && info.Size() > 0 {
		f.log.Debugf("reusing %s", dst)
		return dst, nil
	}
	if err := f.download(ctx, loc, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func (f *Fetcher) download(ctx context.Context, loc, dst string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	f.log.Infof("downloading %s", loc)
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status code: %d", loc, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("download %s: %w", loc, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
