package monitoring

import (
	"errors"
	"testing"
	"time"
)

type recorder struct {
	errs   []error
	tags   []map[string]string
	crumbs []string
}

func (r *recorder) CaptureException(err error, tags map[string]string) {
	r.errs = append(r.errs, err)
	r.tags = append(r.tags, tags)
}
func (r *recorder) Breadcrumb(category, message string) {
	r.crumbs = append(r.crumbs, category+": "+message)
}
func (r *recorder) Recover()            {}
func (r *recorder) Flush(time.Duration) {}

func TestInitIgnoresNil(t *testing.T) {
	rec := &recorder{}
	Init(rec)
	defer Init(NopMonitor{})
	Init(nil)
	CaptureException(errors.New("boom"), map[string]string{"run_id": "r"})
	if len(rec.errs) != 1 || rec.tags[0]["run_id"] != "r" {
		t.Fatalf("capture not forwarded: %+v", rec)
	}
}

func TestCaptureDropsNil(t *testing.T) {
	rec := &recorder{}
	Init(rec)
	defer Init(NopMonitor{})
	CaptureException(nil, nil)
	Breadcrumb("run", "kelheim-v3.1-1pct staged")
	if len(rec.errs) != 0 {
		t.Fatalf("nil error forwarded")
	}
	if len(rec.crumbs) != 1 || rec.crumbs[0] != "run: kelheim-v3.1-1pct staged" {
		t.Fatalf("breadcrumbs %v", rec.crumbs)
	}
}
