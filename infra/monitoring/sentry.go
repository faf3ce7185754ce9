package monitoring

import (
	"os"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/kilianp07/kelheim/config"
	coremon "github.com/kilianp07/kelheim/core/monitoring"
	"github.com/kilianp07/kelheim/core/scenario"
)

// maxBreadcrumbs bounds the run timeline attached to an event; long runs
// emit one breadcrumb per iteration.
const maxBreadcrumbs = 100

// NewSentryMonitor initializes Sentry and returns a Monitor backed by it. An
// empty DSN disables reporting.
func NewSentryMonitor(cfg config.SentryConfig) (coremon.Monitor, error) {
	if cfg.DSN == "" {
		return coremon.NopMonitor{}, nil
	}
	host, _ := os.Hostname()
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		TracesSampleRate: cfg.TracesSampleRate,
		Release:          release(cfg),
		ServerName:       host,
		AttachStacktrace: true,
		MaxBreadcrumbs:   maxBreadcrumbs,
		BeforeSend: func(ev *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			if ev.Tags == nil {
				ev.Tags = map[string]string{}
			}
			ev.Tags["scenario_version"] = scenario.Version
			return ev
		},
	})
	if err != nil {
		return nil, err
	}
	return &sentryMonitor{}, nil
}

func release(cfg config.SentryConfig) string {
	if cfg.Release != "" {
		return cfg.Release
	}
	return "kelheim@" + scenario.Version
}

type sentryMonitor struct{}

func (s *sentryMonitor) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	if len(tags) == 0 {
		sentry.CaptureException(err)
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

func (s *sentryMonitor) Breadcrumb(category, message string) {
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Category:  category,
		Message:   message,
		Level:     sentry.LevelInfo,
		Timestamp: time.Now(),
	})
}

func (s *sentryMonitor) Recover() {
	if r := recover(); r != nil {
		sentry.CurrentHub().Recover(r)
		sentry.Flush(2 * time.Second)
		panic(r)
	}
}

func (s *sentryMonitor) Flush(timeout time.Duration) { sentry.Flush(timeout) }
