package handoff

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// LogOpener records the link in the log; the HTTP client follows it.
type LogOpener struct {
	Logger *zap.Logger
}

func (o LogOpener) Open(_ context.Context, link string) error {
	if o.Logger != nil {
		o.Logger.Info("handoff: link ready", zap.String("url", link))
	}
	return nil
}

// Recorder keeps every opened link.
type Recorder struct {
	mu    sync.Mutex
	links []string
}

func (r *Recorder) Open(_ context.Context, link string) error {
	r.mu.Lock()
	r.links = append(r.links, link)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Links() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.links...)
}
