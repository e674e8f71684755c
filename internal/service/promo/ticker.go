package promo

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Renderer receives every countdown tick.
type Renderer interface {
	RenderPromo(r Remaining)
}

// Ticker publishes the countdown once a second until the offer expires.
type Ticker struct {
	countdown Countdown
	renderer  Renderer
	now       func() time.Time
	cron      *cron.Cron
	logger    *zap.Logger
}

func NewTicker(c Countdown, r Renderer, logger *zap.Logger) *Ticker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ticker{
		countdown: c,
		renderer:  r,
		now:       time.Now,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		logger:    logger,
	}
}

// Start schedules the tick job. It returns immediately.
func (t *Ticker) Start() error {
	var id cron.EntryID
	id, err := t.cron.AddFunc("@every 1s", func() {
		r := t.Tick()
		if r.Expired {
			t.cron.Remove(id)
			t.logger.Info("promo: offer expired", zap.Time("end", t.countdown.End()))
		}
	})
	if err != nil {
		return err
	}
	t.cron.Start()
	t.logger.Info("promo: countdown started", zap.Time("end", t.countdown.End()))
	return nil
}

// Tick renders the current remaining time once.
func (t *Ticker) Tick() Remaining {
	r := t.countdown.Remaining(t.now())
	if t.renderer != nil {
		t.renderer.RenderPromo(r)
	}
	return r
}

// Stop halts scheduling and waits for a running tick to finish.
func (t *Ticker) Stop() {
	<-t.cron.Stop().Done()
}
