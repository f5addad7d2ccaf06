package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Reporter periodically logs how many sessions are live.
type Reporter struct {
	store    Store
	schedule string
	cron     *cron.Cron
}

func NewReporter(store Store, schedule string) *Reporter {
	return &Reporter{store: store, schedule: schedule}
}

// Start registers the report job and starts the scheduler.
func (r *Reporter) Start() error {
	c := cron.New(cron.WithSeconds())

	if _, err := c.AddFunc(r.schedule, r.report); err != nil {
		return fmt.Errorf("failed to schedule session report %q: %w", r.schedule, err)
	}

	r.cron = c
	c.Start()
	log.Printf("[info] operation=session_report message=scheduled (%s)", r.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running report to finish.
func (r *Reporter) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
}

func (r *Reporter) report() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := r.store.Count(ctx)
	if err != nil {
		log.Printf("[error] operation=session_report error=%v", err)
		return
	}
	log.Printf("[info] operation=session_report active_sessions=%d", n)
}
