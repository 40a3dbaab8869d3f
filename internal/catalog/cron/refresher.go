package cronjob

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gtnh-tools/planner-backend/internal/catalog"
)

// Refresher reloads the catalog snapshot on a schedule so long-running
// instances pick up new dataset exports without a restart.
type Refresher struct {
	provider *catalog.Provider
	spec     string
	cron     *cron.Cron
}

func NewRefresher(provider *catalog.Provider, spec string) *Refresher {
	return &Refresher{provider: provider, spec: spec}
}

// Start registers the refresh job and begins the scheduler. A bad cron spec
// is logged and the scheduler simply never runs.
func (r *Refresher) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(r.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if _, err := r.provider.Refresh(ctx); err != nil {
			log.Printf("catalog refresh job failed: %v", err)
			return
		}
		log.Println("catalog refresh job completed at:", time.Now().Format(time.RFC1123))
	})
	if err != nil {
		log.Printf("Failed to create catalog refresh job: %v", err)
		return
	}

	log.Printf("Catalog refresh scheduler started (spec %q)", r.spec)
	c.Start()
	r.cron = c
}

// Stop halts the scheduler; running jobs finish.
func (r *Refresher) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}
