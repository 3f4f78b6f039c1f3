package kvstore

import (
	"fmt"

	rcron "github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Janitor runs periodic sweeps over the store and any registered extra sweep
// funcs (the rate limiter hooks in here). Sweeping is bounded-memory hygiene
// only; correctness never depends on a sweep having run.
type Janitor struct {
	store  *MemoryStore
	cron   *rcron.Cron
	log    zerolog.Logger
	extras []func() int
}

func NewJanitor(store *MemoryStore, log zerolog.Logger) *Janitor {
	return &Janitor{
		store: store,
		cron:  rcron.New(),
		log:   log.With().Str("component", "janitor").Logger(),
	}
}

// AddSweep registers an extra cleanup func run on the same schedule. The
// func returns how many entries it removed.
func (j *Janitor) AddSweep(fn func() int) {
	j.extras = append(j.extras, fn)
}

func (j *Janitor) Start(spec string) error {
	if _, err := j.cron.AddFunc(spec, j.run); err != nil {
		return fmt.Errorf("schedule janitor %q: %w", spec, err)
	}
	j.cron.Start()
	j.log.Info().Str("spec", spec).Msg("janitor started")
	return nil
}

func (j *Janitor) run() {
	removed := j.store.Sweep()
	for _, fn := range j.extras {
		removed += fn()
	}
	if removed > 0 {
		j.log.Debug().Int("removed", removed).Msg("sweep complete")
	}
}

func (j *Janitor) Stop() {
	j.cron.Stop()
}
