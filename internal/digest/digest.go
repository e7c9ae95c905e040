// Package digest periodically logs how many cards each user has waiting,
// giving operators a pulse on study backlog without a push channel.
package digest

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/nmarques/flashdeck/internal/logger"
	"github.com/nmarques/flashdeck/internal/repository"
)

// Digest runs a recurring due-count summary over all users.
type Digest struct {
	scheduler *gocron.Scheduler
	users     repository.UserRepository
	progress  repository.ProgressRepository
	interval  time.Duration
	log       *logger.Logger
}

// New creates a new Digest with the given run interval.
func New(users repository.UserRepository, progress repository.ProgressRepository, interval time.Duration) *Digest {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Digest{
		scheduler: gocron.NewScheduler(time.UTC),
		users:     users,
		progress:  progress,
		interval:  interval,
		log:       logger.Default().WithPrefix("digest"),
	}
}

// Start begins the recurring digest in the background.
func (d *Digest) Start() error {
	_, err := d.scheduler.Every(d.interval).Do(d.run)
	if err != nil {
		return err
	}
	d.scheduler.StartAsync()
	d.log.Info("digest started, interval=%s", d.interval)
	return nil
}

// Stop terminates the recurring digest.
func (d *Digest) Stop() {
	d.scheduler.Stop()
	d.log.Info("digest stopped")
}

func (d *Digest) run() {
	ctx := logger.NewContext(context.Background(), d.log)
	now := time.Now()

	users, err := d.users.List(ctx)
	if err != nil {
		d.log.Error("failed to list users: %v", err)
		return
	}

	for _, u := range users {
		decks, err := d.progress.DueDecks(ctx, u.ID, now)
		if err != nil {
			d.log.Error("failed to compute due decks for user %d: %v", u.ID, err)
			continue
		}
		total := 0
		for _, deck := range decks {
			total += deck.DueCount
		}
		if total > 0 {
			d.log.Info("user %s has %d cards due across %d decks", u.Username, total, len(decks))
		}
	}
}
