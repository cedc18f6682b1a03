package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eventgate/checkin-server-go/internal/repository"
)

// EventExpiryJob periodically deactivates events whose end date has passed,
// so scanners lose access without an admin having to flip each event off.
type EventExpiryJob struct {
	eventRepo repository.EventRepository
	interval  time.Duration
	done      chan struct{}
}

func NewEventExpiryJob(eventRepo repository.EventRepository, interval time.Duration) *EventExpiryJob {
	return &EventExpiryJob{
		eventRepo: eventRepo,
		interval:  interval,
		done:      make(chan struct{}),
	}
}

func (j *EventExpiryJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("event expiry job started")
}

func (j *EventExpiryJob) Stop() {
	close(j.done)
	log.Info().Msg("event expiry job stopped")
}

func (j *EventExpiryJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.expire()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.expire()
		}
	}
}

func (j *EventExpiryJob) expire() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := j.eventRepo.DeactivateEnded(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to deactivate ended events")
	} else if count > 0 {
		log.Info().Int64("count", count).Msg("deactivated ended events")
	}
}
