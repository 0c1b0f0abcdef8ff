package services

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/example/topupadmin/internal/lifecycle"
)

// QueueWatcher polls the pending top-up queue and alerts once per job when
// the job reaches its final attempt. It only reads the queue.
type QueueWatcher struct {
	topups   *TopupQueueService
	notifier Notifier

	mu      sync.Mutex
	alerted map[string]struct{}
}

func NewQueueWatcher(topups *TopupQueueService, notifier Notifier) *QueueWatcher {
	return &QueueWatcher{
		topups:   topups,
		notifier: notifier,
		alerted:  make(map[string]struct{}),
	}
}

// Check runs one poll and returns how many alerts were sent.
func (w *QueueWatcher) Check(ctx context.Context) (int, error) {
	rows, err := w.topups.List(ctx, TopupFilter{Limit: lifecycle.MaxQueueLimit}, true)
	if err != nil {
		return 0, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	seen := make(map[string]struct{}, len(rows))
	sent := 0
	for _, row := range rows {
		seen[row.JobID] = struct{}{}
		// Rows without counters cannot be judged.
		if row.TriesTotal == 0 || row.TriesRemainingIncludingNext > 1 {
			continue
		}
		if _, done := w.alerted[row.JobID]; done {
			continue
		}
		if err := w.notifier.NotifyFinalAttempt(ctx, row); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("job_id", row.JobID).Msg("final attempt alert failed")
			continue
		}
		w.alerted[row.JobID] = struct{}{}
		sent++
	}

	// Jobs that left the queue are forgotten so a re-enqueued job alerts again.
	for jobID := range w.alerted {
		if _, ok := seen[jobID]; !ok {
			delete(w.alerted, jobID)
		}
	}

	return sent, nil
}

// Start schedules Check every interval. Stop the returned scheduler with Shutdown.
func (w *QueueWatcher) Start(ctx context.Context, interval time.Duration) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			sent, err := w.Check(ctx)
			if err != nil {
				log.Ctx(ctx).Warn().Err(err).Msg("queue watch poll failed")
				return
			}
			if sent > 0 {
				log.Ctx(ctx).Info().Int("alerts", sent).Msg("queue watch alerts sent")
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	return scheduler, nil
}
