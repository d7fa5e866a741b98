package jobs

import (
	"context"
	"log"
	"time"

	"webstore/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

// Reconciler periodically removes image rows whose blob write never
// completed. A row with an empty storage path past the max age belongs to
// an upload that died between the insert and the blob put.
type Reconciler struct {
	scheduler gocron.Scheduler
	imageRepo repositories.ProductImageRepository
	interval  time.Duration
	maxAge    time.Duration
}

func NewReconciler(imageRepo repositories.ProductImageRepository, interval, maxAge time.Duration) (*Reconciler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	r := &Reconciler{
		scheduler: scheduler,
		imageRepo: imageRepo,
		interval:  interval,
		maxAge:    maxAge,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(r.sweep, context.Background()),
		gocron.WithName("stale-image-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Reconciler) Start() {
	log.Printf("Starting image reconciliation sweep every %s", r.interval)
	r.scheduler.Start()
}

func (r *Reconciler) Stop() error {
	return r.scheduler.Shutdown()
}

func (r *Reconciler) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-r.maxAge)
	removed, err := r.imageRepo.DeleteStaleUnpathed(ctx, cutoff)
	if err != nil {
		log.Printf("WARN: stale image sweep failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Stale image sweep removed %d rows older than %s", removed, cutoff.Format(time.RFC3339))
	}
}
