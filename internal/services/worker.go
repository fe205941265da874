package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/draftwell/grantdocs/internal/logger"
	"github.com/draftwell/grantdocs/internal/repos"
	"github.com/draftwell/grantdocs/internal/types"
)

const defaultQueueDepth = 64

// BuildWorker drains queued builds with a fixed pool of goroutines. Builds
// hit a remote quota-limited service, so concurrency stays small.
type BuildWorker struct {
	log       *logger.Logger
	svc       DocumentService
	buildRepo repos.DocumentBuildRepo
	queue     chan uuid.UUID
	workers   int
}

func NewBuildWorker(baseLog *logger.Logger, svc DocumentService, buildRepo repos.DocumentBuildRepo, workers int) *BuildWorker {
	if workers <= 0 {
		workers = 2
	}
	workerLog := baseLog.With("service", "BuildWorker")
	return &BuildWorker{
		log:       workerLog,
		svc:       svc,
		buildRepo: buildRepo,
		queue:     make(chan uuid.UUID, defaultQueueDepth),
		workers:   workers,
	}
}

// Enqueue hands a build to the pool. It returns false when the queue is
// full so the caller can fall back to reporting the build as pending.
func (w *BuildWorker) Enqueue(id uuid.UUID) bool {
	select {
	case w.queue <- id:
		return true
	default:
		w.log.Warn("Build queue full, leaving build pending", "build_id", id)
		return false
	}
}

// Start launches the worker pool and requeues builds left pending by a
// previous run. It returns immediately; the pool drains until ctx is done.
func (w *BuildWorker) Start(ctx context.Context) {
	go w.recoverPending(ctx)
	go func() {
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < w.workers; i++ {
			g.Go(func() error {
				return w.loop(gctx)
			})
		}
		if err := g.Wait(); err != nil && ctx.Err() == nil {
			w.log.Error("Worker pool stopped", "error", err)
		}
	}()
	w.log.Info("Build worker started", "workers", w.workers)
}

func (w *BuildWorker) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case id := <-w.queue:
			if _, err := w.svc.RunBuild(ctx, id); err != nil {
				// Failure is already recorded on the build row.
				w.log.Warn("Queued build failed", "build_id", id, "error", err)
			}
		}
	}
}

func (w *BuildWorker) recoverPending(ctx context.Context) {
	pending, err := w.buildRepo.ListByStatus(ctx, nil, types.BuildPending, defaultQueueDepth)
	if err != nil {
		w.log.Error("Failed to list pending builds", "error", err)
		return
	}
	for _, build := range pending {
		w.Enqueue(build.ID)
	}
	if len(pending) > 0 {
		w.log.Info("Requeued pending builds", "count", len(pending))
	}
}
