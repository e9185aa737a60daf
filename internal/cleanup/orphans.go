// Package cleanup removes stored images that no post refers to.
//
// Post creation uploads the image before inserting the row, and a failed
// insert only makes a best-effort attempt to delete the upload. The sweeper
// catches whatever that attempt missed.
package cleanup

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/zfogg/picfeed/internal/logger"
	"github.com/zfogg/picfeed/internal/metrics"
	"github.com/zfogg/picfeed/internal/models"
	"github.com/zfogg/picfeed/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// ImagePrefix is where post images live in the bucket
	ImagePrefix = "posts/"
	// DefaultGrace keeps uploads whose insert may still be in flight
	DefaultGrace = time.Hour
	// lookupBatch bounds the IN (...) list per query
	lookupBatch = 500
)

// Store lists and deletes stored images
type Store interface {
	storage.ObjectLister
	DeleteFile(ctx context.Context, key string) error
}

// Result summarizes one sweep
type Result struct {
	Scanned int
	Orphans int
	Deleted int
	Failed  int
}

// OrphanSweeper periodically deletes images with no post row
type OrphanSweeper struct {
	db       *gorm.DB
	store    Store
	interval time.Duration
	grace    time.Duration
	now      func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
}

// NewOrphanSweeper creates a sweeper; grace <= 0 uses DefaultGrace
func NewOrphanSweeper(db *gorm.DB, store Store, interval, grace time.Duration) *OrphanSweeper {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &OrphanSweeper{
		db:       db,
		store:    store,
		interval: interval,
		grace:    grace,
		now:      time.Now,
	}
}

// Start begins sweeping in the background
func (s *OrphanSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	logger.Log.Info("Starting orphaned image sweeper",
		zap.Duration("interval", s.interval),
		zap.Duration("grace", s.grace),
	)
	go s.run(ctx)
}

// Stop halts the sweeper and waits for a running sweep to finish
func (s *OrphanSweeper) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	logger.Log.Info("Stopped orphaned image sweeper")
}

func (s *OrphanSweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				logger.ErrorWithFields("Orphaned image sweep failed", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Sweep deletes every image under ImagePrefix that is older than the grace
// period and not referenced by any post.
func (s *OrphanSweeper) Sweep(ctx context.Context) (Result, error) {
	start := s.now()
	var res Result

	objects, err := s.store.ListObjects(ctx, ImagePrefix)
	if err != nil {
		return res, err
	}
	res.Scanned = len(objects)

	cutoff := start.Add(-s.grace)
	var candidates []string
	for _, obj := range objects {
		if obj.LastModified.Before(cutoff) && !strings.HasSuffix(obj.Key, "/") {
			candidates = append(candidates, obj.Key)
		}
	}

	for i := 0; i < len(candidates); i += lookupBatch {
		end := i + lookupBatch
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[i:end]

		var referenced []string
		if err := s.db.WithContext(ctx).Model(&models.Post{}).
			Where("image_key IN ?", batch).
			Pluck("image_key", &referenced).Error; err != nil {
			return res, err
		}
		inUse := make(map[string]bool, len(referenced))
		for _, k := range referenced {
			inUse[k] = true
		}

		for _, key := range batch {
			if inUse[key] {
				continue
			}
			res.Orphans++
			if err := s.store.DeleteFile(ctx, key); err != nil {
				res.Failed++
				metrics.Get().BlobCleanupFailureTotal.WithLabelValues("sweep").Inc()
				logger.Log.Warn("Failed to delete orphaned image", zap.String("key", key), zap.Error(err))
				continue
			}
			res.Deleted++
			metrics.Get().OrphansSweptTotal.Inc()
		}
	}

	logger.Log.Info("Orphaned image sweep completed",
		zap.Int("scanned", res.Scanned),
		zap.Int("orphans", res.Orphans),
		zap.Int("deleted", res.Deleted),
		zap.Int("failed", res.Failed),
		zap.Duration("took", time.Since(start)),
	)
	return res, nil
}
