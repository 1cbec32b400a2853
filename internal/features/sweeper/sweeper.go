package sweeper

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"files-manager/internal/config"
	"files-manager/internal/features/file"
	"files-manager/internal/metrics"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// BlobIndex answers whether a stored path is still referenced by a record.
type BlobIndex interface {
	ExistsByLocalPath(ctx context.Context, path string) (bool, error)
}

// Sweeper deletes blobs under the storage root that no record points at.
// Only uuid-named files are blobs; anything else in the root is left alone.
// Blobs younger than Grace are skipped so an upload between its write
// and its insert is never swept.
type Sweeper struct {
	Index    BlobIndex
	Root     string
	Grace    time.Duration
	Schedule string
	Metrics  *metrics.Metrics
	Logger   *zap.Logger

	now       func() time.Time
	mu        sync.Mutex
	scheduler *cron.Cron
}

func NewSweeper(fileRepo file.FileRepository, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		Index:    fileRepo,
		Root:     cfg.FolderPath,
		Grace:    cfg.SweepGrace,
		Schedule: cfg.SweepSchedule,
		Metrics:  m,
		Logger:   logger.Named("sweeper"),
		now:      time.Now,
	}
}

// Run makes one pass over the storage root and returns how many blobs it removed.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.Root)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read storage root: %w", err)
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	cutoff := now().Add(-s.Grace)

	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !entry.Type().IsRegular() {
			continue
		}
		if _, err := uuid.Parse(entry.Name()); err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(s.Root, entry.Name())
		referenced, err := s.Index.ExistsByLocalPath(ctx, path)
		if err != nil {
			return removed, fmt.Errorf("lookup %s: %w", path, err)
		}
		if referenced {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.Logger.Warn("remove orphan", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}

	s.Metrics.RecordSweep(removed)
	if removed > 0 {
		s.Logger.Info("orphan blobs removed", zap.Int("count", removed))
	}
	return removed, nil
}

// InitializeScheduler starts the cron scheduler. An empty Schedule leaves
// the sweeper off.
func (s *Sweeper) InitializeScheduler(ctx context.Context) error {
	if s.Schedule == "" {
		s.Logger.Info("sweeper disabled")
		return nil
	}

	scheduler := cron.New()
	_, err := scheduler.AddFunc(s.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := s.Run(ctx); err != nil {
			s.Logger.Error("sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.Schedule, err)
	}

	s.mu.Lock()
	s.scheduler = scheduler
	s.mu.Unlock()

	scheduler.Start()
	s.Logger.Info("sweeper scheduled", zap.String("schedule", s.Schedule), zap.Duration("grace", s.Grace))
	return nil
}

// StopScheduler waits for a running sweep to finish.
func (s *Sweeper) StopScheduler() error {
	s.mu.Lock()
	scheduler := s.scheduler
	s.scheduler = nil
	s.mu.Unlock()

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	return nil
}
