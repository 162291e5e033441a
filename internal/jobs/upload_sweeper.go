package jobs

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// UploadSweeper periodically removes stale files from the upload directory.
// Uploads are normally deleted right after they are streamed upstream; the
// sweep only catches files orphaned by a crash mid-request.
type UploadSweeper struct {
	dir      string
	maxAge   time.Duration
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

func NewUploadSweeper(dir string, maxAge time.Duration, schedule string, logger *zap.Logger) *UploadSweeper {
	return &UploadSweeper{
		dir:      dir,
		maxAge:   maxAge,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger,
	}
}

func (s *UploadSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() { s.Sweep() }); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *UploadSweeper) Stop() {
	s.cron.Stop()
}

// Sweep deletes regular files older than maxAge. Missing directory means
// nothing was ever uploaded; that is not an error.
func (s *UploadSweeper) Sweep() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("upload sweep failed", zap.Error(err))
		}
		return
	}

	cutoff := time.Now().Add(-s.maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("removed stale uploads", zap.Int("count", removed))
	}
}
