package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/edgarsift/internal/logging"
	"github.com/fyrsmithlabs/edgarsift/internal/transform"
)

// debounceWindow coalesces the burst of events editors emit per save.
const debounceWindow = 200 * time.Millisecond

// Watcher re-runs pattern detection whenever an examples file changes.
type Watcher struct {
	detector  *transform.Detector
	filter    *transform.FilterService
	threshold float64
	logger    *logging.Logger
}

// NewWatcher builds a watcher; nil logger disables logging.
func NewWatcher(detector *transform.Detector, filter *transform.FilterService, threshold float64, logger *logging.Logger) *Watcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Watcher{detector: detector, filter: filter, threshold: threshold, logger: logger}
}

// LoadPairs reads aligned example pairs from a JSON file holding an
// array of {"input": {...}, "output": {...}} objects.
func LoadPairs(path string) ([]transform.ExamplePair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var pairs []transform.ExamplePair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return pairs, nil
}

// Run detects and filters once for the current file contents, then
// blocks re-running on every change until the context is canceled.
// onUpdate receives each successful result.
func (w *Watcher) Run(ctx context.Context, path string, onUpdate func(*transform.FilteredParsedExamples)) error {
	if err := w.detectOnce(ctx, path, onUpdate); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	// Watch the directory rather than the file: editors replace files on
	// save, which drops a direct file watch.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	target := filepath.Clean(path)
	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
			} else {
				timer.Reset(debounceWindow)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			if err := w.detectOnce(ctx, path, onUpdate); err != nil {
				// Transient states (partial writes, file briefly absent)
				// resolve on the next event.
				w.logger.Warn(ctx, "re-detection failed", zap.String("path", path), zap.Error(err))
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, "watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) detectOnce(ctx context.Context, path string, onUpdate func(*transform.FilteredParsedExamples)) error {
	pairs, err := LoadPairs(path)
	if err != nil {
		return err
	}
	parsed := w.detector.Detect(pairs)
	filtered, err := w.filter.Filter(parsed, w.threshold)
	if err != nil {
		return err
	}
	w.logger.Info(ctx, "patterns detected",
		zap.String("path", path),
		zap.Int("pairs", len(pairs)),
		zap.Int("included", len(filtered.Included)),
		zap.Int("excluded", len(filtered.Excluded)))
	onUpdate(filtered)
	return nil
}
