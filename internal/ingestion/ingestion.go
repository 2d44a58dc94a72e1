package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/canteenpulse/internal/logger"
	"github.com/guttosm/canteenpulse/internal/metrics"
	"github.com/guttosm/canteenpulse/internal/storage"
)

const (
	fileSuffix       = ".csv"
	maxParallelFiles = 8
)

// Options tunes ProcessDirectory.
type Options struct {
	Parallel int  // <= 0 uses min(8, NumCPU)
	Force    bool // re-import files already in the import log
	Metrics  *metrics.Manager
}

// ErrNoFiles is returned when the directory holds no ratings file.
var ErrNoFiles = errors.New("no ratings files found")

// ProcessDirectory imports every "*.csv" ratings file found in dir.
//
// Behavior:
//   - Files are processed concurrently, bounded by Options.Parallel.
//   - A file already present in the import log is skipped unless Options.Force.
//   - Each file is parsed strictly before anything is written, then its rows
//     and import log entry are stored atomically. A forced re-import replaces
//     the rows an earlier import of the same file stored.
//   - If any file returns error, the rest are canceled and that error is returned.
//
// Returns the number of ratings imported in this run.
func ProcessDirectory(ctx context.Context, dir string, store storage.RatingImporter, opts Options) (int, error) {
	files, err := listFiles(dir)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("%w in %s", ErrNoFiles, dir)
	}

	maxParallel := opts.Parallel
	if maxParallel <= 0 {
		maxParallel = min(maxParallelFiles, runtime.NumCPU())
	}

	logger.L().Info().Int("files", len(files)).Str("dir", dir).Int("max_parallel", maxParallel).Msg("import start")

	counts := make([]int, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, file := range files {
		idx, f := i, file
		g.Go(func() error {
			start := time.Now()
			base := filepath.Base(f)
			log := logger.L().With().Str("file", base).Int("idx", idx+1).Int("total", len(files)).Logger()

			exists, err := store.HasImport(gctx, base)
			if err != nil {
				log.Error().Err(err).Msg("check import log failed")
				return fmt.Errorf("file %s: check import log: %w", base, err)
			}
			if exists && !opts.Force {
				log.Info().Bool("skipped", true).Msg("already imported")
				return nil
			}

			ratings, err := parseFile(gctx, f)
			if err != nil {
				log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("file failed")
				return fmt.Errorf("file %s: %w", base, err)
			}
			if err := store.ImportFile(gctx, base, ratings); err != nil {
				log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("store failed")
				return fmt.Errorf("file %s: store: %w", base, err)
			}
			n := len(ratings)

			counts[idx] = n
			opts.Metrics.RecordRatingsImported(n)
			log.Info().Int("rows", n).Dur("elapsed", time.Since(start)).Bool("force", opts.Force).Msg("file done")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	logger.L().Info().Int("rows", total).Msg("import done")
	return total, nil
}

// listFiles returns the ratings files of dir in name order.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), fileSuffix) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
