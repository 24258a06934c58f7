package memslog

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// FileResult is the outcome for one file of a batch. Err is set when the
// file could not be analysed, the rest of the batch is unaffected.
type FileResult struct {
	Path string
	Run  *Run
	Err  error
}

// AnalyseFiles analyses each file in its own session, at most workers at a
// time. Results are in the order of paths and there is one for every path.
// cb, when not nil, is called once per path as it finishes and may be called
// from several goroutines at once. The batch stops early only when ctx is
// done or an error would repeat for every file, files not analysed by then
// carry the context error.
func AnalyseFiles(ctx context.Context, paths []string, workers int, cb func(FileResult), opts ...Option) ([]FileResult, error) {
	s, err := newSettings(opts...)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	results := make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			finish := func(res FileResult) {
				results[i] = res
				if cb != nil {
					cb(res)
				}
			}
			if err := gctx.Err(); err != nil {
				finish(FileResult{Path: path, Err: err})
				return err
			}
			run, err := s.analyseFile(path)
			finish(FileResult{Path: path, Run: run, Err: err})
			if err != nil {
				log.Debug().Str("file", path).Err(err).Msg("analysis failed")
				if !IsRecoverable(err) {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
