package decoder

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

// DecodeJob is one unit of work submitted to a Pool: a closure that runs
// a single decoder instance to completion. Each job owns its own arena,
// LM state handles, and AM-update closure; a Pool never shares a
// decoder across jobs.
type DecodeJob func(ctx context.Context) (*DecodeResult, error)

// Pool runs independent decode jobs concurrently, bounded by maxWorkers.
// It never touches a single decoder's internals, only orchestrates
// running several of them side by side.
type Pool struct {
	maxWorkers int
	log        zerolog.Logger
}

// NewPool returns a Pool that runs up to maxWorkers jobs concurrently,
// logging lifecycle events through log.
func NewPool(maxWorkers int, log zerolog.Logger) *Pool {
	return &Pool{maxWorkers: maxWorkers, log: log}
}

// Run submits jobs and waits for all of them to complete, returning
// their results in submission order. The first job error is returned
// after every job has finished running (jobs are not canceled on a
// sibling's failure, since each owns independent state and a partial
// batch failure should not discard unrelated completed decodes).
func (p *Pool) Run(ctx context.Context, jobs []DecodeJob) ([]*DecodeResult, error) {
	results := make([]*DecodeResult, len(jobs))
	errs := make([]error, len(jobs))

	runID := uuid.New().String()
	p.log.Debug().Str("run_id", runID).Int("jobs", len(jobs)).Msg("decode pool run starting")

	g := pool.New().WithMaxGoroutines(p.maxWorkers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() {
			jobID := uuid.New().String()
			res, err := job(ctx)
			if err != nil {
				p.log.Error().Str("run_id", runID).Str("job_id", jobID).Int("index", i).Err(err).Msg("decode job failed")
				errs[i] = err
				return
			}
			p.log.Debug().Str("run_id", runID).Str("job_id", jobID).Int("index", i).Float64("score", res.Score).Msg("decode job completed")
			results[i] = res
		})
	}
	g.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
