package factory

import (
	"context"
	"sync"
)

type pairOutcome struct {
	done   bool
	result Result
	err    error
	abort  bool
}

// runParallel runs pairs on a worker pool and reports them in declaration
// order. When a failure must abort the run, no further pairs are started
// and pairs already running finish. The first failure in declaration order
// is returned. Failures of pairs that finished after it are still recorded
// in Errors, but their successes are left out of the results.
func (b *Build) runParallel(ctx context.Context) ([]Result, error) {
	type pair struct {
		idx int
		in  *InputFile
		p   *Performer
	}

	pairs := make([]pair, 0, len(b.inputFiles)*len(b.performers))
	for _, in := range b.inputFiles {
		for _, p := range b.performers {
			pairs = append(pairs, pair{idx: len(pairs), in: in, p: p})
		}
	}
	outcomes := make([]pairOutcome, len(pairs))

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	jobs := make(chan pair)
	var wg sync.WaitGroup
	workers := min(b.workers, len(pairs))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				res, err := b.runPair(ctx, job.in, job.p)
				o := pairOutcome{done: true, result: res, err: err}
				if err != nil && b.cfg.RaiseOnError() {
					o.abort = true
					stop()
				}
				outcomes[job.idx] = o
			}
		}()
	}

dispatch:
	for _, job := range pairs {
		select {
		case <-runCtx.Done():
			break dispatch
		case jobs <- job:
		}
	}
	close(jobs)
	wg.Wait()

	var (
		results  []Result
		abortErr error
	)
	for _, o := range outcomes {
		if !o.done {
			if abortErr != nil {
				continue
			}
			// Only reachable after a cancelled ctx.
			break
		}
		if o.err != nil {
			b.PushError(o.err)
			b.log.Printf("build %s: %s: %v", b.id, KindOf(o.err), o.err)
			if o.abort && abortErr == nil {
				abortErr = o.err
			}
			continue
		}
		if abortErr == nil {
			results = append(results, o.result)
		}
	}
	if abortErr != nil {
		return results, abortErr
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
