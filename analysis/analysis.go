// Package analysis drives the decode, classify and fold pipeline over an
// event stream, optionally sharded over several workers.
package analysis

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/decibelcooper/etabkg/efficiency"
	"github.com/decibelcooper/etabkg/event"
	"github.com/decibelcooper/etabkg/ntuple"
	"github.com/decibelcooper/etabkg/tally"
	"github.com/decibelcooper/etabkg/truth"
)

// Source feeds raw entries to fn in entry order.
type Source func(fn ntuple.ScanFunc) error

// Result is the outcome of one run.
type Result struct {
	Tally      tally.Tally
	Efficiency efficiency.Calculator

	// Entries counts every entry read, Kept those passing the filter.
	Entries int64
	Kept    int64

	// Candidates holds every classified candidate ordered by entry and tag
	// index when Runner.KeepCandidates is set.
	Candidates []truth.CandidateResult
}

// Runner configures a run. Workers <= 1 runs sequentially.
type Runner struct {
	Workers int
	Matcher truth.Matcher

	// Filter, when set, drops events before classification and efficiency
	// counting.
	Filter func(*event.Event) bool

	KeepCandidates   bool
	ProgressInterval int64

	Logger *zap.Logger
}

// shard is the state owned by one worker.
type shard struct {
	tally      tally.Tally
	eff        efficiency.Calculator
	kept       int64
	candidates []truth.CandidateResult
}

// Run processes the whole source. It fails only when the source fails or ctx
// is cancelled; malformed events are logged and counted.
func (r *Runner) Run(ctx context.Context, src Source) (*Result, error) {
	if r.Logger == nil {
		r.Logger = zap.NewNop()
	}
	workers := max(r.Workers, 1)

	var (
		shards  = make([]shard, workers)
		entries int64
	)

	if workers == 1 {
		err := src(func(entry int64, raw event.Raw) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entries++
			r.progress(entries)
			ev := event.Decode(entry, raw)
			r.process(&shards[0], &ev)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("could not process events: %w", err)
		}
		return r.result(shards, entries), nil
	}

	grp, gctx := errgroup.WithContext(ctx)
	events := make(chan *event.Event, 4*workers)

	grp.Go(func() error {
		defer close(events)
		return src(func(entry int64, raw event.Raw) error {
			entries++
			r.progress(entries)
			ev := event.Decode(entry, raw)
			select {
			case events <- &ev:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})

	for i := range shards {
		sh := &shards[i]
		grp.Go(func() error {
			for ev := range events {
				r.process(sh, ev)
			}
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, fmt.Errorf("could not process events: %w", err)
	}
	return r.result(shards, entries), nil
}

func (r *Runner) process(sh *shard, ev *event.Event) {
	for _, issue := range ev.Issues {
		r.Logger.Warn("malformed event",
			zap.Int64("entry", issue.Entry),
			zap.Error(issue.Err))
	}
	sh.tally.DecodeIssues += len(ev.Issues)

	if r.Filter != nil && !r.Filter(ev) {
		return
	}
	sh.kept++
	sh.eff.Add(ev)

	if ev.Empty() {
		sh.tally.EmptyEvents++
		return
	}
	sh.tally.Events++
	sh.tally.AddTags(len(ev.Tags))

	results := r.Matcher.Classify(ev)
	for _, res := range results {
		for _, w := range res.Warnings() {
			r.Logger.Warn("unresolvable generator index",
				zap.Int64("entry", w.Entry),
				zap.Int("candidate", w.Candidate),
				zap.Int("daughter", w.Daughter),
				zap.Error(w.Err))
		}
	}
	sh.tally.Fold(results...)
	if r.KeepCandidates {
		sh.candidates = append(sh.candidates, results...)
	}
}

func (r *Runner) progress(n int64) {
	if r.ProgressInterval > 0 && n%r.ProgressInterval == 0 {
		r.Logger.Info("processed entries", zap.Int64("entries", n))
	}
}

func (r *Runner) result(shards []shard, entries int64) *Result {
	res := &Result{Entries: entries}
	for i := range shards {
		sh := &shards[i]
		res.Tally.Merge(&sh.tally)
		res.Efficiency.Merge(&sh.eff)
		res.Kept += sh.kept
		res.Candidates = append(res.Candidates, sh.candidates...)
	}
	slices.SortFunc(res.Candidates, func(a, b truth.CandidateResult) int {
		if c := cmp.Compare(a.Entry, b.Entry); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})

	r.Logger.Info("run complete",
		zap.Int64("entries", res.Entries),
		zap.Int64("kept", res.Kept),
		zap.Int("candidates", res.Tally.Candidates),
		zap.Int("signal", res.Tally.Signal),
		zap.Int("background", res.Tally.Background),
		zap.Int("unresolvable", res.Tally.Unresolvable),
		zap.Int("decode_issues", res.Tally.DecodeIssues))
	return res
}

// Events adapts an in-memory list of raw entries to a Source. Entries are
// numbered from 0.
func Events(raws ...event.Raw) Source {
	return func(fn ntuple.ScanFunc) error {
		for i, raw := range raws {
			if err := fn(int64(i), raw); err != nil {
				return err
			}
		}
		return nil
	}
}

// Files adapts ROOT ntuple files to a Source.
func Files(tree string, paths ...string) Source {
	return func(fn ntuple.ScanFunc) error {
		return ntuple.ScanFiles(paths, tree, fn)
	}
}
