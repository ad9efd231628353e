// Package optimiser evaluates a list of candidate tasks against one site and
// baseline with a pool of workers and ranks them in a league table.
package optimiser

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"site-energy-sim/internal/analysis"
	"site-energy-sim/internal/data"
	"site-energy-sim/internal/model"
	"site-energy-sim/internal/scenario"
	"site-energy-sim/internal/store"
)

// Progress is reported once per finished task, in completion order.
type Progress struct {
	Done    int                       `json:"done"`
	Total   int                       `json:"total"`
	Index   int                       `json:"index"`
	Outcome string                    `json:"outcome"`
	Result  scenario.SimulationResult `json:"result"`
}

type Options struct {
	// Workers defaults to MaxParallelism.
	Workers    int
	LeagueSize int
	Cache      data.ResultCache
	Metrics    *Metrics
	Logger     *zap.Logger
	// OnProgress is called from a single goroutine.
	OnProgress func(Progress)
}

// Summary describes a finished run.
type Summary struct {
	Tasks     int           `json:"tasks"`
	Evaluated int           `json:"evaluated"`
	CacheHits int           `json:"cache_hits"`
	Rejected  int           `json:"rejected"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`

	League map[analysis.Objective][]analysis.Entry `json:"league"`
}

// Record converts the summary into a run record for the store.
func (s *Summary) Record(siteDigest string) *store.Run {
	r := store.NewRun(siteDigest, s.League)
	r.Tasks = s.Tasks
	r.Evaluated = s.Evaluated
	r.CacheHits = s.CacheHits
	r.Rejected = s.Rejected
	r.Failed = s.Failed
	r.DurationMS = s.Duration.Milliseconds()
	return r
}

type Optimiser struct {
	sim  *scenario.Simulator
	opts Options
	log  *zap.Logger

	mu      sync.RWMutex
	tasks   []*model.TaskData
	results []scenario.SimulationResult
	league  *analysis.LeagueTable
}

func New(sim *scenario.Simulator, opts Options) *Optimiser {
	if opts.Workers < 1 {
		opts.Workers = MaxParallelism()
	}
	if opts.LeagueSize < 1 {
		opts.LeagueSize = 10
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Optimiser{sim: sim, opts: opts, log: log}
}

// MaxParallelism is the smaller of GOMAXPROCS and the CPU count.
func MaxParallelism() int {
	maxProcs := runtime.GOMAXPROCS(0)
	numCPU := runtime.NumCPU()
	if maxProcs < numCPU {
		return maxProcs
	}
	return numCPU
}

type outcome struct {
	index   int
	hash    uint64
	kind    string
	result  scenario.SimulationResult
	elapsed time.Duration
}

// Run evaluates every task. Invalid tasks are counted as failed and do not
// stop the run; a cancelled ctx does.
func (o *Optimiser) Run(ctx context.Context, tasks []*model.TaskData) (*Summary, error) {
	start := time.Now()
	o.opts.Metrics.running.Inc()
	defer o.opts.Metrics.running.Dec()

	league := analysis.NewLeagueTable(o.opts.LeagueSize)
	results := make([]scenario.SimulationResult, len(tasks))

	jobs := make(chan int)
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	workers := min(o.opts.Workers, max(len(tasks), 1))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go o.worker(ctx, &wg, tasks, jobs, outcomes)
	}

	go func() {
		defer close(jobs)
		for i := range tasks {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	sum := &Summary{Tasks: len(tasks)}
	done := 0
	for oc := range outcomes {
		done++
		results[oc.index] = oc.result
		o.opts.Metrics.tasks.WithLabelValues(oc.kind).Inc()

		switch oc.kind {
		case OutcomeSimulated:
			sum.Evaluated++
			o.opts.Metrics.duration.Observe(oc.elapsed.Seconds())
		case OutcomeCached:
			sum.CacheHits++
		case OutcomeRejected:
			sum.Evaluated++
			sum.Rejected++
		case OutcomeFailed:
			sum.Failed++
		}
		if oc.kind != OutcomeFailed {
			league.Consider(analysis.Entry{Index: oc.index, Hash: oc.hash, Result: oc.result})
		}
		if o.opts.OnProgress != nil {
			o.opts.OnProgress(Progress{Done: done, Total: len(tasks), Index: oc.index, Outcome: oc.kind, Result: oc.result})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("optimisation cancelled after %d of %d tasks: %w", done, len(tasks), err)
	}

	sum.Duration = time.Since(start)
	sum.League = league.Snapshot()

	o.mu.Lock()
	o.tasks = tasks
	o.results = results
	o.league = league
	o.mu.Unlock()

	o.log.Info("optimisation finished",
		zap.Int("tasks", sum.Tasks),
		zap.Int("evaluated", sum.Evaluated),
		zap.Int("cache_hits", sum.CacheHits),
		zap.Int("rejected", sum.Rejected),
		zap.Int("failed", sum.Failed),
		zap.Duration("duration", sum.Duration))
	return sum, nil
}

func (o *Optimiser) worker(ctx context.Context, wg *sync.WaitGroup, tasks []*model.TaskData, jobs <-chan int, out chan<- outcome) {
	defer wg.Done()
	for i := range jobs {
		oc := o.evaluate(ctx, i, tasks[i])
		select {
		case out <- oc:
		case <-ctx.Done():
			return
		}
	}
}

func (o *Optimiser) evaluate(ctx context.Context, i int, task *model.TaskData) outcome {
	if task == nil {
		o.log.Warn("task skipped", zap.Int("index", i), zap.String("reason", "nil task"))
		return outcome{index: i, kind: OutcomeFailed, result: scenario.WorstResult()}
	}
	hash := task.Hash()
	oc := outcome{index: i, hash: hash}

	if c := o.opts.Cache; c != nil {
		r, ok, err := c.Get(ctx, hash)
		if err != nil {
			o.log.Warn("result cache read failed", zap.Uint64("hash", hash), zap.Error(err))
		} else if ok {
			oc.kind, oc.result = OutcomeCached, r
			return oc
		}
	}

	start := time.Now()
	r, err := o.sim.SimulateScenario(task)
	oc.elapsed = time.Since(start)
	if err != nil {
		o.log.Warn("task failed", zap.Int("index", i), zap.Error(err))
		oc.kind, oc.result = OutcomeFailed, scenario.WorstResult()
		return oc
	}

	oc.kind, oc.result = OutcomeSimulated, r
	if r == scenario.WorstResult() {
		oc.kind = OutcomeRejected
	}
	if c := o.opts.Cache; c != nil {
		if err := c.Set(ctx, hash, r); err != nil {
			o.log.Warn("result cache write failed", zap.Uint64("hash", hash), zap.Error(err))
		}
	}
	return oc
}

// Recall returns task i of the last completed run and its result.
func (o *Optimiser) Recall(i int) (*model.TaskData, scenario.SimulationResult, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.league == nil {
		return nil, scenario.SimulationResult{}, fmt.Errorf("recall before any run: %w", model.ErrInvalidState)
	}
	if i < 0 || i >= len(o.tasks) {
		return nil, scenario.SimulationResult{}, &model.RangeError{Field: "index", Index: i, Len: len(o.tasks)}
	}
	return o.tasks[i], o.results[i], nil
}

// League returns the last completed run's league table.
func (o *Optimiser) League() (map[analysis.Objective][]analysis.Entry, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.league == nil {
		return nil, fmt.Errorf("league before any run: %w", model.ErrInvalidState)
	}
	return o.league.Snapshot(), nil
}
