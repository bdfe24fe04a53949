package execution

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/internal/dataframe"
	"github.com/go-sif/sifread/internal/partition"
	"github.com/go-sif/sifread/internal/pcache"
	"github.com/go-sif/sifread/internal/stats"
	iutil "github.com/go-sif/sifread/internal/util"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// executor runs a single Plan
type executor struct {
	plan  *dataframe.Plan
	opts  *Options
	cache pcache.PartitionCache
	stats *stats.RunStatistics
	limit int // -1 if unlimited

	lock          sync.Mutex
	loaderKeys    [][]string
	loaderRows    []int
	loaderDone    []bool
	limitReached  bool
	errs          *multierror.Error
	cancelLoaders context.CancelFunc
}

// Run materializes a DataFrame. Cancelling ctx aborts the run.
func Run(ctx context.Context, df sifread.DataFrame, opts *Options) (*Result, error) {
	return run(ctx, df, opts, -1)
}

// run materializes a DataFrame, producing at most maxRows rows if maxRows >= 0
func run(ctx context.Context, df sifread.DataFrame, opts *Options, maxRows int) (*Result, error) {
	opts = ensureDefaultOptionsValues(opts)
	plan, err := dataframe.Optimize(df)
	if err != nil {
		return nil, err
	}
	limit := plan.Limit
	if maxRows >= 0 && (limit < 0 || maxRows < limit) {
		limit = maxRows
	}
	serializer, err := opts.serializer()
	if err != nil {
		return nil, err
	}
	cache, err := pcache.NewLRU(&pcache.LRUConfig{
		Size:       opts.NumInMemoryPartitions,
		DiskPath:   opts.TempDir,
		Schema:     plan.Schema,
		Serializer: serializer,
		Logger:     opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	e := &executor{
		plan:  plan,
		opts:  opts,
		cache: cache,
		stats: &stats.RunStatistics{},
		limit: limit,
	}
	res, err := e.execute(ctx)
	if err != nil {
		if derr := cache.Destroy(); derr != nil {
			opts.Logger.Warnf("Unable to remove spilled partitions: %v", derr)
		}
		return nil, err
	}
	return res, nil
}

func (e *executor) execute(ctx context.Context) (*Result, error) {
	e.stats.Start()
	defer e.stats.Finish()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pm, err := e.plan.Source.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	loaders := make([]sifread.PartitionLoader, 0)
	for pm.HasNext() {
		loaders = append(loaders, pm.Next())
	}
	e.loaderKeys = make([][]string, len(loaders))
	e.loaderRows = make([]int, len(loaders))
	e.loaderDone = make([]bool, len(loaders))
	e.opts.Logger.Debugf("Executing plan with %d tasks over %d inputs, using %d workers", len(e.plan.Tasks), len(loaders), e.opts.NumWorkers)

	loaderCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.cancelLoaders = cancel
	if e.limit == 0 {
		cancel()
		e.limitReached = true
	}
	g, gctx := errgroup.WithContext(loaderCtx)
	g.SetLimit(e.opts.NumWorkers)
	for i, loader := range loaders {
		g.Go(func() error {
			if err := e.runLoader(gctx, i, loader); err != nil {
				if e.isLimitReached() && errors.Is(err, context.Canceled) {
					return nil
				}
				e.recordError(fmt.Errorf("unable to load %s: %w", loader.Location(), err))
				return err
			}
			return nil
		})
	}
	g.Wait()
	// the caller's cancellation takes precedence over errors it caused
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.err(); err != nil {
		return nil, err
	}

	res := &Result{
		schema: e.plan.Schema,
		cache:  e.cache,
		keys:   make([]string, 0),
		stats:  e.stats,
	}
	for i := range loaders {
		res.keys = append(res.keys, e.loaderKeys[i]...)
		res.numRows += e.loaderRows[i]
	}
	if e.limit >= 0 && res.numRows > e.limit {
		res.numRows = e.limit
	}
	e.opts.Logger.Debugf("Produced %d rows in %d partitions (%d spilled) in %s", res.numRows, len(res.keys), e.cache.NumSpilled(), e.stats.GetRuntime())
	return res, nil
}

// runLoader loads, transforms and caches the Partitions of a single PartitionLoader
func (e *executor) runLoader(ctx context.Context, idx int, loader sifread.PartitionLoader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	parts, err := loader.Load(ctx, e.plan.Parser, e.plan.LoadSchema)
	if err != nil {
		return err
	}
	stop := func() {
		if stoppable, ok := parts.(sifread.StoppablePartitionIterator); ok {
			stoppable.Stop()
		}
	}
	rows := 0
	for parts.HasNextPartition() {
		if err := ctx.Err(); err != nil {
			stop()
			return err
		}
		start := time.Now()
		part, err := parts.NextPartition()
		if err != nil {
			stop()
			return err
		}
		loaded := part.GetNumRows()
		// empty partitions are discarded
		if loaded == 0 {
			continue
		}
		result, err := e.plan.RunTasks(partition.ToOperable(part))
		if err != nil {
			stop()
			if merr, ok := err.(*multierror.Error); ok {
				merr.ErrorFormat = iutil.FormatMultiError
			}
			return err
		}
		if e.limit >= 0 && rows+result.GetNumRows() > e.limit {
			result = result.Truncate(e.limit - rows)
		}
		e.stats.EndPartition(start, loaded, result.GetNumRows())
		if result.GetNumRows() > 0 {
			if err := e.cache.Add(result.ID(), result); err != nil {
				stop()
				return err
			}
			rows += result.GetNumRows()
			e.lock.Lock()
			e.loaderKeys[idx] = append(e.loaderKeys[idx], result.ID())
			e.loaderRows[idx] = rows
			e.lock.Unlock()
		}
		// no single input can contribute more than the limit
		if e.limit >= 0 && rows >= e.limit {
			stop()
			break
		}
	}
	e.stats.EndLoader()
	e.finishLoader(idx)
	return nil
}

// finishLoader records the completion of a loader, and cancels the remaining
// loaders once the completed prefix of loaders satisfies the limit
func (e *executor) finishLoader(idx int) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.loaderDone[idx] = true
	if e.limit < 0 {
		return
	}
	total := 0
	for i, done := range e.loaderDone {
		if !done {
			return
		}
		total += e.loaderRows[i]
		if total >= e.limit {
			e.limitReached = true
			e.cancelLoaders()
			return
		}
	}
}

func (e *executor) isLimitReached() bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.limitReached
}

func (e *executor) recordError(err error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.errs = multierror.Append(e.errs, err)
}

// err returns the errors encountered by loaders. Cancellations caused by another
// loader's failure are omitted.
func (e *executor) err() error {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.errs == nil {
		return nil
	}
	var merr *multierror.Error
	for _, err := range e.errs.Errors {
		if !errors.Is(err, context.Canceled) {
			merr = multierror.Append(merr, err)
		}
	}
	if merr == nil {
		return e.errs.Errors[0]
	} else if len(merr.Errors) == 1 {
		return merr.Errors[0]
	}
	merr.ErrorFormat = iutil.FormatMultiError
	return merr
}
