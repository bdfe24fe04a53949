package stats

import (
	"sync"
	"time"
)

const statisticRollingWindows = 5

// RunStatistics contains statistics about a running read. It is safe for concurrent use
// by the workers of a single run.
type RunStatistics struct {
	lock                        sync.Mutex
	started                     bool
	finished                    bool
	startTime                   time.Time
	totalRuntime                time.Duration
	rowsLoaded                  int64
	rowsProduced                int64
	partitionsProcessed         int64
	loadersProcessed            int64
	recentPartitionRuntimes     []time.Duration // for rolling average of recent partition processing times
	recentPartitionRuntimesHead int
}

// Start triggers statistics tracking, if it hasn't been started already
func (rs *RunStatistics) Start() {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	if !rs.started {
		rs.started = true
		rs.startTime = time.Now()
		rs.recentPartitionRuntimes = make([]time.Duration, statisticRollingWindows)
	}
}

// Finish completes statistics tracking
func (rs *RunStatistics) Finish() {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	if rs.started && !rs.finished {
		rs.finished = true
		rs.totalRuntime = time.Since(rs.startTime)
	}
}

// EndPartition tracks the end of the processing of a partition which began at start
func (rs *RunStatistics) EndPartition(start time.Time, rowsLoaded int, rowsProduced int) {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	if !rs.started {
		return
	}
	rs.recentPartitionRuntimes[rs.recentPartitionRuntimesHead] = time.Since(start)
	rs.recentPartitionRuntimesHead = (rs.recentPartitionRuntimesHead + 1) % len(rs.recentPartitionRuntimes)
	rs.rowsLoaded += int64(rowsLoaded)
	rs.rowsProduced += int64(rowsProduced)
	rs.partitionsProcessed++
}

// EndLoader tracks the completion of a PartitionLoader
func (rs *RunStatistics) EndLoader() {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	rs.loadersProcessed++
}

// GetStartTime returns the start time of the run
func (rs *RunStatistics) GetStartTime() time.Time {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.startTime
}

// GetRuntime returns the running time of the run
func (rs *RunStatistics) GetRuntime() time.Duration {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	if rs.finished {
		return rs.totalRuntime
	} else if !rs.started {
		return 0
	}
	return time.Since(rs.startTime)
}

// GetNumRowsLoaded returns the number of Rows produced by parsers so far
func (rs *RunStatistics) GetNumRowsLoaded() int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.rowsLoaded
}

// GetNumRowsProduced returns the number of Rows which survived all tasks so far
func (rs *RunStatistics) GetNumRowsProduced() int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.rowsProduced
}

// GetNumPartitionsProcessed returns the number of Partitions which have been processed so far
func (rs *RunStatistics) GetNumPartitionsProcessed() int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.partitionsProcessed
}

// GetNumLoadersProcessed returns the number of PartitionLoaders which have completed so far
func (rs *RunStatistics) GetNumLoadersProcessed() int64 {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	return rs.loadersProcessed
}

// GetCurrentPartitionProcessingTime returns a rolling average of partition processing time
func (rs *RunStatistics) GetCurrentPartitionProcessingTime() time.Duration {
	rs.lock.Lock()
	defer rs.lock.Unlock()
	var total time.Duration
	for _, d := range rs.recentPartitionRuntimes {
		total += d
	}
	return total / statisticRollingWindows
}
