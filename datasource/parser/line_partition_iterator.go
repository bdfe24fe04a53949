package parser

import (
	"context"
	"io"
	"sync"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/datasource"
)

// A RecordScanner parses a single line of text into a Row. A non-nil return value
// means that the record is malformed, and describes why.
type RecordScanner interface {
	ScanRecord(line string, row sifread.Row) error
}

// LineIteratorConf configures a LinePartitionIterator
type LineIteratorConf struct {
	PartitionSize int
	Schema        sifread.Schema
	Scanner       RecordScanner
	Tracker       *RecordTracker
	Ignore        func(line string) bool // lines for which Ignore returns true are skipped. May be nil.
}

// linePartitionIterator produces Partitions from newline-delimited records
type linePartitionIterator struct {
	conf         LineIteratorConf
	lines        *LineReader
	hasNext      bool
	lock         sync.Mutex
	endListeners []func()
}

// CreateLinePartitionIterator produces a PartitionIterator which parses each line of lines
// with a RecordScanner, disposing of malformed records via a RecordTracker
func CreateLinePartitionIterator(lines *LineReader, conf LineIteratorConf, onIteratorEnd func()) sifread.PartitionIterator {
	if conf.PartitionSize <= 0 {
		conf.PartitionSize = DefaultPartitionSize
	}
	iterator := &linePartitionIterator{
		conf:         conf,
		lines:        lines,
		hasNext:      true,
		endListeners: []func(){},
	}
	if onIteratorEnd != nil {
		iterator.OnEnd(onIteratorEnd)
	}
	return iterator
}

// OnEnd registers a listener which fires when this iterator runs out of Partitions
func (li *linePartitionIterator) OnEnd(onEnd func()) {
	li.lock.Lock()
	defer li.lock.Unlock()
	li.endListeners = append(li.endListeners, onEnd)
}

// HasNextPartition returns true iff this PartitionIterator can produce another Partition
func (li *linePartitionIterator) HasNextPartition() bool {
	li.lock.Lock()
	defer li.lock.Unlock()
	return li.hasNext
}

// end fires and clears end listeners. Must be called with lock held.
func (li *linePartitionIterator) end() {
	li.hasNext = false
	for _, l := range li.endListeners {
		l()
	}
	li.endListeners = []func(){}
}

// NextPartition returns the next Partition if one is available, or an error
func (li *linePartitionIterator) NextPartition() (sifread.Partition, error) {
	li.lock.Lock()
	defer li.lock.Unlock()
	part := datasource.CreateBuildablePartition(li.conf.PartitionSize, li.conf.Schema)
	tempRow := datasource.CreateTempRow(li.conf.Schema)
	for part.GetNumRows() < part.GetMaxRows() {
		// grab another line from the input
		line, lineNum, err := li.lines.Next()
		if err == io.EOF {
			if err := li.conf.Tracker.Flush(context.Background()); err != nil {
				li.end()
				return nil, err
			}
			li.end()
			// empty partitions are discarded by the executor
			return part, nil
		} else if err != nil {
			li.end()
			return nil, err
		}
		if li.conf.Ignore != nil && li.conf.Ignore(line) {
			continue
		}
		datasource.ResetTempRow(tempRow)
		cause := li.conf.Scanner.ScanRecord(line, tempRow)
		if cause == nil {
			cause = CheckNullability(tempRow)
		}
		if cause != nil {
			keep, err := li.conf.Tracker.Malformed(lineNum, line, cause, tempRow)
			if err != nil {
				li.end()
				return nil, err
			} else if !keep {
				continue
			}
		}
		if err := part.AppendRow(tempRow); err != nil {
			li.end()
			return nil, err
		}
	}
	if err := li.conf.Tracker.Flush(context.Background()); err != nil {
		li.end()
		return nil, err
	}
	return part, nil
}

// Stop abandons this iterator, firing its end listeners. Bad records diverted from
// completed Partitions have already been written.
func (li *linePartitionIterator) Stop() {
	li.lock.Lock()
	defer li.lock.Unlock()
	if li.hasNext {
		li.end()
	}
}
