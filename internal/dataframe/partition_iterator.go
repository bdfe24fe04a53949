package dataframe

import (
	"sync"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/errors"
)

// partitionSliceIterator produces a simple iterator for Partitions stored in a slice
type partitionSliceIterator struct {
	partitions   []sifread.Partition
	next         int
	lock         sync.Mutex
	endListeners []func()
}

// CreatePartitionSliceIterator produces a new PartitionIterator for iterating over a slice of Partitions
func CreatePartitionSliceIterator(partitions []sifread.Partition) sifread.PartitionIterator {
	return &partitionSliceIterator{
		partitions:   partitions,
		next:         0,
		endListeners: []func(){},
	}
}

// OnEnd registers a listener which fires when this iterator runs out of Partitions
func (psi *partitionSliceIterator) OnEnd(onEnd func()) {
	psi.lock.Lock()
	defer psi.lock.Unlock()
	psi.endListeners = append(psi.endListeners, onEnd)
}

// HasNextPartition returns true iff this PartitionIterator can produce another Partition
func (psi *partitionSliceIterator) HasNextPartition() bool {
	psi.lock.Lock()
	defer psi.lock.Unlock()
	return psi.next < len(psi.partitions)
}

// NextPartition returns the next Partition if one is available, or an error
func (psi *partitionSliceIterator) NextPartition() (sifread.Partition, error) {
	psi.lock.Lock()
	defer psi.lock.Unlock()
	if psi.next >= len(psi.partitions) {
		psi.end()
		return nil, errors.NoMorePartitionsError{}
	}
	part := psi.partitions[psi.next]
	psi.next++
	if psi.next >= len(psi.partitions) {
		psi.end()
	}
	return part, nil
}

// end fires and clears end listeners. Must be called with lock held.
func (psi *partitionSliceIterator) end() {
	for _, l := range psi.endListeners {
		l()
	}
	psi.endListeners = []func(){}
}

// Stop abandons this iterator, firing its end listeners
func (psi *partitionSliceIterator) Stop() {
	psi.lock.Lock()
	defer psi.lock.Unlock()
	psi.next = len(psi.partitions)
	psi.end()
}
