package execution

import (
	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/internal/partition"
	"github.com/go-sif/sifread/internal/pcache"
	"github.com/go-sif/sifread/internal/stats"
)

// Result holds the materialized Partitions of a DataFrame. Its Partitions can be
// consumed once, in order, and it must be Closed to release any spilled Partitions.
type Result struct {
	schema  sifread.Schema
	cache   pcache.PartitionCache
	keys    []string
	numRows int
	stats   *stats.RunStatistics
}

// GetSchema returns the Schema of this Result's Rows
func (r *Result) GetSchema() sifread.Schema {
	return r.schema
}

// NumRows returns the number of Rows in this Result
func (r *Result) NumRows() int {
	return r.numRows
}

// NumPartitions returns the number of (non-empty) Partitions in this Result
func (r *Result) NumPartitions() int {
	return len(r.keys)
}

// Stats returns statistics about the run which produced this Result
func (r *Result) Stats() *stats.RunStatistics {
	return r.stats
}

// ForEachPartition consumes this Result's Partitions, in order
func (r *Result) ForEachPartition(fn func(part sifread.CollectedPartition) error) error {
	remaining := r.numRows
	keys := r.keys
	r.keys = nil
	for _, key := range keys {
		if remaining <= 0 {
			break
		}
		part, err := r.cache.Get(key)
		if err != nil {
			return err
		}
		// the last partition may be cut short by a limit
		if part.GetNumRows() > remaining {
			part = partition.ToOperable(part).Truncate(remaining)
		}
		remaining -= part.GetNumRows()
		if err := fn(partition.ToCollected(part)); err != nil {
			return err
		}
	}
	return nil
}

// Rows consumes this Result, returning all of its Rows in order
func (r *Result) Rows() ([]sifread.Row, error) {
	rows := make([]sifread.Row, 0, r.numRows)
	err := r.ForEachPartition(func(part sifread.CollectedPartition) error {
		for i := 0; i < part.GetNumRows(); i++ {
			rows = append(rows, part.GetRow(i))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Close releases any Partitions which were not consumed
func (r *Result) Close() error {
	r.keys = nil
	return r.cache.Destroy()
}
