package pcache

import (
	"github.com/go-sif/sifread"
)

// PartitionCache is a cache for Partitions
type PartitionCache interface {
	Destroy() error
	Add(key string, value sifread.Partition) error
	Get(key string) (value sifread.Partition, err error) // removes the partition from the cache and returns it, if present. Returns an error otherwise.
	CurrentSize() int                                    // the number of partitions held in memory
	NumSpilled() int                                     // the number of partitions spilled to disk
}
