package sifread

// PartitionIterator is a generalized interface for iterating over Partitions, regardless of where they come from
type PartitionIterator interface {
	HasNextPartition() bool
	NextPartition() (Partition, error)
	OnEnd(onEnd func())
}

// A StoppablePartitionIterator can be abandoned before it runs out of Partitions,
// releasing its input and firing its end listeners
type StoppablePartitionIterator interface {
	PartitionIterator
	Stop()
}
