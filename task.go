package sifread

// A Task is a transformation applied
// to Partitions of tabular data.
type Task interface {
	RunWorker(previous OperablePartition) (OperablePartition, error)
}

// A LimitTask caps the number of Rows produced by a DataFrame
type LimitTask interface {
	Task
	GetLimit() int
}
