package sifread

// RowFactory is a function that produces a fresh Row.
type RowFactory func() Row

// DataFrameOperation - A generic DataFrame transform, returning a Task that performs the "work" and a (potentially) altered Schema.
type DataFrameOperation struct {
	TaskType TaskType
	Do       func(d DataFrame) (*DataFrameOperationResult, error)
}

// DataFrameOperationResult is the output of a DataFrameOperation
type DataFrameOperationResult struct {
	Task       Task
	DataSchema Schema
}

// MapOperation - A generic function for manipulating Rows in-place
type MapOperation func(row Row) error

// FilterOperation - A generic function for determining whether or not a Row should be retained
type FilterOperation func(row Row) (bool, error)
