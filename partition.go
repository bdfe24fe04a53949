package sifread

// A Partition is a portion of a tabular dataset, consisting of multiple Rows.
// Partitions are not generally interacted with directly, instead being
// produced by Parsers and manipulated by DataFrame Tasks.
type Partition interface {
	ID() string            // ID retrieves the ID of this Partition
	GetMaxRows() int       // GetMaxRows retrieves the maximum number of rows in this Partition
	GetNumRows() int       // GetNumRows retrieves the number of rows in this Partition
	GetRow(rowNum int) Row // GetRow retrieves a specific row from this Partition
	GetSchema() Schema     // GetSchema retrieves the Schema of the Rows in this Partition
}

// A BuildablePartition can be built. Used in the implementation of DataSources and Parsers
type BuildablePartition interface {
	Partition
	ForEachRow(fn MapOperation) error // ForEachRow iterates over Rows in a Partition
	CanInsertRow() error              // CanInsertRow returns an error if this Partition is full
	AppendRow(row Row) error          // AppendRow copies a Row, built with CreateTempRow, to the end of this Partition
	AppendEmptyRow() (Row, error)     // AppendEmptyRow adds an all-nil Row to the end of this Partition, returning it so that Row methods can be used to populate it
}

// An OperablePartition can be operated on
type OperablePartition interface {
	Partition
	// ForEachRow iterates over Rows in a Partition
	ForEachRow(fn MapOperation) error
	// MapRows runs a MapOperation on each row in this Partition, manipulating them in-place.
	MapRows(fn MapOperation) (OperablePartition, error)
	// FilterRows filters the Rows in the current Partition, creating a new one
	FilterRows(fn FilterOperation) (OperablePartition, error)
	// Project produces a new Partition whose i-th column is copied from the column sourceNames[i]. An empty source name produces an all-nil column.
	Project(newSchema Schema, sourceNames []string) (OperablePartition, error)
	// Truncate produces a Partition containing at most the first numRows Rows
	Truncate(numRows int) OperablePartition
}

// A CollectedPartition has been collected
type CollectedPartition interface {
	Partition
	ForEachRow(fn MapOperation) error // ForEachRow iterates over Rows in a Partition
}
