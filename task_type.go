package sifread

// TaskType describes the type of a Task, used internally to control behaviour
type TaskType string

const (
	// NoOpTaskType indicates that this task does not manipulate data
	NoOpTaskType TaskType = "no_op"
	// ExtractTaskType indicates that this task sources data from a DataSource
	ExtractTaskType TaskType = "extract"
	// MapTaskType indicates that this task triggers a Map
	MapTaskType TaskType = "map"
	// FilterTaskType indicates that this task triggers a Filter
	FilterTaskType TaskType = "filter"
	// ProjectTaskType indicates that this task selects, renames or removes columns
	ProjectTaskType TaskType = "project"
	// LimitTaskType indicates that this task caps the number of rows
	LimitTaskType TaskType = "limit"
)
