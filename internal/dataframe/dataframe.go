package dataframe

import (
	"fmt"

	"github.com/go-sif/sifread"
)

// A dataFrameImpl implements DataFrame internally for sifread
type dataFrameImpl struct {
	parent   *dataFrameImpl           // the parent DataFrame. Nil if this is the root.
	task     sifread.Task             // the task represented by this DataFrame, executed to produce the next one
	taskType sifread.TaskType         // a unique name for the type of task this DataFrame represents
	source   sifread.DataSource       // the source of the data
	parser   sifread.DataSourceParser // the parser for the source data
	schema   sifread.Schema           // the schema of the data at this task
}

// CreateDataFrame is a factory for DataFrames. This function is not intended to be used directly,
// as DataFrames are returned by DataSource packages.
func CreateDataFrame(source sifread.DataSource, parser sifread.DataSourceParser, schema sifread.Schema) sifread.DataFrame {
	return &dataFrameImpl{
		parent:   nil,
		task:     &noOpTask{},
		taskType: sifread.ExtractTaskType,
		source:   source,
		parser:   parser,
		schema:   schema,
	}
}

// GetSchema returns the Schema of a DataFrame
func (df *dataFrameImpl) GetSchema() sifread.Schema {
	return df.schema
}

// GetDataSource returns the DataSource of a DataFrame
func (df *dataFrameImpl) GetDataSource() sifread.DataSource {
	return df.source
}

// GetParser returns the DataSourceParser of a DataFrame
func (df *dataFrameImpl) GetParser() sifread.DataSourceParser {
	return df.parser
}

// To is a "functional operations" factory method for DataFrames,
// chaining operations onto the current one(s).
func (df *dataFrameImpl) To(ops ...*sifread.DataFrameOperation) (sifread.DataFrame, error) {
	next := df
	// See https://dave.cheney.net/2014/10/17/functional-options-for-friendly-apis for details of approach
	for _, op := range ops {
		if next.taskType == sifread.LimitTaskType {
			return nil, fmt.Errorf("no tasks can follow a Limit()")
		}
		result, err := op.Do(next)
		if err != nil {
			return nil, err
		}
		if op.TaskType == sifread.LimitTaskType {
			if _, ok := result.Task.(sifread.LimitTask); !ok {
				return nil, fmt.Errorf("taskType is LimitTaskType but Task is not a LimitTask")
			}
		}
		next = &dataFrameImpl{
			parent:   next,
			source:   df.source,
			task:     result.Task,
			taskType: op.TaskType,
			parser:   df.parser,
			schema:   result.DataSchema,
		}
	}
	return next, nil
}
