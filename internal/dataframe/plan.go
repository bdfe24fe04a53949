package dataframe

import (
	"github.com/go-sif/sifread"
)

// Plan is a flattened, executable description of a DataFrame: the source to load
// from, the schema partitions are loaded with, and the tasks to apply to each
// loaded partition, in order.
type Plan struct {
	Source     sifread.DataSource
	Parser     sifread.DataSourceParser
	LoadSchema sifread.Schema // the schema of the root DataFrame, used by the parser
	Schema     sifread.Schema // the schema of the final DataFrame
	Tasks      []sifread.Task
	Limit      int // the maximum number of rows to produce, or -1 if unlimited
}

// HasLimit returns true iff this Plan caps the number of rows it produces
func (p *Plan) HasLimit() bool {
	return p.Limit >= 0
}

// RunTasks applies each of this Plan's tasks, in order, to a loaded Partition
func (p *Plan) RunTasks(part sifread.OperablePartition) (sifread.OperablePartition, error) {
	var err error
	for _, t := range p.Tasks {
		part, err = t.RunWorker(part)
		if err != nil {
			return nil, err
		}
	}
	return part, nil
}
