package transform

import (
	"github.com/go-sif/sifread"
	iutil "github.com/go-sif/sifread/internal/util"
)

type filterTask struct {
	fn sifread.FilterOperation
}

func (s *filterTask) RunWorker(previous sifread.OperablePartition) (sifread.OperablePartition, error) {
	return previous.FilterRows(s.fn)
}

// Filter filters Rows out of a Partition, creating a new one
func Filter(fn sifread.FilterOperation) *sifread.DataFrameOperation {
	return &sifread.DataFrameOperation{
		TaskType: sifread.FilterTaskType,
		Do: func(d sifread.DataFrame) (*sifread.DataFrameOperationResult, error) {
			return &sifread.DataFrameOperationResult{
				Task:       &filterTask{fn: iutil.SafeFilterOperation(fn)},
				DataSchema: d.GetSchema().Clone(),
			}, nil
		},
	}
}
