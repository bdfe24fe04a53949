package transform

import (
	"github.com/go-sif/sifread"
	iutil "github.com/go-sif/sifread/internal/util"
)

type mapTask struct {
	fn sifread.MapOperation
}

func (s *mapTask) RunWorker(previous sifread.OperablePartition) (sifread.OperablePartition, error) {
	return previous.MapRows(s.fn)
}

// Map transforms a Row in-place
func Map(fn sifread.MapOperation) *sifread.DataFrameOperation {
	return &sifread.DataFrameOperation{
		TaskType: sifread.MapTaskType,
		Do: func(d sifread.DataFrame) (*sifread.DataFrameOperationResult, error) {
			return &sifread.DataFrameOperationResult{
				Task:       &mapTask{fn: iutil.SafeMapOperation(fn)},
				DataSchema: d.GetSchema().Clone(),
			}, nil
		},
	}
}
