package transform

import (
	"fmt"

	"github.com/go-sif/sifread"
)

type limitTask struct {
	limit int
}

// RunWorker caps each Partition at the limit. The executor enforces the limit across Partitions.
func (s *limitTask) RunWorker(previous sifread.OperablePartition) (sifread.OperablePartition, error) {
	return previous.Truncate(s.limit), nil
}

func (s *limitTask) GetLimit() int {
	return s.limit
}

// Limit caps the number of Rows produced by a DataFrame. No tasks can follow a Limit.
func Limit(n int) *sifread.DataFrameOperation {
	return &sifread.DataFrameOperation{
		TaskType: sifread.LimitTaskType,
		Do: func(d sifread.DataFrame) (*sifread.DataFrameOperationResult, error) {
			if n < 0 {
				return nil, fmt.Errorf("limit must be non-negative, got %d", n)
			}
			return &sifread.DataFrameOperationResult{
				Task:       &limitTask{limit: n},
				DataSchema: d.GetSchema().Clone(),
			}, nil
		},
	}
}
