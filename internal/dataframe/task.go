package dataframe

import (
	"github.com/go-sif/sifread"
)

// noOpTask is a task that does nothing
type noOpTask struct{}

// RunWorker for noOpTask does nothing
func (s *noOpTask) RunWorker(previous sifread.OperablePartition) (sifread.OperablePartition, error) {
	return previous, nil
}
