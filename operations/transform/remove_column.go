package transform

import (
	"fmt"

	"github.com/go-sif/sifread"
)

// RemoveColumn removes existing columns
func RemoveColumn(oldNames ...string) *sifread.DataFrameOperation {
	return &sifread.DataFrameOperation{
		TaskType: sifread.ProjectTaskType,
		Do: func(d sifread.DataFrame) (*sifread.DataFrameOperationResult, error) {
			newSchema := d.GetSchema().Clone()
			for _, oldName := range oldNames {
				var removed bool
				newSchema, removed = newSchema.RemoveColumn(oldName)
				if !removed {
					return nil, fmt.Errorf("cannot remove column %s: no such column", oldName)
				}
			}
			return &sifread.DataFrameOperationResult{
				Task:       &projectTask{schema: newSchema, sourceNames: newSchema.ColumnNames()},
				DataSchema: newSchema,
			}, nil
		},
	}
}
