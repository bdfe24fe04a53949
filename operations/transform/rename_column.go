package transform

import (
	"github.com/go-sif/sifread"
)

// RenameColumn renames an existing column
func RenameColumn(oldName string, newName string) *sifread.DataFrameOperation {
	return &sifread.DataFrameOperation{
		TaskType: sifread.ProjectTaskType,
		Do: func(d sifread.DataFrame) (*sifread.DataFrameOperationResult, error) {
			sourceNames := d.GetSchema().ColumnNames()
			newSchema, err := d.GetSchema().Clone().RenameColumn(oldName, newName)
			if err != nil {
				return nil, err
			}
			return &sifread.DataFrameOperationResult{
				Task:       &projectTask{schema: newSchema, sourceNames: sourceNames},
				DataSchema: newSchema,
			}, nil
		},
	}
}
