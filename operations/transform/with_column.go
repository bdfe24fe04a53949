package transform

import (
	"github.com/go-sif/sifread"
)

// AddColumn declares that a new (nil) column with a
// specific type and name should be available to the
// next Task of the DataFrame pipeline
func AddColumn(colName string, colType sifread.ColumnType) *sifread.DataFrameOperation {
	return &sifread.DataFrameOperation{
		TaskType: sifread.ProjectTaskType,
		Do: func(d sifread.DataFrame) (*sifread.DataFrameOperationResult, error) {
			sourceNames := append(d.GetSchema().ColumnNames(), "")
			newSchema, err := d.GetSchema().Clone().CreateColumn(colName, colType)
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
