package transform

import (
	"fmt"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/schema"
)

// Select projects a DataFrame onto the named columns, in the given order
func Select(colNames ...string) *sifread.DataFrameOperation {
	return SelectAs(colNames, colNames)
}

// SelectAs projects a DataFrame onto the named columns, in the given order,
// naming each output column after the corresponding alias
func SelectAs(colNames []string, aliases []string) *sifread.DataFrameOperation {
	return &sifread.DataFrameOperation{
		TaskType: sifread.ProjectTaskType,
		Do: func(d sifread.DataFrame) (*sifread.DataFrameOperationResult, error) {
			if len(colNames) != len(aliases) {
				return nil, fmt.Errorf("cannot select %d columns with %d aliases", len(colNames), len(aliases))
			}
			if len(colNames) == 0 {
				return nil, fmt.Errorf("must select at least one column")
			}
			newSchema := schema.CreateSchema()
			for i, name := range colNames {
				col, err := d.GetSchema().GetColumn(name)
				if err != nil {
					return nil, err
				}
				if _, err = cloneColumnInto(newSchema, aliases[i], col); err != nil {
					return nil, err
				}
			}
			sourceNames := make([]string, len(colNames))
			copy(sourceNames, colNames)
			return &sifread.DataFrameOperationResult{
				Task:       &projectTask{schema: newSchema, sourceNames: sourceNames},
				DataSchema: newSchema,
			}, nil
		},
	}
}
