package transform

import (
	"github.com/go-sif/sifread"
)

// projectTask rebuilds Partitions against a new Schema, copying
// each output column from a named column of the previous Schema
type projectTask struct {
	schema      sifread.Schema
	sourceNames []string
}

func (s *projectTask) RunWorker(previous sifread.OperablePartition) (sifread.OperablePartition, error) {
	return previous.Project(s.schema, s.sourceNames)
}

// cloneColumnInto appends a column to dest with the type and nullability of col
func cloneColumnInto(dest sifread.Schema, name string, col sifread.Column) (sifread.Schema, error) {
	if col.Nullable() {
		return dest.CreateColumn(name, col.Type())
	}
	return dest.CreateNonNullableColumn(name, col.Type())
}
