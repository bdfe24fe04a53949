package partition

import (
	"log"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/errors"
	uuid "github.com/gofrs/uuid"
)

const defaultCapacity = 16

// partitionImpl is sifread's internal implementation of Partition
type partitionImpl struct {
	id      string
	maxRows int
	rows    [][]interface{}
	schema  sifread.Schema
}

// createPartitionImpl creates a new, empty Partition for Rows of the given schema
func createPartitionImpl(maxRows int, schema sifread.Schema) *partitionImpl {
	id, err := uuid.NewV4()
	if err != nil {
		log.Fatalf("failed to generate UUID for Partition: %v", err)
	}
	initialCapacity := defaultCapacity
	if initialCapacity > maxRows {
		initialCapacity = maxRows
	}
	return &partitionImpl{
		id:      id.String(),
		maxRows: maxRows,
		rows:    make([][]interface{}, 0, initialCapacity),
		schema:  schema,
	}
}

// CreatePartition creates a new, empty Partition for Rows of the given schema
func CreatePartition(maxRows int, schema sifread.Schema) sifread.Partition {
	return createPartitionImpl(maxRows, schema)
}

// CreateBuildablePartition creates a new, empty BuildablePartition for Rows of the given schema
func CreateBuildablePartition(maxRows int, schema sifread.Schema) sifread.BuildablePartition {
	return createPartitionImpl(maxRows, schema)
}

// ToOperable converts a Partition produced by this package into an OperablePartition
func ToOperable(part sifread.Partition) sifread.OperablePartition {
	return part.(*partitionImpl)
}

// ToCollected converts a Partition produced by this package into a CollectedPartition
func ToCollected(part sifread.Partition) sifread.CollectedPartition {
	return part.(*partitionImpl)
}

// ID retrieves the ID of this Partition
func (p *partitionImpl) ID() string {
	return p.id
}

// GetMaxRows retrieves the maximum number of rows in this Partition
func (p *partitionImpl) GetMaxRows() int {
	return p.maxRows
}

// GetNumRows retrieves the number of rows in this Partition
func (p *partitionImpl) GetNumRows() int {
	return len(p.rows)
}

// GetSchema retrieves the Schema of the Rows in this Partition
func (p *partitionImpl) GetSchema() sifread.Schema {
	return p.schema
}

// GetRow retrieves a specific row from this Partition
func (p *partitionImpl) GetRow(rowNum int) sifread.Row {
	return &rowImpl{
		partID: p.id,
		values: p.rows[rowNum],
		schema: p.schema,
	}
}

// CanInsertRow returns an error if this Partition is full
func (p *partitionImpl) CanInsertRow() error {
	if len(p.rows) >= p.maxRows {
		return errors.PartitionFullError{}
	}
	return nil
}

// AppendRow copies a Row to the end of this Partition
func (p *partitionImpl) AppendRow(row sifread.Row) error {
	if err := p.CanInsertRow(); err != nil {
		return err
	}
	values := row.Values()
	if len(values) != p.schema.NumColumns() {
		return errors.IncompatibleRowError{Expected: p.schema.NumColumns(), Actual: len(values)}
	}
	p.rows = append(p.rows, values)
	return nil
}

// AppendEmptyRow adds an all-nil Row to the end of this Partition, returning it
func (p *partitionImpl) AppendEmptyRow() (sifread.Row, error) {
	if err := p.CanInsertRow(); err != nil {
		return nil, err
	}
	p.rows = append(p.rows, make([]interface{}, p.schema.NumColumns()))
	return p.GetRow(len(p.rows) - 1), nil
}

// ForEachRow iterates over Rows in a Partition
func (p *partitionImpl) ForEachRow(fn sifread.MapOperation) error {
	row := &rowImpl{partID: p.id, schema: p.schema}
	for i := range p.rows {
		row.values = p.rows[i]
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

// MapRows runs a MapOperation on each row in this Partition, manipulating them in-place.
func (p *partitionImpl) MapRows(fn sifread.MapOperation) (sifread.OperablePartition, error) {
	if err := p.ForEachRow(fn); err != nil {
		return nil, err
	}
	return p, nil
}

// FilterRows filters the Rows in the current Partition, creating a new one
func (p *partitionImpl) FilterRows(fn sifread.FilterOperation) (sifread.OperablePartition, error) {
	result := createPartitionImpl(p.maxRows, p.schema)
	row := &rowImpl{partID: p.id, schema: p.schema}
	for i := range p.rows {
		row.values = p.rows[i]
		keep, err := fn(row)
		if err != nil {
			return nil, err
		}
		if keep {
			result.rows = append(result.rows, p.rows[i])
		}
	}
	return result, nil
}

// Project produces a new Partition whose i-th column is copied from the column sourceNames[i].
// An empty source name produces an all-nil column.
func (p *partitionImpl) Project(newSchema sifread.Schema, sourceNames []string) (sifread.OperablePartition, error) {
	if newSchema.NumColumns() != len(sourceNames) {
		return nil, errors.IncompatibleRowError{Expected: newSchema.NumColumns(), Actual: len(sourceNames)}
	}
	indices := make([]int, len(sourceNames))
	for i, name := range sourceNames {
		if len(name) == 0 {
			indices[i] = -1
			continue
		}
		col, err := p.schema.GetColumn(name)
		if err != nil {
			return nil, err
		}
		indices[i] = col.Index()
	}
	result := createPartitionImpl(p.maxRows, newSchema)
	result.rows = make([][]interface{}, len(p.rows))
	for i, values := range p.rows {
		projected := make([]interface{}, len(indices))
		for j, idx := range indices {
			if idx >= 0 {
				projected[j] = values[idx]
			}
		}
		result.rows[i] = projected
	}
	return result, nil
}

// Truncate produces a Partition containing at most the first numRows Rows
func (p *partitionImpl) Truncate(numRows int) sifread.OperablePartition {
	if numRows >= len(p.rows) {
		return p
	}
	if numRows < 0 {
		numRows = 0
	}
	return &partitionImpl{
		id:      p.id,
		maxRows: p.maxRows,
		rows:    p.rows[:numRows],
		schema:  p.schema,
	}
}
