package partition

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/go-sif/sifread"
)

func init() {
	gob.Register(true)
	gob.Register(int32(0))
	gob.Register(int64(0))
	gob.Register(float64(0))
	gob.Register("")
	gob.Register(time.Time{})
}

// gobPartition is the wire representation of a partitionImpl
type gobPartition struct {
	ID      string
	MaxRows int
	Rows    [][]interface{}
}

// ToBytes serializes a Partition produced by this package into a byte slice
func ToBytes(part sifread.Partition) ([]byte, error) {
	p, ok := part.(*partitionImpl)
	if !ok {
		return nil, fmt.Errorf("cannot serialize Partition of type %T", part)
	}
	buf := new(bytes.Buffer)
	err := gob.NewEncoder(buf).Encode(&gobPartition{
		ID:      p.id,
		MaxRows: p.maxRows,
		Rows:    p.rows,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to serialize partition %s: %w", p.id, err)
	}
	return buf.Bytes(), nil
}

// FromBytes deserializes a Partition from a byte slice produced by ToBytes
func FromBytes(buff []byte, schema sifread.Schema) (sifread.Partition, error) {
	var gp gobPartition
	if err := gob.NewDecoder(bytes.NewReader(buff)).Decode(&gp); err != nil {
		return nil, fmt.Errorf("unable to deserialize partition: %w", err)
	}
	for i, row := range gp.Rows {
		if len(row) != schema.NumColumns() {
			return nil, fmt.Errorf("row %d of partition %s has %d values, but schema has %d columns", i, gp.ID, len(row), schema.NumColumns())
		}
	}
	return &partitionImpl{
		id:      gp.ID,
		maxRows: gp.MaxRows,
		rows:    gp.Rows,
		schema:  schema,
	}, nil
}
