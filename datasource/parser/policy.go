package parser

import (
	"context"
	"fmt"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/errors"
	"github.com/go-sif/sifread/logging"
)

// DefaultPartitionSize is the maximum number of rows per Partition, unless otherwise configured
const DefaultPartitionSize = 128

// RecordPolicy determines what happens to malformed records
type RecordPolicy struct {
	Mode                sifread.ParseMode // how malformed records are disposed of. Ignored when BadRecords is set.
	CorruptRecordColumn string            // the column which receives the raw text of malformed records in PermissiveMode, if present in the Schema
	BadRecords          *BadRecordsWriter // if set, malformed records are diverted here and excluded from results
	Logger              *logging.Logger
}

// DefaultRecordPolicy returns a PermissiveMode RecordPolicy using the default corrupt record column
func DefaultRecordPolicy() *RecordPolicy {
	return &RecordPolicy{
		Mode:                sifread.PermissiveMode,
		CorruptRecordColumn: sifread.DefaultCorruptRecordColumn,
	}
}

// CorruptColumn returns the name of the corrupt record column iff it is present in
// the given Schema and this policy keeps malformed records. Otherwise it returns "".
func (p *RecordPolicy) CorruptColumn(schema sifread.Schema) string {
	if p == nil || p.BadRecords != nil || p.Mode != sifread.PermissiveMode {
		return ""
	}
	name := p.CorruptRecordColumn
	if len(name) == 0 {
		name = sifread.DefaultCorruptRecordColumn
	}
	col, err := schema.GetColumn(name)
	if err != nil {
		return ""
	}
	if _, ok := col.Type().(*sifread.VarStringColumnType); !ok {
		return ""
	}
	return name
}

// DataColumns returns the names of the columns of schema which are populated from record data,
// which is every column except the corrupt record column
func (p *RecordPolicy) DataColumns(schema sifread.Schema) []string {
	corrupt := sifread.DefaultCorruptRecordColumn
	if p != nil && len(p.CorruptRecordColumn) > 0 {
		corrupt = p.CorruptRecordColumn
	}
	names := make([]string, 0, schema.NumColumns())
	schema.ForEachColumn(func(name string, col sifread.Column) error {
		if name != corrupt {
			names = append(names, name)
		}
		return nil
	})
	return names
}

// Track produces a RecordTracker which applies this policy to the records of a single input
func (p *RecordPolicy) Track(location string, schema sifread.Schema) *RecordTracker {
	if p == nil {
		p = DefaultRecordPolicy()
	}
	return &RecordTracker{
		policy:        p,
		location:      location,
		corruptColumn: p.CorruptColumn(schema),
	}
}

// A RecordTracker applies a RecordPolicy to the records of a single input (one PartitionLoader)
type RecordTracker struct {
	policy        *RecordPolicy
	location      string
	corruptColumn string
	pending       []BadRecord
	numMalformed  int
}

// CorruptColumn returns the name of the column receiving the raw text of malformed records, or "" if there isn't one
func (t *RecordTracker) CorruptColumn() string {
	return t.corruptColumn
}

// NumMalformed returns the number of malformed records seen so far
func (t *RecordTracker) NumMalformed() int {
	return t.numMalformed
}

// Malformed disposes of a malformed record, which has been (partially) parsed into row.
// It returns true iff the row should be kept, or an error if the read should fail.
func (t *RecordTracker) Malformed(line int, record string, cause error, row sifread.Row) (bool, error) {
	t.numMalformed++
	p := t.policy
	if p.BadRecords != nil {
		t.pending = append(t.pending, BadRecord{
			Path:   t.location,
			Record: record,
			Reason: cause.Error(),
		})
		return false, nil
	}
	switch p.Mode {
	case sifread.FailFastMode:
		return false, &errors.MalformedRecordError{
			Path:   t.location,
			Line:   line,
			Record: record,
			Cause:  cause,
		}
	case sifread.DropMalformedMode:
		p.Logger.Debugf("Dropping malformed record in %s, line %d: %v", t.location, line, cause)
		return false, nil
	default:
		p.Logger.Debugf("Keeping malformed record in %s, line %d: %v", t.location, line, cause)
		if len(t.corruptColumn) > 0 {
			if err := row.SetVarString(t.corruptColumn, record); err != nil {
				return false, err
			}
		}
		return true, nil
	}
}

// Flush writes any records diverted since the last Flush to the policy's BadRecordsWriter
func (t *RecordTracker) Flush(ctx context.Context) error {
	if len(t.pending) == 0 || t.policy.BadRecords == nil {
		return nil
	}
	if err := t.policy.BadRecords.Write(ctx, t.pending); err != nil {
		return fmt.Errorf("unable to write bad records from %s: %w", t.location, err)
	}
	t.pending = t.pending[:0]
	return nil
}

// CheckNullability returns an error naming the first non-nullable column of row which is nil
func CheckNullability(row sifread.Row) error {
	return row.Schema().ForEachColumn(func(name string, col sifread.Column) error {
		if !col.Nullable() && row.IsNil(name) {
			return fmt.Errorf("null value in non-nullable column %s", name)
		}
		return nil
	})
}
