package infer

import (
	"github.com/go-sif/sifread"
)

// kind is a position in the type widening lattice used during inference
type kind int

const (
	nullKind kind = iota
	intKind
	longKind
	doubleKind
	timestampKind
	booleanKind
	stringKind
)

// merge widens two kinds to the narrowest kind which can represent both
func merge(a kind, b kind) kind {
	switch {
	case a == b:
		return a
	case a == nullKind:
		return b
	case b == nullKind:
		return a
	case isNumeric(a) && isNumeric(b):
		if a > b {
			return a
		}
		return b
	default:
		return stringKind
	}
}

func isNumeric(k kind) bool {
	return k == intKind || k == longKind || k == doubleKind
}

// columnType produces the ColumnType for a kind. An all-null column is a string.
func (k kind) columnType(timestampFormat string) sifread.ColumnType {
	switch k {
	case intKind:
		return &sifread.Int32ColumnType{}
	case longKind:
		return &sifread.Int64ColumnType{}
	case doubleKind:
		return &sifread.Float64ColumnType{}
	case timestampKind:
		return &sifread.TimeColumnType{Format: timestampFormat}
	case booleanKind:
		return &sifread.BoolColumnType{}
	default:
		return &sifread.VarStringColumnType{}
	}
}
