package parquet

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/schema"
)

// FromArrowSchema converts an arrow Schema into a Schema
func FromArrowSchema(as *arrow.Schema) (sifread.Schema, error) {
	s := schema.CreateSchema()
	for _, field := range as.Fields() {
		colType, err := columnTypeOf(field)
		if err != nil {
			return nil, err
		}
		if field.Nullable {
			_, err = s.CreateColumn(field.Name, colType)
		} else {
			_, err = s.CreateNonNullableColumn(field.Name, colType)
		}
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func columnTypeOf(field arrow.Field) (sifread.ColumnType, error) {
	switch field.Type.ID() {
	case arrow.BOOL:
		return &sifread.BoolColumnType{}, nil
	case arrow.INT8, arrow.INT16, arrow.INT32:
		return &sifread.Int32ColumnType{}, nil
	case arrow.INT64:
		return &sifread.Int64ColumnType{}, nil
	case arrow.FLOAT32, arrow.FLOAT64:
		return &sifread.Float64ColumnType{}, nil
	case arrow.STRING, arrow.LARGE_STRING, arrow.BINARY:
		return &sifread.VarStringColumnType{}, nil
	case arrow.TIMESTAMP:
		return &sifread.TimeColumnType{}, nil
	case arrow.DATE32, arrow.DATE64:
		return &sifread.DateColumnType{}, nil
	default:
		return nil, fmt.Errorf("parquet column %s has unsupported type %s", field.Name, field.Type)
	}
}

// ToArrowSchema converts a Schema into an arrow Schema. Timestamps are stored in microseconds.
func ToArrowSchema(s sifread.Schema) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, s.NumColumns())
	err := s.ForEachColumn(func(name string, col sifread.Column) error {
		var dt arrow.DataType
		switch col.Type().(type) {
		case *sifread.BoolColumnType:
			dt = arrow.FixedWidthTypes.Boolean
		case *sifread.Int32ColumnType:
			dt = arrow.PrimitiveTypes.Int32
		case *sifread.Int64ColumnType:
			dt = arrow.PrimitiveTypes.Int64
		case *sifread.Float64ColumnType:
			dt = arrow.PrimitiveTypes.Float64
		case *sifread.VarStringColumnType:
			dt = arrow.BinaryTypes.String
		case *sifread.TimeColumnType:
			dt = arrow.FixedWidthTypes.Timestamp_us
		case *sifread.DateColumnType:
			dt = arrow.FixedWidthTypes.Date32
		default:
			return fmt.Errorf("column %s has type %s, which cannot be stored in parquet", name, col.Type().TypeName())
		}
		fields = append(fields, arrow.Field{Name: name, Type: dt, Nullable: col.Nullable()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return arrow.NewSchema(fields, nil), nil
}

// valueAt retrieves a value from an arrow Array as a native Go value
func valueAt(arr arrow.Array, idx int) (interface{}, error) {
	if arr.IsNull(idx) {
		return nil, nil
	}
	switch a := arr.(type) {
	case *array.Boolean:
		return a.Value(idx), nil
	case *array.Int8:
		return int32(a.Value(idx)), nil
	case *array.Int16:
		return int32(a.Value(idx)), nil
	case *array.Int32:
		return a.Value(idx), nil
	case *array.Int64:
		return a.Value(idx), nil
	case *array.Float32:
		return float64(a.Value(idx)), nil
	case *array.Float64:
		return a.Value(idx), nil
	case *array.String:
		return a.Value(idx), nil
	case *array.LargeString:
		return a.Value(idx), nil
	case *array.Binary:
		return string(a.Value(idx)), nil
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(idx).ToTime(unit).UTC(), nil
	case *array.Date32:
		return a.Value(idx).ToTime().UTC(), nil
	case *array.Date64:
		return a.Value(idx).ToTime().UTC(), nil
	default:
		return nil, fmt.Errorf("unsupported arrow array type %s", arr.DataType())
	}
}
