package sql

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-sif/sifread"
)

// truth is the result of a condition: comparisons involving NULL are unknown
type truth int

const (
	unknown truth = iota
	isFalse
	isTrue
)

func truthOf(b bool) truth {
	if b {
		return isTrue
	}
	return isFalse
}

type predicate func(row sifread.Row) (truth, error)

type valueFn func(row sifread.Row) (interface{}, error)

// resolveColumn finds the column of schema named name, preferring an exact match
// to a case-insensitive one
func resolveColumn(schema sifread.Schema, name string) (string, error) {
	if schema.HasColumn(name) {
		return name, nil
	}
	for _, candidate := range schema.ColumnNames() {
		if strings.EqualFold(candidate, name) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("cannot resolve column %s among (%s)", name, strings.Join(schema.ColumnNames(), ", "))
}

func bindOperand(schema sifread.Schema, o Operand) (valueFn, error) {
	if !o.IsColumn {
		v := o.Value
		return func(row sifread.Row) (interface{}, error) { return v, nil }, nil
	}
	name, err := resolveColumn(schema, o.Column)
	if err != nil {
		return nil, err
	}
	return func(row sifread.Row) (interface{}, error) {
		if row.IsNil(name) {
			return nil, nil
		}
		return row.Get(name)
	}, nil
}

// bind compiles a condition against the columns of a Schema
func bind(schema sifread.Schema, e Expr) (predicate, error) {
	switch e := e.(type) {
	case *ComparisonExpr:
		left, err := bindOperand(schema, e.Left)
		if err != nil {
			return nil, err
		}
		right, err := bindOperand(schema, e.Right)
		if err != nil {
			return nil, err
		}
		op := e.Op
		return func(row sifread.Row) (truth, error) {
			lv, err := left(row)
			if err != nil {
				return unknown, err
			}
			rv, err := right(row)
			if err != nil {
				return unknown, err
			}
			cmp, ok := compareValues(lv, rv)
			if !ok {
				return unknown, nil
			}
			return truthOf(applyComparison(op, cmp)), nil
		}, nil
	case *IsNullExpr:
		operand, err := bindOperand(schema, e.Operand)
		if err != nil {
			return nil, err
		}
		not := e.Not
		return func(row sifread.Row) (truth, error) {
			v, err := operand(row)
			if err != nil {
				return unknown, err
			}
			return truthOf((v == nil) != not), nil
		}, nil
	case *NotExpr:
		inner, err := bind(schema, e.Expr)
		if err != nil {
			return nil, err
		}
		return func(row sifread.Row) (truth, error) {
			t, err := inner(row)
			switch {
			case err != nil || t == unknown:
				return unknown, err
			case t == isTrue:
				return isFalse, nil
			default:
				return isTrue, nil
			}
		}, nil
	case *LogicalExpr:
		left, err := bind(schema, e.Left)
		if err != nil {
			return nil, err
		}
		right, err := bind(schema, e.Right)
		if err != nil {
			return nil, err
		}
		if e.Op == "AND" {
			return func(row sifread.Row) (truth, error) {
				l, err := left(row)
				if err != nil || l == isFalse {
					return isFalse, err
				}
				r, err := right(row)
				if err != nil || r == isFalse {
					return isFalse, err
				}
				if l == isTrue && r == isTrue {
					return isTrue, nil
				}
				return unknown, nil
			}, nil
		}
		return func(row sifread.Row) (truth, error) {
			l, err := left(row)
			if err != nil || l == isTrue {
				return l, err
			}
			r, err := right(row)
			if err != nil || r == isTrue {
				return r, err
			}
			if l == isFalse && r == isFalse {
				return isFalse, nil
			}
			return unknown, nil
		}, nil
	}
	return nil, fmt.Errorf("unsupported expression %s", e)
}

func applyComparison(op string, cmp int) bool {
	switch op {
	case "=":
		return cmp == 0
	case "!=":
		return cmp != 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	default:
		return cmp >= 0
	}
}

// timeLayouts are tried, in order, when comparing a string to a timestamp or date
var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"}

// compareValues orders two values, returning false if either is nil or they
// cannot be compared. Strings are converted to the type of the other value.
func compareValues(a interface{}, b interface{}) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	a, b = normalize(a), normalize(b)
	if s, ok := a.(string); ok {
		if _, other := b.(string); !other {
			converted, ok := convertString(s, b)
			if !ok {
				return 0, false
			}
			a = converted
		}
	} else if s, ok := b.(string); ok {
		converted, ok := convertString(s, a)
		if !ok {
			return 0, false
		}
		b = converted
	}

	switch av := a.(type) {
	case int64:
		switch bv := b.(type) {
		case int64:
			return compareOrdered(av, bv), true
		case float64:
			return compareOrdered(float64(av), bv), true
		}
	case float64:
		switch bv := b.(type) {
		case int64:
			return compareOrdered(av, float64(bv)), true
		case float64:
			return compareOrdered(av, bv), true
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv), true
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return compareOrdered(boolRank(av), boolRank(bv)), true
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv), true
		}
	}
	return 0, false
}

func normalize(v interface{}) interface{} {
	switch v := v.(type) {
	case int32:
		return int64(v)
	case int:
		return int64(v)
	default:
		return v
	}
}

// convertString converts s to the type of like
func convertString(s string, like interface{}) (interface{}, bool) {
	s = strings.TrimSpace(s)
	switch like.(type) {
	case int64, float64:
		if v, err := parseNumber(s); err == nil {
			return v, true
		}
	case bool:
		if v, err := strconv.ParseBool(s); err == nil {
			return v, true
		}
	case time.Time:
		for _, layout := range timeLayouts {
			if v, err := time.Parse(layout, s); err == nil {
				return v, true
			}
		}
	}
	return nil, false
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func compareOrdered[T int | int64 | float64](a T, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
