package sql

import (
	"fmt"
	"strings"
)

// StatementType represents the type of SQL statement.
type StatementType int

const (
	StmtSelect StatementType = iota
	StmtShowTables
	StmtDescribe
)

// Statement is a parsed query
type Statement interface {
	Type() StatementType
}

// SelectItem is an entry in the projection of a SELECT: either * or a column with an optional alias
type SelectItem struct {
	Star   bool
	Column string
	Alias  string
}

// SelectStatement: SELECT <items> FROM <table> [WHERE <cond>] [LIMIT <n>]
type SelectStatement struct {
	Table string
	Items []SelectItem
	Where Expr // nil if absent
	Limit int  // -1 if absent
}

func (s *SelectStatement) Type() StatementType { return StmtSelect }

// ShowTablesStatement: SHOW TABLES
type ShowTablesStatement struct{}

func (s *ShowTablesStatement) Type() StatementType { return StmtShowTables }

// DescribeStatement: DESCRIBE <table>
type DescribeStatement struct {
	Table string
}

func (s *DescribeStatement) Type() StatementType { return StmtDescribe }

// Expr is a condition in a WHERE clause
type Expr interface {
	String() string
}

// Operand is a column reference or a literal value. Literal values are
// int64, float64, string, bool, or nil for NULL.
type Operand struct {
	IsColumn bool
	Column   string
	Value    interface{}
}

func (o Operand) String() string {
	if o.IsColumn {
		return o.Column
	}
	switch v := o.Value.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ComparisonExpr: <operand> <op> <operand>. Op is one of = != < <= > >=.
type ComparisonExpr struct {
	Left  Operand
	Op    string
	Right Operand
}

func (e *ComparisonExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

// IsNullExpr: <operand> IS [NOT] NULL
type IsNullExpr struct {
	Operand Operand
	Not     bool
}

func (e *IsNullExpr) String() string {
	if e.Not {
		return fmt.Sprintf("(%s IS NOT NULL)", e.Operand)
	}
	return fmt.Sprintf("(%s IS NULL)", e.Operand)
}

// LogicalExpr: <expr> AND|OR <expr>
type LogicalExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

func (e *LogicalExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

// NotExpr: NOT <expr>
type NotExpr struct {
	Expr Expr
}

func (e *NotExpr) String() string {
	return fmt.Sprintf("(NOT %s)", e.Expr)
}
