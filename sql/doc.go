// Package sql implements the small SQL dialect understood by a session:
//
//	SELECT <* | col [AS alias], ...> FROM <table> [WHERE cond] [LIMIT n]
//	SHOW TABLES
//	DESCRIBE <table>
//
// Conditions compare columns and literals (= != <> < <= > >=), test for
// nulls with IS [NOT] NULL, and combine with AND, OR, NOT and parentheses.
// Identifiers may be quoted with backticks. Keywords and column names are
// case-insensitive. Statements are planned into DataFrames.
package sql
