// Package dsv provides a DataSourceParser for delimiter-separated values, such as CSV
package dsv
