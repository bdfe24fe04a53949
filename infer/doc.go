// Package infer deduces Schemas by sampling delimited and JSON records
package infer
