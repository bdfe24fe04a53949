package util

import (
	"fmt"

	"github.com/go-sif/sifread"
)

// SafeMapOperation wraps a MapOperation such that panics are recovered and nice error messages are constructed
func SafeMapOperation(mapOp sifread.MapOperation) (safeMapOp sifread.MapOperation) {
	return func(row sifread.Row) (err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Map Panic: %w\nRow: %s\n%s", anErr, row.ToString(), GetTrace())
				} else {
					err = fmt.Errorf("Map Panic: %v\nRow: %s\n%s", r, row.ToString(), GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("Map Error: %w\nRow: %s", err, row.ToString())
			}
		}()
		err = mapOp(row)
		return
	}
}

// SafeFilterOperation wraps a FilterOperation such that panics are recovered and nice error messages are constructed
func SafeFilterOperation(filterOp sifread.FilterOperation) (safeFilterOp sifread.FilterOperation) {
	return func(row sifread.Row) (keep bool, err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Filter Panic: %w\nRow: %s\n%s", anErr, row.ToString(), GetTrace())
				} else {
					err = fmt.Errorf("Filter Panic: %v\nRow: %s\n%s", r, row.ToString(), GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("Filter Error: %w\nRow: %s", err, row.ToString())
			}
		}()
		keep, err = filterOp(row)
		return
	}
}
