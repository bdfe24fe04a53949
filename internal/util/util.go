package util

import (
	"fmt"
	"runtime"
	"strings"
)

// GetTrace produces the string representation of a stack trace
func GetTrace() string {
	var name, file string
	var line int
	var pc [16]uintptr
	var res strings.Builder
	n := runtime.Callers(3, pc[:])
	for _, pc := range pc[:n] {
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		file, line = fn.FileLine(pc)
		name = fn.Name()
		if !strings.HasPrefix(name, "runtime.") {
			fmt.Fprintf(&res, "%s\n\t%s:%d\n", name, file, line)
		}
	}
	return res.String()
}

// FormatMultiError formats multierrors for logging. It satisfies multierror.ErrorFormatFunc.
func FormatMultiError(merrs []error) string {
	if len(merrs) == 1 {
		return merrs[0].Error()
	}
	var res strings.Builder
	fmt.Fprintf(&res, "%d errors occurred:\n", len(merrs))
	for i := 0; i < len(merrs); i++ {
		fmt.Fprintf(&res, "%+v\n", merrs[i])
	}
	return res.String()
}
