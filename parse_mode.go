package sifread

import "strings"

// ParseMode determines how a Parser disposes of malformed records
type ParseMode string

const (
	// PermissiveMode keeps malformed records, setting unparseable fields to nil
	// and preserving the raw record in the corrupt record column, if the Schema has one
	PermissiveMode ParseMode = "PERMISSIVE"
	// DropMalformedMode silently discards malformed records
	DropMalformedMode ParseMode = "DROPMALFORMED"
	// FailFastMode aborts the read at the first malformed record
	FailFastMode ParseMode = "FAILFAST"
)

// DefaultCorruptRecordColumn is the default name of the column which holds the raw text of malformed records
const DefaultCorruptRecordColumn = "_corrupt_record"

// ParseModeFromString parses a ParseMode case-insensitively. The second return value is false
// iff mode was not recognized, in which case PermissiveMode is returned.
func ParseModeFromString(mode string) (ParseMode, bool) {
	switch ParseMode(strings.ToUpper(strings.TrimSpace(mode))) {
	case PermissiveMode, "":
		return PermissiveMode, true
	case DropMalformedMode:
		return DropMalformedMode, true
	case FailFastMode:
		return FailFastMode, true
	default:
		return PermissiveMode, false
	}
}
