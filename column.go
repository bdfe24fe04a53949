package sifread

// Column describes the position, type and nullability
// of a field within a Row.
type Column interface {
	Clone() Column         // Clone returns a copy of this Column
	Index() int            // Index returns the index of this Column within a Schema
	SetIndex(newIndex int) // Modifies the Index of this Column within a Schema
	Type() ColumnType      // Type returns the ColumnType of this Column
	Nullable() bool        // Nullable returns true iff this Column may contain nil values
}
