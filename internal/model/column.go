package model

// ColumnType is the inferred storage type of a data column. It is a
// heuristic snapshot, not an authoritative schema type, and may be
// overridden by explicit hints from the caller.
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
	TypeDate        ColumnType = "date"
	TypeID          ColumnType = "id"
	TypeText        ColumnType = "text"
)

// Role is the semantic classification of a column, derived from its type,
// name, and cardinality. Distinct from ColumnType: a numeric column may be
// a measure or an id depending on its cardinality.
type Role string

const (
	RoleMeasure   Role = "measure"
	RoleDimension Role = "dimension"
	RoleTime      Role = "time"
	RoleHierarchy Role = "hierarchy"
	RoleID        Role = "id"
	RoleText      Role = "text"
)

// Row is a single data record keyed by column name. Values are untyped:
// string, float64, int64, bool, or nil depending on the source.
type Row map[string]any

// ColumnStats holds summary statistics for a numeric column.
type ColumnStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// ValueCount is one entry of a column's most frequent values.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Column is an immutable snapshot of a single data column, computed once
// per dataset by schema inference. Invariants: UniqueCount <= TotalCount,
// NullCount plus the non-null count equals TotalCount.
type Column struct {
	Name         string       `json:"name"`
	Type         ColumnType   `json:"type"`
	SampleValues []any        `json:"sample_values,omitempty"`
	UniqueCount  int          `json:"unique_count"`
	NullCount    int          `json:"null_count"`
	TotalCount   int          `json:"total_count"`
	Stats        *ColumnStats `json:"stats,omitempty"`
	TopValues    []ValueCount `json:"top_values,omitempty"`
}

// ClassifiedColumn is a Column plus its derived semantic role. The role is
// recomputed whenever columns are reclassified, never persisted.
type ClassifiedColumn struct {
	Column
	Role Role `json:"role"`
}
