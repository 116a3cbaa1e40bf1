package model

// DataSchema is the introspected structure of a registered data source.
// The DSL validator and compiler consult it for field existence and type
// checking; it is read-only once built.
type DataSchema struct {
	Tables []DataTable `json:"tables"`
}

// DataTable describes a single table (or, for file sources, the whole file).
type DataTable struct {
	Name        string         `json:"name"`
	Columns     []SchemaColumn `json:"columns"`
	ForeignKeys []ForeignKey   `json:"foreign_keys,omitempty"`
	RowCount    *int64         `json:"row_count,omitempty"`
}

// SchemaColumn describes one column of a table.
type SchemaColumn struct {
	Name     string     `json:"name"`
	Type     ColumnType `json:"type"`
	DBType   string     `json:"db_type,omitempty"`
	Nullable bool       `json:"nullable"`
}

// ForeignKey describes a foreign key relationship between two tables.
type ForeignKey struct {
	ColumnName       string `json:"column_name"`
	ReferencedTable  string `json:"referenced_table"`
	ReferencedColumn string `json:"referenced_column"`
}

// Table looks up a table by name. Returns nil if absent.
func (s *DataSchema) Table(name string) *DataTable {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// Column looks up a column by name. Returns nil if absent.
func (t *DataTable) Column(name string) *SchemaColumn {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// ColumnNames returns the table's column names in declaration order.
func (t *DataTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}
