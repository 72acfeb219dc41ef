package catalog

import (
	"strings"

	"github.com/tuannm99/litescan/internal/sql/parser"
)

// Schema table columns, in record order.
const (
	colType = iota
	colName
	colTableName
	colRootPage
	colSQL
)

// SchemaPage is the root of the schema table.
const SchemaPage = 1

// Entry is one row of the schema table.
type Entry struct {
	Type      string `json:"type"` // table, index, view or trigger
	Name      string `json:"name"`
	TableName string `json:"tbl_name"`
	RootPage  uint32 `json:"rootpage"`
	SQL       string `json:"sql"`
}

// TableMeta maps a table's column names to record positions.
type TableMeta struct {
	Name     string             `json:"name"`
	RootPage uint32             `json:"root_page"`
	Columns  []parser.ColumnDef `json:"columns"`

	// RowIDColumn is the INTEGER PRIMARY KEY column, whose stored value is
	// NULL and whose real value is the rowid. -1 when absent.
	RowIDColumn  int  `json:"rowid_column"`
	WithoutRowID bool `json:"without_rowid"`
}

func (m *TableMeta) ColumnNames() []string {
	out := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		out[i] = c.Name
	}
	return out
}

// ColumnIndex finds a column by case-insensitive name, or -1.
func (m *TableMeta) ColumnIndex(name string) int {
	for i, c := range m.Columns {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}
