package engine

// IndexMeta describes one index recorded in the schema table.
type IndexMeta struct {
	Name     string `json:"name"`
	Table    string `json:"table"`
	RootPage uint32 `json:"root_page"`
	// SQL is empty for indexes the engine creates for UNIQUE and
	// PRIMARY KEY constraints.
	SQL string `json:"sql"`
}

func (m IndexMeta) Automatic() bool { return m.SQL == "" }

// ListIndexes returns the indexes of a table in schema order.
func (db *Database) ListIndexes(table string) ([]IndexMeta, error) {
	m, err := db.Table(table)
	if err != nil {
		return nil, err
	}
	c, err := db.Catalog()
	if err != nil {
		return nil, err
	}

	var out []IndexMeta
	for _, e := range c.Indexes(m.Name) {
		out = append(out, IndexMeta{Name: e.Name, Table: e.TableName, RootPage: e.RootPage, SQL: e.SQL})
	}
	return out, nil
}
