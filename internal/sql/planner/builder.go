package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tuannm99/litescan/internal/catalog"
	"github.com/tuannm99/litescan/internal/sql/parser"
)

var ErrReadOnly = errors.New("planner: database is opened read-only")

// TableLookup resolves table names to their column layout.
type TableLookup interface {
	Table(name string) (*catalog.TableMeta, error)
}

// BuildPlan builds a physical plan from an AST Statement.
func BuildPlan(stmt parser.Statement, tables TableLookup) (Plan, error) {
	switch s := stmt.(type) {
	case *parser.SelectStmt:
		return buildSelectPlan(s, tables)
	case *parser.CreateTableStmt:
		return nil, fmt.Errorf("%w: CREATE TABLE %s", ErrReadOnly, s.TableName)
	default:
		return nil, fmt.Errorf("planner: unsupported statement type %T", stmt)
	}
}

func buildSelectPlan(s *parser.SelectStmt, tables TableLookup) (Plan, error) {
	if tables == nil {
		return nil, fmt.Errorf("planner: no table lookup for SELECT")
	}
	meta, err := tables.Table(s.TableName)
	if err != nil {
		return nil, err
	}

	var where *WhereEq
	if s.Where != nil {
		where, err = resolveWhere(meta, s.Where)
		if err != nil {
			return nil, err
		}
	}

	if s.Count {
		return &CountPlan{TableName: meta.Name, Where: where, Limit: s.Limit}, nil
	}

	out, err := resolveProjection(meta, s.Columns)
	if err != nil {
		return nil, err
	}

	if where != nil && where.Pos == RowIDPos {
		if id, ok := where.Value.(int64); ok {
			return &RowIDLookupPlan{TableName: meta.Name, Output: out, RowID: id, Limit: s.Limit}, nil
		}
	}
	return &SeqScanPlan{TableName: meta.Name, Output: out, Where: where, Limit: s.Limit}, nil
}

// columnPos maps a name to a record position. The INTEGER PRIMARY KEY column
// and the rowid/oid/_rowid_ pseudo-columns read the rowid, unless a declared
// column shadows the pseudo name.
func columnPos(meta *catalog.TableMeta, name string) (int, error) {
	if i := meta.ColumnIndex(name); i >= 0 {
		if i == meta.RowIDColumn {
			return RowIDPos, nil
		}
		return i, nil
	}
	switch strings.ToLower(name) {
	case "rowid", "oid", "_rowid_":
		return RowIDPos, nil
	}
	return 0, fmt.Errorf("planner: unknown column %q in table %s", name, meta.Name)
}

func resolveProjection(meta *catalog.TableMeta, cols []string) (Projection, error) {
	if cols == nil {
		p := Projection{Names: meta.ColumnNames(), Positions: make([]int, len(meta.Columns))}
		for i := range meta.Columns {
			p.Positions[i] = i
			if i == meta.RowIDColumn {
				p.Positions[i] = RowIDPos
			}
		}
		return p, nil
	}

	p := Projection{Names: make([]string, 0, len(cols)), Positions: make([]int, 0, len(cols))}
	for _, c := range cols {
		pos, err := columnPos(meta, c)
		if err != nil {
			return Projection{}, err
		}
		p.Names = append(p.Names, c)
		p.Positions = append(p.Positions, pos)
	}
	return p, nil
}

func resolveWhere(meta *catalog.TableMeta, w *parser.WhereEq) (*WhereEq, error) {
	lit, ok := w.Value.(*parser.LiteralExpr)
	if !ok {
		return nil, fmt.Errorf("planner: only literal expressions supported in WHERE")
	}
	pos, err := columnPos(meta, w.Column)
	if err != nil {
		return nil, err
	}
	return &WhereEq{Column: w.Column, Pos: pos, Value: lit.Value}, nil
}
