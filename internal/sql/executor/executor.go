package executor

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/tuannm99/litescan/internal/catalog"
	"github.com/tuannm99/litescan/internal/engine"
	"github.com/tuannm99/litescan/internal/sql/parser"
	"github.com/tuannm99/litescan/internal/sql/planner"
)

// rowIter is the cursor shape of *engine.Rows.
type rowIter interface {
	Next() bool
	Row() engine.Row
	Err() error
}

// executorDB is a small seam for unit-testing Executor without a real DB.
type executorDB interface {
	Table(name string) (*catalog.TableMeta, error)
	Rows(name string) (rowIter, error)
	CountRows(name string) (int, error)
	FindRow(name string, rowid int64) (engine.Row, bool, error)
}

// realDB adapts *engine.Database to executorDB.
type realDB struct {
	db *engine.Database
}

func (r realDB) Table(name string) (*catalog.TableMeta, error) { return r.db.Table(name) }
func (r realDB) Rows(name string) (rowIter, error)              { return r.db.Rows(name) }
func (r realDB) CountRows(name string) (int, error)             { return r.db.CountRows(name) }
func (r realDB) FindRow(name string, rowid int64) (engine.Row, bool, error) {
	return r.db.FindRow(name, rowid)
}

// Executor executes a plan against a Database.
type Executor struct {
	DB executorDB
}

func NewExecutor(db *engine.Database) *Executor {
	return &Executor{DB: realDB{db: db}}
}

func NewExecutorForTest(db executorDB) *Executor {
	return &Executor{DB: db}
}

// ExecSQL is the top-level entry: SQL string -> Result.
func (e *Executor) ExecSQL(sql string) (*Result, error) {
	stmt, err := parser.Parse(sql)
	if err != nil {
		return nil, err
	}
	plan, err := planner.BuildPlan(stmt, e.DB)
	if err != nil {
		return nil, err
	}
	return e.execPlan(plan)
}

func (e *Executor) execPlan(p planner.Plan) (*Result, error) {
	switch plan := p.(type) {
	case *planner.SeqScanPlan:
		return e.execSeqScan(plan)
	case *planner.RowIDLookupPlan:
		return e.execRowIDLookup(plan)
	case *planner.CountPlan:
		return e.execCount(plan)
	default:
		return nil, fmt.Errorf("executor: unsupported plan type %T", p)
	}
}

func (e *Executor) execSeqScan(p *planner.SeqScanPlan) (*Result, error) {
	res := &Result{Columns: p.Output.Names}

	err := e.scan(p.TableName, p.Where, func(row engine.Row) bool {
		if p.Limit >= 0 && len(res.Rows) >= p.Limit {
			return false
		}
		res.Rows = append(res.Rows, project(p.Output, row))
		return true
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Executor) execRowIDLookup(p *planner.RowIDLookupPlan) (*Result, error) {
	res := &Result{Columns: p.Output.Names}
	if p.Limit == 0 {
		return res, nil
	}

	row, ok, err := e.DB.FindRow(p.TableName, p.RowID)
	if err != nil {
		return nil, err
	}
	if ok {
		res.Rows = append(res.Rows, project(p.Output, row))
	}
	return res, nil
}

func (e *Executor) execCount(p *planner.CountPlan) (*Result, error) {
	res := &Result{Columns: []string{"COUNT(*)"}}
	if p.Limit == 0 {
		return res, nil
	}

	var n int
	var err error
	if p.Where == nil {
		n, err = e.DB.CountRows(p.TableName)
	} else {
		err = e.scan(p.TableName, p.Where, func(engine.Row) bool {
			n++
			return true
		})
	}
	if err != nil {
		return nil, err
	}

	res.Rows = append(res.Rows, []any{int64(n)})
	return res, nil
}

// scan feeds fn every row matching w until fn returns false.
func (e *Executor) scan(table string, w *planner.WhereEq, fn func(engine.Row) bool) error {
	rows, err := e.DB.Rows(table)
	if err != nil {
		return err
	}

	scanned := 0
	for rows.Next() {
		scanned++
		row := rows.Row()
		if w != nil && !matchWhere(w, row) {
			continue
		}
		if !fn(row) {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	slog.Debug("executor: scan", "table", table, "rows", scanned)
	return nil
}

func project(out planner.Projection, row engine.Row) []any {
	vals := make([]any, len(out.Positions))
	for i, pos := range out.Positions {
		vals[i] = columnValue(row, pos)
	}
	return vals
}

// columnValue widens every integer width to int64 so callers see one type.
func columnValue(row engine.Row, pos int) any {
	if pos == planner.RowIDPos {
		return row.RowID
	}
	if pos >= len(row.Columns) {
		return nil
	}
	c := row.Columns[pos]
	if i, ok := c.Int(); ok {
		return i
	}
	return c.Value
}

// matchWhere applies `=` without column affinity: NULL matches nothing,
// integers and floats compare numerically, text and blobs compare bytewise,
// and mixed storage classes never match.
func matchWhere(w *planner.WhereEq, row engine.Row) bool {
	got := columnValue(row, w.Pos)
	want := w.Value
	if got == nil || want == nil {
		return false
	}

	if gf, ok := numeric(got); ok {
		wf, ok := numeric(want)
		if !ok {
			return false
		}
		gi, gInt := got.(int64)
		wi, wInt := want.(int64)
		if gInt && wInt {
			return gi == wi
		}
		return gf == wf
	}

	switch g := got.(type) {
	case string:
		s, ok := want.(string)
		return ok && g == s
	case []byte:
		b, ok := want.([]byte)
		return ok && bytes.Equal(g, b)
	}
	return false
}

func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
