package parser

// Statement is the root interface for all SQL statements.
type Statement interface {
	stmtNode()
}

// ----- CREATE TABLE -----
// Only read back from the schema table to map column names to positions.
type ColumnDef struct {
	Name       string
	Type       string // declared type, upper-cased; may be empty
	PrimaryKey bool
	Desc       bool // PRIMARY KEY DESC
}

type CreateTableStmt struct {
	TableName    string
	Columns      []ColumnDef
	WithoutRowID bool
}

func (*CreateTableStmt) stmtNode() {}

// ----- SELECT -----
type SelectStmt struct {
	TableName string
	Columns   []string // nil means *
	Count     bool     // SELECT COUNT(*)
	Where     *WhereEq
	Limit     int // -1 when absent
}

func (*SelectStmt) stmtNode() {}

type WhereEq struct {
	Column string
	Value  Expr
}

// ----- Expressions -----
type Expr interface {
	exprNode()
}

type LiteralExpr struct {
	Value any // nil, int64, float64, string or []byte
}

func (*LiteralExpr) exprNode() {}
