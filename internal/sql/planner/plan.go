package planner

// Plan is the interface for executable plans.
type Plan interface {
	planNode()
}

// RowIDPos marks an output column that reads the rowid instead of a record
// position.
const RowIDPos = -1

// Projection is the resolved output column list.
type Projection struct {
	Names     []string
	Positions []int // record positions, or RowIDPos
}

// WhereEq is a resolved `column = literal` filter.
type WhereEq struct {
	Column string
	Pos    int // record position, or RowIDPos
	Value  any
}

// ----- Plan nodes -----

type SeqScanPlan struct {
	TableName string
	Output    Projection
	Where     *WhereEq
	Limit     int // -1 = no limit
}

func (*SeqScanPlan) planNode() {}

// RowIDLookupPlan descends the table tree straight to one rowid.
type RowIDLookupPlan struct {
	TableName string
	Output    Projection
	RowID     int64
	Limit     int
}

func (*RowIDLookupPlan) planNode() {}

// CountPlan counts rows. Without a filter it walks leaf pages only.
type CountPlan struct {
	TableName string
	Where     *WhereEq
	Limit     int
}

func (*CountPlan) planNode() {}
