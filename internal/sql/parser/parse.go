package parser

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// unquote strips "x", `x` or [x] quoting. Doubled quote characters inside
// "..." and `...` collapse to one.
func unquote(s string) (string, bool) {
	if len(s) < 2 {
		return s, false
	}
	switch open, end := s[0], s[len(s)-1]; {
	case open == '"' && end == '"':
		return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`), true
	case open == '`' && end == '`':
		return strings.ReplaceAll(s[1:len(s)-1], "``", "`"), true
	case open == '[' && end == ']':
		return s[1 : len(s)-1], true
	}
	return s, false
}

// parseIdent validates an identifier (table/column name).
// Rules (simple):
//   - must be exactly one token, or one quoted name
//   - bare names: first char letter or '_', rest letter/digit/'_'/'$'
func parseIdent(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("missing identifier")
	}
	if id, ok := unquote(s); ok {
		if id == "" {
			return "", fmt.Errorf("empty quoted identifier")
		}
		return id, nil
	}

	parts := strings.Fields(s)
	if len(parts) != 1 {
		return "", fmt.Errorf("invalid identifier %q", s)
	}
	id := parts[0]

	for i, r := range id {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return "", fmt.Errorf("invalid identifier %q", id)
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$' {
			return "", fmt.Errorf("invalid identifier %q", id)
		}
	}
	return id, nil
}

// parseQualifiedIdent accepts "name" or "schema.name" and returns name.
func parseQualifiedIdent(s string) (string, error) {
	parts := splitTopLevel(strings.TrimSpace(s), '.')
	if len(parts) == 2 {
		if _, err := parseIdent(parts[0]); err != nil {
			return "", err
		}
		return parseIdent(parts[1])
	}
	return parseIdent(s)
}

// Parse parses a single SQL statement into an AST. A trailing ';' is
// optional.
func Parse(sql string) (Statement, error) {
	s := strings.TrimSpace(sql)
	s = strings.TrimSpace(strings.TrimSuffix(s, ";"))
	if s == "" {
		return nil, fmt.Errorf("empty statement")
	}

	up := strings.ToUpper(s)

	switch {
	case strings.HasPrefix(up, "CREATE TABLE"),
		strings.HasPrefix(up, "CREATE TEMP TABLE"),
		strings.HasPrefix(up, "CREATE TEMPORARY TABLE"):
		return parseCreateTable(s)
	case strings.HasPrefix(up, "SELECT"):
		return parseSelect(s)
	default:
		return nil, fmt.Errorf("unsupported statement: %q", sql)
	}
}

// ParseCreateTable parses the CREATE TABLE text stored in the schema table.
func ParseCreateTable(sql string) (*CreateTableStmt, error) {
	stmt, err := Parse(sql)
	if err != nil {
		return nil, err
	}
	ct, ok := stmt.(*CreateTableStmt)
	if !ok {
		return nil, fmt.Errorf("not a CREATE TABLE statement: %q", sql)
	}
	return ct, nil
}

// column constraint keywords end the declared type
var constraintWords = map[string]bool{
	"CONSTRAINT": true, "PRIMARY": true, "NOT": true, "NULL": true,
	"UNIQUE": true, "CHECK": true, "DEFAULT": true, "COLLATE": true,
	"REFERENCES": true, "GENERATED": true, "AS": true,
}

// table constraints start a definition instead of a column name
var tableConstraintWords = map[string]bool{
	"CONSTRAINT": true, "PRIMARY": true, "UNIQUE": true, "CHECK": true, "FOREIGN": true,
}

func parseCreateTable(sql string) (Statement, error) {
	// "CREATE [TEMP] TABLE [IF NOT EXISTS] name (defs) [WITHOUT ROWID]"
	open := strings.IndexByte(sql, '(')
	closeIdx := strings.LastIndexByte(sql, ')')
	if open < 0 || closeIdx < open {
		return nil, fmt.Errorf("invalid CREATE TABLE syntax")
	}

	head := strings.Fields(sql[:open])
	// drop CREATE, optional TEMP/TEMPORARY, TABLE
	i := 1
	if up := strings.ToUpper(head[i]); up == "TEMP" || up == "TEMPORARY" {
		i++
	}
	i++
	if len(head) >= i+3 && strings.EqualFold(strings.Join(head[i:i+3], " "), "IF NOT EXISTS") {
		i += 3
	}
	tableName, err := parseQualifiedIdent(strings.Join(head[i:], " "))
	if err != nil {
		return nil, fmt.Errorf("invalid CREATE TABLE syntax: %w", err)
	}

	defPart := strings.TrimSpace(sql[open+1 : closeIdx])
	if defPart == "" {
		return nil, fmt.Errorf("invalid CREATE TABLE syntax: empty column list")
	}

	stmt := &CreateTableStmt{TableName: tableName}
	tail := strings.ToUpper(strings.Join(strings.Fields(sql[closeIdx+1:]), " "))
	stmt.WithoutRowID = strings.Contains(tail, "WITHOUT ROWID")

	var tablePK []string
	for _, def := range splitTopLevel(defPart, ',') {
		def = strings.TrimSpace(def)
		toks := tokens(def)
		if len(toks) == 0 {
			return nil, fmt.Errorf("invalid column def: %q", def)
		}

		if tableConstraintWords[strings.ToUpper(toks[0])] {
			if cols, ok := primaryKeyColumns(def); ok {
				tablePK = cols
			}
			continue
		}

		col, err := parseColumnDef(toks)
		if err != nil {
			return nil, err
		}
		stmt.Columns = append(stmt.Columns, col)
	}

	if len(stmt.Columns) == 0 {
		return nil, fmt.Errorf("invalid CREATE TABLE syntax: no columns")
	}

	// PRIMARY KEY (col) as a table constraint marks a single column
	if len(tablePK) == 1 {
		for i := range stmt.Columns {
			if strings.EqualFold(stmt.Columns[i].Name, tablePK[0]) {
				stmt.Columns[i].PrimaryKey = true
			}
		}
	}
	return stmt, nil
}

func parseColumnDef(toks []string) (ColumnDef, error) {
	name, err := parseIdent(toks[0])
	if err != nil {
		return ColumnDef{}, fmt.Errorf("invalid column name: %w", err)
	}

	col := ColumnDef{Name: name}
	j := 1
	var typ []string
	for ; j < len(toks) && !constraintWords[strings.ToUpper(toks[j])]; j++ {
		typ = append(typ, toks[j])
	}
	col.Type = strings.ToUpper(strings.Join(typ, " "))

	for ; j < len(toks); j++ {
		if strings.EqualFold(toks[j], "PRIMARY") && j+1 < len(toks) && strings.EqualFold(toks[j+1], "KEY") {
			col.PrimaryKey = true
			if j+2 < len(toks) && strings.EqualFold(toks[j+2], "DESC") {
				col.Desc = true
			}
		}
	}
	return col, nil
}

// primaryKeyColumns extracts the names in "[CONSTRAINT x] PRIMARY KEY (a, b)".
func primaryKeyColumns(def string) ([]string, bool) {
	up := strings.ToUpper(def)
	k := strings.Index(up, "PRIMARY KEY")
	if k < 0 {
		return nil, false
	}
	rest := def[k+len("PRIMARY KEY"):]
	open := strings.IndexByte(rest, '(')
	closeIdx := strings.LastIndexByte(rest, ')')
	if open < 0 || closeIdx < open {
		return nil, false
	}
	var cols []string
	for _, part := range splitTopLevel(rest[open+1:closeIdx], ',') {
		f := tokens(strings.TrimSpace(part))
		if len(f) == 0 {
			continue
		}
		name, err := parseIdent(f[0])
		if err != nil {
			return nil, false
		}
		cols = append(cols, name)
	}
	return cols, true
}

func parseSelect(sql string) (Statement, error) {
	// "SELECT <*|COUNT(*)|cols> FROM t [WHERE col = literal] [LIMIT n]"
	rest := strings.TrimSpace(sql[len("SELECT"):])
	projPart, fromPart := splitKeyword(rest, "FROM")
	if strings.TrimSpace(fromPart) == "" {
		return nil, fmt.Errorf("invalid SELECT syntax: missing FROM")
	}

	stmt := &SelectStmt{Limit: -1}

	fromPart, limitPart := splitKeyword(fromPart, "LIMIT")
	tablePart, wherePart := splitKeyword(fromPart, "WHERE")

	tableName, err := parseQualifiedIdent(tablePart)
	if err != nil {
		return nil, fmt.Errorf("invalid SELECT syntax: %w", err)
	}
	stmt.TableName = tableName

	proj := strings.TrimSpace(projPart)
	switch {
	case proj == "*":
	case strings.EqualFold(strings.Join(strings.Fields(proj), ""), "COUNT(*)"):
		stmt.Count = true
	default:
		for _, c := range splitComma(proj) {
			name, err := parseIdent(c)
			if err != nil {
				return nil, fmt.Errorf("invalid SELECT column: %w", err)
			}
			stmt.Columns = append(stmt.Columns, name)
		}
		if len(stmt.Columns) == 0 {
			return nil, fmt.Errorf("invalid SELECT syntax: empty column list")
		}
	}

	if strings.TrimSpace(wherePart) != "" {
		w, err := parseWhereEq(wherePart)
		if err != nil {
			return nil, err
		}
		stmt.Where = w
	}

	if strings.TrimSpace(limitPart) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(limitPart))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid LIMIT: %q", limitPart)
		}
		stmt.Limit = n
	}

	return stmt, nil
}

func parseWhereEq(s string) (*WhereEq, error) {
	// very naive: "col = literal"
	s = strings.TrimSpace(s)
	kv := strings.SplitN(s, "=", 2)
	if len(kv) != 2 {
		return nil, fmt.Errorf("only WHERE <col> = <literal> supported")
	}

	col, err := parseIdent(kv[0])
	if err != nil {
		return nil, fmt.Errorf("invalid WHERE column: %w", err)
	}

	lit, err := parseLiteral(strings.TrimSpace(kv[1]))
	if err != nil {
		return nil, err
	}

	return &WhereEq{
		Column: col,
		Value:  &LiteralExpr{Value: lit},
	}, nil
}

func parseLiteral(rv string) (any, error) {
	up := strings.ToUpper(rv)

	switch up {
	case "NULL":
		return nil, nil
	case "TRUE":
		return int64(1), nil
	case "FALSE":
		return int64(0), nil
	}

	// BLOB x'..'
	if len(rv) >= 3 && (rv[0] == 'x' || rv[0] == 'X') && rv[1] == '\'' && rv[len(rv)-1] == '\'' {
		b, err := hex.DecodeString(rv[2 : len(rv)-1])
		if err != nil {
			return nil, fmt.Errorf("invalid blob literal %q: %w", rv, err)
		}
		return b, nil
	}

	// STRING (single quotes, '' escapes a quote)
	if len(rv) >= 2 && rv[0] == '\'' && rv[len(rv)-1] == '\'' {
		return strings.ReplaceAll(rv[1:len(rv)-1], "''", "'"), nil
	}

	if i, err := strconv.ParseInt(rv, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(rv, 64); err == nil {
		return f, nil
	}

	return nil, fmt.Errorf("unsupported literal: %q", rv)
}

// splitKeyword splits "X <keyword> Y" case-insensitively at the first
// occurrence outside quotes. returns (X, Y). If keyword not present => (s, "").
//
// NOTE: requires whitespace around keyword.
func splitKeyword(s, keyword string) (string, string) {
	up := strings.ToUpper(s)
	k := strings.ToUpper(keyword)
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
			continue
		}
		if !isSpace(c) || !strings.HasPrefix(up[i+1:], k) {
			continue
		}
		end := i + 1 + len(k)
		if end < len(s) && !isSpace(s[end]) {
			continue
		}
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[end:])
	}
	return s, ""
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

// splitComma splits a comma-separated list, ignoring commas inside quotes
// and parentheses.
func splitComma(s string) []string {
	return splitTopLevel(s, ',')
}

// splitTopLevel splits on sep outside quotes and parentheses. Empty
// trailing parts are dropped.
func splitTopLevel(s string, sep rune) []string {
	parts := []string{}
	cur := strings.Builder{}
	depth := 0
	var quote rune
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote || (quote == '[' && r == ']') {
				quote = 0
			}
		case r == '\'' || r == '"' || r == '`' || r == '[':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			depth--
		case r == sep && depth == 0:
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	if strings.TrimSpace(cur.String()) != "" {
		parts = append(parts, cur.String())
	}
	return parts
}

// tokens splits a definition on whitespace, keeping quoted names and
// parenthesized groups together.
func tokens(s string) []string {
	var out []string
	cur := strings.Builder{}
	depth := 0
	var quote rune
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote || (quote == '[' && r == ']') {
				quote = 0
			}
		case r == '\'' || r == '"' || r == '`' || r == '[':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			depth--
		case unicode.IsSpace(r) && depth == 0:
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return out
}
