package main

import (
	"fmt"
	"io"

	"github.com/tuannm99/litescan/internal/engine"
)

func printInfo(w io.Writer, db *engine.Database, verbose bool) error {
	if _, err := fmt.Fprintf(w, "database page size: %d\ndatabase page count: %d\n",
		db.PageSize(), db.PageCount()); err != nil {
		return err
	}
	if !verbose {
		return nil
	}

	h := db.Header()
	st := db.CacheStats()
	_, err := fmt.Fprintf(w,
		"reserved bytes: %d\nschema format: %d\ntext encoding: %d\ncache: hits=%d misses=%d evictions=%d\n",
		h.ReservedBytes, h.SchemaFormat, h.TextEncoding, st.Hits, st.Misses, st.Evictions)
	return err
}

func printTables(w io.Writer, db *engine.Database) error {
	names, err := db.TableNames()
	if err != nil {
		return err
	}
	for _, n := range names {
		if _, err := fmt.Fprintln(w, n); err != nil {
			return err
		}
	}
	return nil
}

func printSchema(w io.Writer, db *engine.Database) error {
	c, err := db.Catalog()
	if err != nil {
		return err
	}
	for _, e := range c.Entries {
		sql := e.SQL
		if sql == "" {
			sql = "-- automatic"
		}
		if _, err := fmt.Fprintf(w, "%-7s %-24s root=%-4d %s\n", e.Type, e.Name, e.RootPage, sql); err != nil {
			return err
		}
	}
	return nil
}

func printIndexes(w io.Writer, db *engine.Database, table string) error {
	idx, err := db.ListIndexes(table)
	if err != nil {
		return err
	}
	for _, m := range idx {
		if _, err := fmt.Fprintf(w, "%s root=%d\n", m.Name, m.RootPage); err != nil {
			return err
		}
	}
	return nil
}

func printPage(w io.Writer, db *engine.Database, n uint32) error {
	p, err := db.Page(n)
	if err != nil {
		return err
	}
	return p.Debug(w)
}
