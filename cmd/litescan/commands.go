package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tuannm99/litescan/internal/engine"
	"github.com/tuannm99/litescan/internal/sql/executor"
)

// withDB opens args[0] for the duration of fn.
func (a *app) withDB(path string, fn func(db *engine.Database) error) error {
	db, err := a.open(path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return fn(db)
}

func newDBInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "db-info <db>",
		Short: "Print page size and page count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(args[0], func(db *engine.Database) error {
				return printInfo(cmd.OutOrStdout(), db, false)
			})
		},
	}
}

func newTablesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables <db>",
		Short: "List table names in schema order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(args[0], func(db *engine.Database) error {
				return printTables(cmd.OutOrStdout(), db)
			})
		},
	}
}

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <db>",
		Short: "Print the schema table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(args[0], func(db *engine.Database) error {
				return printSchema(cmd.OutOrStdout(), db)
			})
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <db> <sql>",
		Short: "Run one SELECT and print the result",
		Example: `  litescan run sample.db "SELECT COUNT(*) FROM apples"
  litescan run sample.db "SELECT name FROM apples WHERE color = 'Red'"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(args[0], func(db *engine.Database) error {
				res, err := executor.NewExecutor(db).ExecSQL(args[1])
				if err != nil {
					return err
				}
				return res.Print(cmd.OutOrStdout())
			})
		},
	}
}

func newPageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "page <db> <n>",
		Short: "Dump one decoded page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid page number %q", args[1])
			}
			return a.withDB(args[0], func(db *engine.Database) error {
				return printPage(cmd.OutOrStdout(), db, uint32(n))
			})
		},
	}
}

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell <db>",
		Short: "Interactive SQL shell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(args[0], func(db *engine.Database) error {
				return runShell(cmd, db, a.cfg)
			})
		},
	}
}
