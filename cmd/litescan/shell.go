package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/tuannm99/litescan/internal"
	"github.com/tuannm99/litescan/internal/engine"
	"github.com/tuannm99/litescan/internal/sql/executor"
)

const (
	promptMain = "litescan> "
	promptMore = "...> "
)

const shellHelp = `meta commands:
  \q | quit | exit       quit
  \tables                list tables
  \schema                print the schema table
  \indexes <table>       list indexes of a table
  \page <n>              dump one decoded page
  \info                  header fields and cache stats
  \history               print history
  \help                  show help

sql:
  SELECT <*|COUNT(*)|cols> FROM t [WHERE col = literal] [LIMIT n];
  multiline is supported (shell waits for ';')`

// lineReader is the part of *readline.Instance the shell drives.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(string)
	SaveHistory(string) error
}

type shell struct {
	db   *engine.Database
	ex   *executor.Executor
	rl   lineReader
	hist *History
	out  io.Writer
}

func runShell(cmd *cobra.Command, db *engine.Database, cfg *internal.LiteScanConfig) error {
	h := NewHistory(cfg.Shell.HistoryFile)
	_ = h.Load(cfg.Shell.HistoryMax)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          promptMain,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// preload so up-arrow works immediately
	for _, line := range h.Lines() {
		_ = rl.SaveHistory(line)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "opened %s (%d pages)\ntype \\help for help\n", db.Path, db.PageCount())

	s := &shell{db: db, ex: executor.NewExecutor(db), rl: rl, hist: h, out: cmd.OutOrStdout()}
	return s.run()
}

func (s *shell) run() error {
	var buf strings.Builder

	for {
		line, err := s.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			// Ctrl+C clears the current buffer
			if buf.Len() > 0 {
				buf.Reset()
				s.rl.SetPrompt(promptMain)
			}
			continue
		}
		if err != nil {
			// EOF
			fmt.Fprintln(s.out)
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if buf.Len() == 0 && isMetaCommand(line) {
			if s.meta(line) {
				return nil
			}
			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(line)

		if !statementComplete(buf.String()) {
			s.rl.SetPrompt(promptMore)
			continue
		}

		stmt := strings.TrimSpace(buf.String())
		buf.Reset()
		s.rl.SetPrompt(promptMain)

		_ = s.hist.Append(stmt)
		_ = s.rl.SaveHistory(compactOneLine(stmt))

		res, err := s.ex.ExecSQL(stmt)
		if err != nil {
			printError(s.out, err)
			continue
		}
		_ = res.Print(s.out)
	}
}

// meta runs a backslash command and reports whether the shell should quit.
func (s *shell) meta(line string) bool {
	fields := strings.Fields(line)

	var err error
	switch fields[0] {
	case `\q`, "quit", "exit":
		return true
	case `\help`:
		fmt.Fprintln(s.out, shellHelp)
	case `\history`:
		s.hist.Print(s.out, 50)
	case `\tables`:
		err = printTables(s.out, s.db)
	case `\schema`:
		err = printSchema(s.out, s.db)
	case `\info`:
		err = printInfo(s.out, s.db, true)
	case `\indexes`:
		if len(fields) != 2 {
			fmt.Fprintln(s.out, `usage: \indexes <table>`)
			break
		}
		err = printIndexes(s.out, s.db, fields[1])
	case `\page`:
		if len(fields) != 2 {
			fmt.Fprintln(s.out, `usage: \page <n>`)
			break
		}
		n, perr := strconv.ParseUint(fields[1], 10, 32)
		if perr != nil {
			fmt.Fprintf(s.out, "invalid page number %q\n", fields[1])
			break
		}
		err = printPage(s.out, s.db, uint32(n))
	default:
		fmt.Fprintf(s.out, "unknown command: %s\n", line)
	}
	if err != nil {
		printError(s.out, err)
	}
	return false
}

func isMetaCommand(line string) bool {
	return strings.HasPrefix(line, `\`) || line == "quit" || line == "exit"
}

// statementComplete checks for a terminating ';' outside single quotes.
func statementComplete(buf string) bool {
	inQuote := false
	for _, r := range buf {
		switch {
		case r == '\'':
			// '' inside a literal toggles twice
			inQuote = !inQuote
		case r == ';' && !inQuote:
			return true
		}
	}
	return false
}
