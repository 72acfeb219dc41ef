package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tuannm99/litescan/internal"
	"github.com/tuannm99/litescan/internal/dberr"
	"github.com/tuannm99/litescan/internal/engine"
)

// app carries what PersistentPreRunE resolves for every subcommand.
type app struct {
	configPath  string
	logLevel    string
	skipBadRows bool

	cfg *internal.LiteScanConfig
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := internal.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.skipBadRows {
		cfg.Reader.SkipBadRows = true
	}
	a.cfg = cfg

	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	return nil
}

func (a *app) open(path string) (*engine.Database, error) {
	return engine.Open(path, engine.Options{
		PageCacheSize: a.cfg.Reader.PageCacheSize,
		SkipBadRows:   a.cfg.Reader.SkipBadRows,
	})
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "litescan",
		Short: "Read SQLite database files without SQLite",
		Long: "litescan decodes SQLite database files page by page: file header, " +
			"b-tree pages, cells and records. It never writes to the file.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "litescan.yaml", "config file (missing file means defaults)")
	flags.StringVar(&a.logLevel, "log-level", "", "override log.level (debug|info|warn|error)")
	flags.BoolVar(&a.skipBadRows, "skip-bad-rows", false, "log and skip undecodable cells")

	root.AddCommand(
		newDBInfoCmd(a),
		newTablesCmd(a),
		newSchemaCmd(a),
		newRunCmd(a),
		newPageCmd(a),
		newShellCmd(a),
	)
	return root
}

// printError writes the one-line error form the CLI exits with.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "error [%s]: %v\n", dberr.KindOf(err), err)
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}
