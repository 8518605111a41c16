// Package cli implements the sqlw command.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-mizu/sqlw"
	"github.com/go-mizu/sqlw/dialect"
	"github.com/spf13/cobra"
)

type options struct {
	driver  string
	dsn     string
	verbose bool
}

// NewRootCommand returns the sqlw command tree. Flag defaults come from
// SQLW_DRIVER and SQLW_DSN as they are set when it is called.
func NewRootCommand() *cobra.Command {
	env := dialect.ConfigFromEnv()
	o := &options{}

	root := &cobra.Command{
		Use:   "sqlw",
		Short: "Run SQL through a typed result cursor",
		Long: `sqlw runs SQL statements against SQLite, DuckDB or MySQL and prints
the results.

Examples:
  sqlw scalar "SELECT sqlite_version()"
  sqlw --dsn app.db exec "CREATE TABLE t(id INTEGER PRIMARY KEY, name TEXT)"
  sqlw --dsn app.db query "SELECT * FROM t"
  sqlw --driver duckdb shell
  SQLW_DRIVER=mysql SQLW_DSN='user:pass@tcp(localhost:3306)/app' sqlw shell`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&o.driver, "driver", env.Driver, "Database driver: sqlite, duckdb or mysql ($"+dialect.EnvDriver+")")
	root.PersistentFlags().StringVar(&o.dsn, "dsn", env.DSN, "Data source name; empty opens an in-memory database ($"+dialect.EnvDSN+")")
	root.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "Log every statement to stderr")

	root.AddCommand(newExecCmd(o))
	root.AddCommand(newQueryCmd(o))
	root.AddCommand(newScalarCmd(o))
	root.AddCommand(newShellCmd(o))
	return root
}

// Execute runs the sqlw command with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

// open connects using the global flags and returns a cursor plus the
// function that closes the pool.
func (o *options) open(ctx context.Context, stderr io.Writer) (*sqlw.Cursor, func(), error) {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := dialect.Config{Driver: o.driver, DSN: o.dsn}
	db, err := dialect.Open(ctx, cfg, sqlw.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	c := sqlw.NewCursor(db, sqlw.WithReporter(sqlw.SlogReporter(logger)))
	return c, func() { _ = db.DB().Close() }, nil
}

func newExecCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "exec SQL",
		Short: "Execute a statement that returns no rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, done, err := o.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer done()
			return execStatement(cmd.Context(), c, args[0], cmd.OutOrStdout())
		},
	}
}

func newQueryCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "query SQL",
		Short: "Run a query and print its rows as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, done, err := o.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer done()
			return printQuery(cmd.Context(), c, args[0], cmd.OutOrStdout())
		},
	}
}

func newScalarCmd(o *options) *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "scalar SQL",
		Short: "Print the first column of the first row",
		Long: `Print the first column of the first row, converted with --as.
A query without rows is an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if as != "text" && as != "int" && as != "float" {
				return fmt.Errorf("--as must be text, int or float, got %q", as)
			}
			c, done, err := o.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer done()

			var v any
			switch as {
			case "int":
				v, err = c.QueryInt(cmd.Context(), args[0])
			case "float":
				v, err = c.QueryFloat64(cmd.Context(), args[0])
			default:
				v, err = c.QueryText(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
			return err
		},
	}
	cmd.Flags().StringVar(&as, "as", "text", "Result type: text, int or float")
	return cmd
}

func execStatement(ctx context.Context, c *sqlw.Cursor, query string, out io.Writer) error {
	if err := c.Execute(ctx, query); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "OK (insert id %d, %d row(s) affected)\n", c.InsertID(), c.RowsAffected())
	return err
}

func printQuery(ctx context.Context, c *sqlw.Cursor, query string, out io.Writer) error {
	if _, err := c.GetResult(ctx, query); err != nil {
		return err
	}
	defer c.FreeResult()
	_, err := c.Print(out)
	return err
}
