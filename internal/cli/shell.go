package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/go-mizu/sqlw"
	"github.com/spf13/cobra"
)

// lineReader is the part of *readline.Instance the shell loop uses.
type lineReader interface {
	Readline() (string, error)
}

func newShellCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive SQL prompt",
		Long: `Read statements line by line. Statements that return rows are printed
as tables, everything else is executed. Type 'exit' or 'quit' to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, done, err := o.open(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer done()

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "sqlw> ",
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
				Stdout:          cmd.OutOrStdout(),
				Stderr:          cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			defer rl.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s. Type 'exit' or 'quit' to leave.\n", o.driver)
			return runShell(cmd.Context(), c, rl, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runShell(ctx context.Context, c *sqlw.Cursor, rl lineReader, out, errOut io.Writer) error {
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		stmt := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(line), ";"))
		if stmt == "" {
			continue
		}
		if strings.EqualFold(stmt, "exit") || strings.EqualFold(stmt, "quit") {
			return nil
		}

		if returnsRows(stmt) {
			err = printQuery(ctx, c, stmt, out)
		} else {
			err = execStatement(ctx, c, stmt, out)
		}
		if err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
	}
}

var rowKeywords = []string{"SELECT", "WITH", "VALUES", "PRAGMA", "EXPLAIN", "SHOW", "DESCRIBE", "DESC", "SUMMARIZE", "FROM", "TABLE"}

// returnsRows guesses from the leading keyword whether stmt yields rows.
func returnsRows(stmt string) bool {
	word := stmt
	if i := strings.IndexFunc(stmt, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '(' }); i >= 0 {
		word = stmt[:i]
	}
	for _, kw := range rowKeywords {
		if strings.EqualFold(word, kw) {
			return true
		}
	}
	return false
}
