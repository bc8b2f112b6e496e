package cli

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	db "github.com/TechXTT/surveydb"
)

// NewExecCmd builds the `exec` command.
func NewExecCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "exec SQL",
		Short: "Run a statement that gives no rows back",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd, func(ctx context.Context, conn *db.DB) error {
				return conn.Exec(ctx, args[0])
			})
		},
	}
}

// NewQueryCmd builds the `query` command.
func NewQueryCmd(opts *options) *cobra.Command {
	var noHeader bool
	cmd := &cobra.Command{
		Use:   "query SQL",
		Short: "Run a statement and print every row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd, func(ctx context.Context, conn *db.DB) error {
				cols, rows, err := conn.Columns(ctx, args[0])
				if err != nil {
					return err
				}
				return printRows(cmd.OutOrStdout(), cols, rows, !noHeader)
			})
		},
	}
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Do not print column names")
	return cmd
}

// NewPingCmd builds the `ping` command.
func NewPingCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the database is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(cmd, func(ctx context.Context, conn *db.DB) error {
				if err := conn.Ping(ctx); err != nil {
					return err
				}
				cmd.Printf("ok (%s)\n", conn.Driver())
				return nil
			})
		},
	}
}

func printRows(out io.Writer, cols []db.Column, rows []db.Row, header bool) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if header {
		names := make([]string, len(cols))
		for i, c := range cols {
			names[i] = c.Name
		}
		fmt.Fprintln(tw, strings.Join(names, "\t"))
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatValue(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return `\x` + hex.EncodeToString(t)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(t)
	}
}
