package cli

import (
	"context"

	"github.com/spf13/cobra"

	db "github.com/TechXTT/surveydb"
	"github.com/TechXTT/surveydb/pkg/script"
)

// NewRunCmd builds the `run` command.
func NewRunCmd(opts *options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run PATH",
		Short: "Run a .sql file, or every NNNN_name.sql file in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := script.Load(args[0])
			if err != nil {
				return err
			}
			if dryRun {
				for _, f := range files {
					for _, stmt := range f.Statements {
						cmd.Printf("%s;\n", stmt)
					}
				}
				return nil
			}
			return opts.withDB(cmd, func(ctx context.Context, conn *db.DB) error {
				n, err := script.Run(ctx, conn, files)
				cmd.Printf("%d statements executed\n", n)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the statements without running them")
	return cmd
}
