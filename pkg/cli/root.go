package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	db "github.com/TechXTT/surveydb"
	"github.com/TechXTT/surveydb/internal/logging"
	"github.com/TechXTT/surveydb/pkg/config"
)

var version = "dev"

// options are the persistent flags shared by every command.
type options struct {
	dsn       string
	driver    string
	envFile   string
	logFile   string
	verbosity int
}

func help() string {
	return `surveydb runs raw SQL against a single PostgreSQL/PostGIS (or SQLite/MySQL) connection.
Every statement is committed as soon as it runs.

The connection is taken from --dsn, SURVEYDB_DSN, DATABASE_URL or the PG* variables,
in that order. A .env file is read first when present.

Examples:
  surveydb exec "UPDATE segments SET class=1 WHERE seg_id=1"
  surveydb query "SELECT distinct(rid) FROM segments ORDER BY rid"
  surveydb run ./sql
  surveydb ping --dsn "host=localhost port=5432 dbname=classification_test user=postgres"`
}

// NewVersionCmd builds the `version` command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version)
		},
	}
}

// NewRootCmd builds the top–level `surveydb` command.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "surveydb",
		Short:         "surveydb: raw SQL over one database connection",
		Long:          help(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "Connection string or descriptor")
	root.PersistentFlags().StringVar(&opts.driver, "driver", "", "Driver: postgres, pgx, sqlite, mysql (inferred from the DSN when empty)")
	root.PersistentFlags().StringVar(&opts.envFile, "env", ".env", "Environment file to load")
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Also write logs to this rotating file")
	root.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")

	root.AddCommand(NewExecCmd(opts))
	root.AddCommand(NewQueryCmd(opts))
	root.AddCommand(NewRunCmd(opts))
	root.AddCommand(NewPingCmd(opts))
	root.AddCommand(NewVersionCmd())
	return root
}

// connect resolves configuration from flags and environment, sets up
// logging and opens the connection.
func (o *options) connect(ctx context.Context) (*db.DB, error) {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return nil, err
	}
	if o.dsn != "" {
		cfg.DSN = o.dsn
	}
	if o.driver != "" {
		cfg.Driver = o.driver
	}
	if o.logFile != "" {
		cfg.LogFile = o.logFile
	}
	logging.Apply(logging.LevelForVerbosity(o.verbosity, cfg.LogLevel), cfg.LogFile)

	if cfg.DSN == "" {
		return nil, fmt.Errorf("no connection configured: pass --dsn or set SURVEYDB_DSN")
	}
	log.Debug().Str("dsn", config.Redact(cfg.DSN)).Msg("Connecting")

	return db.Open(ctx, cfg.Driver, cfg.DSN, db.WithLogger(log.Logger))
}

// withDB opens a connection, runs fn and always closes the connection.
func (o *options) withDB(cmd *cobra.Command, fn func(ctx context.Context, conn *db.DB) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	conn, err := o.connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(ctx, conn)
}
