package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"noteapi/internal/app"
	"noteapi/internal/config"
	"noteapi/internal/logging"
)

// openFunc builds the service container for one invocation.
type openFunc func(ctx context.Context, cfg *config.AppConfig, log logrus.FieldLogger) (*app.Container, error)

// exitError carries a non-zero exit code for a command that already printed its result.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

type cli struct {
	cfgFile string
	verbose bool

	open      openFunc
	stderr    io.Writer
	log       logrus.FieldLogger
	container *app.Container
}

func newRootCmd(open openFunc, stderr io.Writer) *cobra.Command {
	c := &cli{open: open, stderr: stderr}

	root := &cobra.Command{
		Use:   "notesctl",
		Short: "Operate on notes stored across a metadata table and a blob bucket",
		Long: `notesctl performs a single note operation per run: save, read, delete or purge,
printing the {"statusCode","body"} response. Maintenance commands list notes,
report entries present in only one store and apply the Postgres schema.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.cfgFile != "" {
				if err := os.Setenv("CONFIG_FILE", c.cfgFile); err != nil {
					return err
				}
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			level := cfg.LogLevel
			if c.verbose {
				level = logrus.DebugLevel.String()
			}
			c.log = logging.NewWithWriter(c.stderr, level, logging.LoadLocation(cfg.TZName))

			c.container, err = c.open(cmd.Context(), cfg, c.log)
			if err != nil {
				return fmt.Errorf("initialize note service: %w", err)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.close()
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "YAML config file (overrides CONFIG_FILE)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		c.newPutCmd(),
		c.newGetCmd(),
		c.newDeleteCmd(),
		c.newPurgeCmd(),
		c.newListCmd(),
		c.newOrphansCmd(),
		c.newMigrateCmd(),
	)
	return root
}

func (c *cli) close() error {
	if c.container == nil {
		return nil
	}
	err := c.container.Close()
	c.container = nil
	return err
}

// Execute runs the root command and exits with a non-zero status on failure.
// This is called by main.main().
func Execute() {
	root := newRootCmd(app.New, os.Stderr)
	err := root.ExecuteContext(context.Background())
	if err == nil {
		return
	}

	var ee *exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
