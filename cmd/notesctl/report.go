package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"noteapi/internal/database/migration"
)

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every note with its content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := c.container.Service.List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, notes)
		},
	}
}

func (c *cli) newOrphansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orphans",
		Short: "Report blobs without records and records without blobs",
		Long:  `Compare the metadata table with the notes/ prefix of the bucket. Nothing is modified.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := c.container.Service.Orphans(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, rep)
		},
	}
}

func (c *cli) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the Postgres notes table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.container.DB == nil {
				return errors.New("migrate requires METADATA_BACKEND=postgres")
			}
			return migration.EnsureMigrated(cmd.Context(), c.container.DB, c.container.Config.Table, c.log)
		},
	}
}
