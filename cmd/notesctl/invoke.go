package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"noteapi/internal/invoke"
)

// runInvocation executes op and prints the response. Status codes of 400 and
// above become exit status 1 once the response has been written.
func (c *cli) runInvocation(cmd *cobra.Command, op invoke.Operation, ev invoke.Event) error {
	resp := invoke.NewHandler(c.container.Service, c.log).Handle(cmd.Context(), op, ev)

	enc := json.NewEncoder(cmd.OutOrStdout())
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return &exitError{code: 1}
	}
	return nil
}

func (c *cli) newPutCmd() *cobra.Command {
	var name, content, file string

	cmd := &cobra.Command{
		Use:   "put",
		Short: "Create or update a note",
		Long:  `Upload the content to notes/{name}.txt and store a metadata record for name dated today.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ev := invoke.Event{Name: name}
			if file != "" {
				b, err := readContent(cmd, file)
				if err != nil {
					return err
				}
				content = string(b)
			}
			if file != "" || cmd.Flags().Changed("content") {
				ev.Content = &content
			}
			return c.runInvocation(cmd, invoke.OpSave, ev)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Note name")
	cmd.Flags().StringVar(&content, "content", "", "Note content")
	cmd.Flags().StringVar(&file, "file", "", `Read content from a file ("-" for stdin)`)
	cmd.MarkFlagsMutuallyExclusive("content", "file")
	return cmd
}

func readContent(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	return b, nil
}

func keyEvent(createdAt, name string) invoke.Event {
	return invoke.Event{QueryStringParameters: map[string]string{"CreatedAt": createdAt, "Name": name}}
}

func (c *cli) newGetCmd() *cobra.Command {
	var createdAt, name string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Read a note with its content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInvocation(cmd, invoke.OpRead, keyEvent(createdAt, name))
		},
	}
	cmd.Flags().StringVar(&createdAt, "created-at", "", "Creation date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&name, "name", "", "Note name")
	return cmd
}

func (c *cli) newDeleteCmd() *cobra.Command {
	var createdAt, name string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a note and its content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInvocation(cmd, invoke.OpDelete, keyEvent(createdAt, name))
		},
	}
	cmd.Flags().StringVar(&createdAt, "created-at", "", "Creation date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&name, "name", "", "Note name")
	return cmd
}

func (c *cli) newPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete every object in the blob bucket",
		Long:  `Delete every object in the configured bucket. Metadata records are not touched.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInvocation(cmd, invoke.OpPurge, invoke.Event{})
		},
	}
}
