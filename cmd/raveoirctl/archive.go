package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matheus3301/raveoir/internal/client"
	"github.com/spf13/cobra"
)

var exportPath string

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect the local archive of aged emails",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived emails",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			resp, err := c.Archive.List(ctx)
			if err != nil {
				return err
			}
			if jsonFlag {
				return outputJSON(resp)
			}
			printEmails(resp.Emails)
			return nil
		})
	},
}

var archiveRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an email from the archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			if err := c.Archive.Remove(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Email removed from archive")
			return nil
		})
	},
}

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the archive as an mbox file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			resp, err := c.Archive.Export(ctx)
			if err != nil {
				return err
			}
			if exportPath == "" || exportPath == "-" {
				_, err = os.Stdout.Write(resp.Mbox)
				return err
			}
			if err := os.WriteFile(exportPath, resp.Mbox, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", exportPath, err)
			}
			fmt.Fprintf(os.Stderr, "Exported %d emails to %s\n", resp.Count, exportPath)
			return nil
		})
	},
}

func init() {
	archiveExportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "mbox file to write (stdout when empty)")
	archiveCmd.AddCommand(archiveListCmd, archiveRemoveCmd, archiveExportCmd)
}
