package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/matheus3301/raveoir/internal/client"
	"github.com/matheus3301/raveoir/internal/instance"
	"github.com/spf13/cobra"
)

var (
	instanceFlag string
	jsonFlag     bool
	timeout      time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "raveoirctl",
		Short:         "Control a running raveoird instance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&instanceFlag, "instance", "", "instance name (overrides config default)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "per-command deadline")

	rootCmd.AddCommand(
		statusCmd, signUpCmd, signInCmd, signOutCmd, checkEmailCmd, suggestCmd, instancesCmd,
		refreshCmd, listCmd, openCmd, deleteCmd, sendCmd, spamCmd, watchCmd,
		archiveCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// withClient connects to the selected instance and runs fn under the
// command deadline.
func withClient(fn func(ctx context.Context, c *client.Client) error) error {
	return dial(func(c *client.Client) error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return fn(ctx, c)
	})
}

func dial(fn func(c *client.Client) error) error {
	name := instance.Resolve(instanceFlag)
	if err := instance.ValidateName(name); err != nil {
		return err
	}
	c, err := client.New(instance.SocketPath(name))
	if err != nil {
		return fmt.Errorf("cannot connect to daemon for instance %q: %w", name, err)
	}
	defer func() { _ = c.Close() }()
	return fn(c)
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
