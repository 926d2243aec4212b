package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/matheus3301/raveoir/internal/api"
	"github.com/matheus3301/raveoir/internal/client"
	"github.com/matheus3301/raveoir/internal/instance"
	"github.com/spf13/cobra"
)

var (
	firstName       string
	lastName        string
	email           string
	password        string
	confirmPassword string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show instance status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			resp, err := c.Session.Status(ctx)
			if err != nil {
				return err
			}
			if jsonFlag {
				return outputJSON(resp)
			}
			fmt.Printf("Instance: %s\n", resp.Instance)
			fmt.Printf("State:    %s\n", resp.State)
			fmt.Printf("Uptime:   %s\n", (time.Duration(resp.UptimeMs) * time.Millisecond).Round(time.Second))
			if resp.Profile != nil {
				fmt.Printf("Account:  %s (%s %s)\n", resp.Profile.Email, resp.Profile.FirstName, resp.Profile.LastName)
				fmt.Printf("Unread:   %d\n", resp.Unread)
				fmt.Printf("Archived: %d\n", resp.Archived)
			} else {
				fmt.Println("Account:  signed out")
			}
			return nil
		})
	},
}

var signUpCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := readPassword()
		if err != nil {
			return err
		}
		return withClient(func(ctx context.Context, c *client.Client) error {
			resp, err := c.Session.SignUp(ctx, &api.SignUpRequest{
				FirstName:       firstName,
				LastName:        lastName,
				Email:           email,
				Password:        pw,
				ConfirmPassword: confirmPassword,
			})
			if err != nil {
				return err
			}
			return printIdentity(resp)
		})
	},
}

var signInCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in with an existing account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := readPassword()
		if err != nil {
			return err
		}
		return withClient(func(ctx context.Context, c *client.Client) error {
			resp, err := c.Session.SignIn(ctx, email, pw)
			if err != nil {
				return err
			}
			return printIdentity(resp)
		})
	},
}

var signOutCmd = &cobra.Command{
	Use:   "signout",
	Short: "End the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			if err := c.Session.SignOut(ctx); err != nil {
				return err
			}
			fmt.Println("Signed out")
			return nil
		})
	},
}

var checkEmailCmd = &cobra.Command{
	Use:   "check-email <address>",
	Short: "Report whether an address is already registered",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			exists, err := c.Session.CheckEmail(ctx, args[0])
			if err != nil {
				return err
			}
			if jsonFlag {
				return outputJSON(api.CheckEmailResponse{Exists: exists})
			}
			if exists {
				fmt.Printf("%s is taken\n", args[0])
			} else {
				fmt.Printf("%s is available\n", args[0])
			}
			return nil
		})
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <first name> [last name]",
	Short: "Suggest free addresses for a name",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		last := ""
		if len(args) > 1 {
			last = args[1]
		}
		return withClient(func(ctx context.Context, c *client.Client) error {
			resp, err := c.Session.SuggestEmails(ctx, args[0], last)
			if err != nil {
				return err
			}
			if jsonFlag {
				return outputJSON(resp)
			}
			fmt.Printf("Default: %s\n", resp.Default)
			for _, s := range resp.Suggestions {
				fmt.Printf("  %s\n", s)
			}
			return nil
		})
	},
}

var instancesCmd = &cobra.Command{
	Use:   "instances",
	Short: "List known instances",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := instance.List()
		if err != nil {
			return err
		}
		if jsonFlag {
			return outputJSON(names)
		}
		if len(names) == 0 {
			fmt.Println("No instances found.")
			return nil
		}
		current := instance.Resolve(instanceFlag)
		for _, n := range names {
			marker := "  "
			if n == current {
				marker = "* "
			}
			fmt.Printf("%s%s\n", marker, n)
		}
		return nil
	},
}

func init() {
	signUpCmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	signUpCmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	signUpCmd.Flags().StringVar(&email, "email", "", "address to register")
	signUpCmd.Flags().StringVar(&password, "password", "", "password (read from stdin when empty)")
	signUpCmd.Flags().StringVar(&confirmPassword, "confirm-password", "", "password confirmation")

	signInCmd.Flags().StringVar(&email, "email", "", "account address")
	signInCmd.Flags().StringVar(&password, "password", "", "password (read from stdin when empty)")
}

func readPassword() (string, error) {
	if password != "" {
		return password, nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printIdentity(resp *api.IdentityResponse) error {
	if jsonFlag {
		return outputJSON(resp)
	}
	fmt.Printf("Signed in as %s (%s %s)\n", resp.Profile.Email, resp.Profile.FirstName, resp.Profile.LastName)
	return nil
}
