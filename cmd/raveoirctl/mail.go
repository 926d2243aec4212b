package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/matheus3301/raveoir/internal/api"
	"github.com/matheus3301/raveoir/internal/client"
	"github.com/matheus3301/raveoir/internal/mailbox"
	"github.com/matheus3301/raveoir/internal/model"
	"github.com/spf13/cobra"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	sendTo      string
	sendSubject string
	sendBody    string
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the mailbox and archive aged mail",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			resp, err := c.Mail.Refresh(ctx)
			if err != nil {
				return err
			}
			if jsonFlag {
				return outputJSON(resp)
			}
			for _, tab := range mailbox.Tabs {
				fmt.Printf("%-9s %d\n", tab, resp.Counts[string(tab)])
			}
			fmt.Printf("Unread:   %d\n", resp.Unread)
			if resp.ArchivedNow > 0 {
				fmt.Printf("Archived %d aged emails\n", resp.ArchivedNow)
			}
			return nil
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list [inbox|sent|spam|archived]",
	Short: "List the emails of a tab",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tab := string(mailbox.TabInbox)
		if len(args) == 1 {
			tab = args[0]
		}
		return withClient(func(ctx context.Context, c *client.Client) error {
			resp, err := c.Mail.List(ctx, tab)
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

var openCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Show an email and mark it read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			resp, err := c.Mail.Open(ctx, args[0])
			if err != nil {
				return err
			}
			if jsonFlag {
				return outputJSON(resp)
			}
			e := resp.Email
			fmt.Printf("From:    %s <%s>\n", e.From.DisplayName(), e.From.Email)
			fmt.Printf("To:      %s <%s>\n", e.To.DisplayName(), e.To.Email)
			fmt.Printf("Date:    %s\n", e.CreatedAt.Local().Format(time.RFC1123))
			fmt.Printf("Subject: %s\n\n", e.Subject)
			fmt.Println(e.Body)
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			if err := c.Mail.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Email deleted")
			return nil
		})
	},
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send an email to another account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		body := sendBody
		if body == "-" {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read body: %w", err)
			}
			body = string(b)
		}
		return withClient(func(ctx context.Context, c *client.Client) error {
			id, err := c.Mail.Send(ctx, &api.SendRequest{To: sendTo, Subject: sendSubject, Body: body})
			if err != nil {
				return err
			}
			if jsonFlag {
				return outputJSON(api.SendResponse{ID: id})
			}
			fmt.Println("Email sent successfully!")
			return nil
		})
	},
}

var spamCmd = &cobra.Command{
	Use:   "spam",
	Short: "Manage reported senders",
}

var spamReportCmd = &cobra.Command{
	Use:   "report <sender id>",
	Short: "Report a sender as spam",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			if err := c.Mail.ReportSpam(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Sender reported as spam")
			return nil
		})
	},
}

var spamRemoveCmd = &cobra.Command{
	Use:   "remove <sender id>",
	Short: "Remove a sender from the spam list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, c *client.Client) error {
			if err := c.Mail.RemoveSpam(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Sender removed from spam")
			return nil
		})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream mailbox events until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return dial(func(c *client.Client) error {
			stream, err := c.Mail.Watch(ctx)
			if err != nil {
				return err
			}
			for {
				evt, err := stream.Recv()
				if err != nil {
					if errors.Is(err, io.EOF) || status.Code(err) == codes.Canceled {
						return nil
					}
					return err
				}
				if jsonFlag {
					if err := outputJSON(evt); err != nil {
						return err
					}
					continue
				}
				ts := time.UnixMilli(evt.OccurredAtUnixMs).Format("15:04:05")
				fmt.Printf("%s %-24s %-14s unread=%d\n", ts, evt.Kind, evt.State, evt.Unread)
			}
		})
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendTo, "to", "", "recipient address")
	sendCmd.Flags().StringVar(&sendSubject, "subject", "", "subject line")
	sendCmd.Flags().StringVar(&sendBody, "body", "", `message body ("-" reads stdin)`)

	spamCmd.AddCommand(spamReportCmd, spamRemoveCmd)
}

func printEmails(emails []model.Email) {
	if len(emails) == 0 {
		fmt.Println("No emails.")
		return
	}
	for _, e := range emails {
		marker := " "
		if !e.IsRead {
			marker = "*"
		}
		fmt.Printf("%s %-36s %-28s %-16s %s\n",
			marker, e.ID, truncate(e.From.Email, 28), e.CreatedAt.Local().Format("2006-01-02 15:04"), truncate(e.Subject, 40))
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
