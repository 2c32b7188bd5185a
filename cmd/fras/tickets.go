package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/fras-portal/internal/console"
	"github.com/spec-kit/fras-portal/internal/domain"
)

func (c *cli) newTicketsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "List, raise and triage support tickets",
	}
	cmd.AddCommand(
		c.newTicketsListCmd(),
		c.newTicketsCreateCmd(),
		c.newTicketsSetStatusCmd(),
		c.newTicketsApplyCmd(),
		c.newTicketsWatchCmd(),
	)
	return cmd
}

func (c *cli) newTicketsListCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets (admins see their company, employees their own)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := c.lister(status)
			if err != nil {
				return err
			}
			return list(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "admin filter: pending, in_progress, solved or all")
	return cmd
}

func (c *cli) newTicketsCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create MESSAGE",
		Short: "Raise a ticket as the logged-in employee",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := console.NewEmployeeTicketView(c.client)
			ticket, err := view.CreateTicket(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Created ticket #%d (%s).\n", ticket.ID, ticket.Status)
			return nil
		},
	}
}

func (c *cli) newTicketsSetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status ID STATUS",
		Short: "Move a ticket to in_progress, solved or back to pending",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			status, err := domain.ParseTicketStatus(args[1])
			if err != nil {
				return &console.ValidationError{Field: "status", Err: err}
			}
			view, err := c.loadAdminView(cmd.Context())
			if err != nil {
				return err
			}
			ticket, err := view.SetStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Ticket #%d is now %s.\n", ticket.ID, ticket.Status)
			return nil
		},
	}
}

func (c *cli) newTicketsApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply ID ACTION",
		Short: "Run a lifecycle action: mark_in_progress, mark_solved or reopen",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			view, err := c.loadAdminView(cmd.Context())
			if err != nil {
				return err
			}
			ticket, err := view.Apply(cmd.Context(), id, domain.TicketAction(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Ticket #%d is now %s.\n", ticket.ID, ticket.Status)
			return nil
		},
	}
}

func (c *cli) newTicketsWatchCmd() *cobra.Command {
	var status string
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reprint the ticket list periodically until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := c.lister(status)
			if err != nil {
				return err
			}
			if interval <= 0 {
				interval = c.cfg.RefreshInterval
			}
			ctx := cmd.Context()
			refresher := console.NewRefresher(interval, list,
				console.WithRefreshLogger(c.logger),
				console.WithErrorHandler(func(err error) {
					fmt.Fprintln(cmd.ErrOrStderr(), "refresh failed:", describe(err))
				}))
			if err := refresher.RunNow(ctx); err != nil {
				return err
			}
			if err := refresher.Start(ctx); err != nil {
				return err
			}
			c.logger.Debug("watching tickets", zap.Duration("interval", interval))
			<-ctx.Done()
			refresher.Stop()
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "admin filter: pending, in_progress, solved or all")
	cmd.Flags().DurationVar(&interval, "interval", 0, "refresh interval (default from refresh_interval)")
	return cmd
}

// lister returns a refresh function printing the list for the session's user type.
func (c *cli) lister(status string) (console.RefreshFunc, error) {
	user, ok := c.session.User()
	if !ok {
		return nil, console.ErrNotLoggedIn
	}
	if user.Type == domain.SubjectTypeEmployee {
		view := console.NewEmployeeTicketView(c.client)
		return func(ctx context.Context) error {
			tickets, err := view.ListOwnTickets(ctx)
			if err != nil {
				return err
			}
			return printTickets(c.out, tickets, false)
		}, nil
	}

	view := console.NewAdminTicketView(c.client)
	return func(ctx context.Context) error {
		tickets, err := view.ListTickets(ctx, status)
		if err != nil {
			return err
		}
		if err := printTickets(c.out, tickets, true); err != nil {
			return err
		}
		return printCounts(c.out, view.Counts())
	}, nil
}

func (c *cli) loadAdminView(ctx context.Context) (*console.AdminTicketView, error) {
	view := console.NewAdminTicketView(c.client)
	if _, err := view.ListTickets(ctx, domain.StatusFilterAll); err != nil {
		return nil, err
	}
	return view, nil
}

func parseTicketID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &console.ValidationError{Field: "id", Err: fmt.Errorf("invalid ticket id %q", raw)}
	}
	return id, nil
}
