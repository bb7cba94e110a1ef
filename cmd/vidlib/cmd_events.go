package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/vidlib/internal/model"
)

func (c *cli) newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage upcoming events",
		Long: `Manage the events list (workshops, seminars, webinars).

Available subcommands:
  list - Show events in date order
  add  - Add an event
  rm   - Remove an event by id`,
	}

	cmd.AddCommand(c.newEventsListCmd(), c.newEventsAddCmd(), c.newEventsRemoveCmd())
	return cmd
}

func (c *cli) newEventsListCmd() *cobra.Command {
	var upcoming bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show events in date order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStorage()
			if err != nil {
				return err
			}
			defer st.Close()

			events, err := st.ListEvents(cmd.Context())
			if err != nil {
				return fmt.Errorf("list events: %w", err)
			}
			if upcoming {
				events = model.UpcomingEvents(events, time.Now())
			} else {
				events = model.SortEvents(events)
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No events")
				return nil
			}
			for _, e := range events {
				fmt.Fprintf(out, "%s  %s  %s\n", e.Date, e.Title, e.ID)
				if e.Time != "" || e.Location != "" {
					fmt.Fprintf(out, "    %s  %s\n", e.Time, e.Location)
				}
				if e.Description != "" {
					fmt.Fprintf(out, "    %s\n", e.Description)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&upcoming, "upcoming", false, "only events from today on")
	return cmd
}

func (c *cli) newEventsAddCmd() *cobra.Command {
	var params model.NewEventParams

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add an event",
		Example: `  vidlib events add --title "Support Group" --date 2024-04-22 --time "18:30 - 20:00" --location Online`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			event := model.NewEvent(params)
			if err := event.Validate(); err != nil {
				return err
			}

			st, err := c.openStorage()
			if err != nil {
				return err
			}
			defer st.Close()

			id, err := st.CreateEvent(cmd.Context(), event)
			if err != nil {
				return fmt.Errorf("add event: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added event %s: %s\n", id, event.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&params.Title, "title", "t", "", "event title")
	cmd.Flags().StringVarP(&params.Date, "date", "d", "", "date as YYYY-MM-DD")
	cmd.Flags().StringVar(&params.Time, "time", "", "time, e.g. \"14:00 - 16:00\"")
	cmd.Flags().StringVar(&params.Location, "location", "", "where the event takes place")
	cmd.Flags().StringVar(&params.Description, "description", "", "short description")
	return cmd
}

func (c *cli) newEventsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove an event",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStorage()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.DeleteEvent(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed event %s\n", args[0])
			return nil
		},
	}
}
