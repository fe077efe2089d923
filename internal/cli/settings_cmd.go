package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/syllabus/internal/cli/formatter"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/spf13/cobra"
)

func newSettingsCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change planning policies",
	}
	cmd.AddCommand(
		newSettingsShowCmd(a),
		newSettingsBulkOnlyCmd(a),
		newSettingsWindowCmd(a),
		newSettingsSubmissionDayCmd(a),
	)
	return cmd
}

func printSettings(cmd *cobra.Command, a *App, s *domain.Settings) {
	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSettings(s, a.now()))
}

func newSettingsShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.Settings.Get(cmd.Context())
			if err != nil {
				return err
			}
			printSettings(cmd, a, s)
			return nil
		},
	}
}

func newSettingsBulkOnlyCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:       "bulk-only on|off",
		Short:     "Require chapters to be prepared all at once",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseSwitch(args[0])
			if err != nil {
				return err
			}
			s, err := a.Settings.SetBulkOnly(cmd.Context(), on)
			if err != nil {
				return err
			}
			printSettings(cmd, a, s)
			return nil
		},
	}
}

func parseSwitch(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return b, nil
}

func newSettingsWindowCmd(a *App) *cobra.Command {
	var start, end string
	var clear bool

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Set the planning window; --clear restores the default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var from, to *time.Time
			if !clear {
				var err error
				if from, err = parseOptionalDate(start); err != nil {
					return err
				}
				if to, err = parseOptionalDate(end); err != nil {
					return err
				}
				if from == nil && to == nil {
					return fmt.Errorf("give --start and/or --end, or --clear")
				}
			}
			s, err := a.Settings.SetWindow(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			printSettings(cmd, a, s)
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "First plannable date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last plannable date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the stored window")
	cmd.MarkFlagsMutuallyExclusive("start", "clear")
	cmd.MarkFlagsMutuallyExclusive("end", "clear")
	return cmd
}

func newSettingsSubmissionDayCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "submission-day DAY|any",
		Short: "Only allow plan submission on one weekday",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var day *time.Weekday
			if args[0] != "any" {
				d, err := domain.ParseWeekday(args[0])
				if err != nil {
					return err
				}
				day = &d
			}
			s, err := a.Settings.SetSubmissionDay(cmd.Context(), day)
			if err != nil {
				return err
			}
			printSettings(cmd, a, s)
			return nil
		},
	}
}
