package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/syllabus/internal/cli/formatter"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/spf13/cobra"
)

// planAction resolves the plan id argument, applies fn and prints the result.
func planAction(a *App, verb string, fn func(ctx context.Context, id string) (*domain.LessonPlan, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := resolvePlanID(cmd, a, args[0])
		if err != nil {
			return err
		}
		p, err := fn(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n",
			formatter.StyleGreen.Render(verb), p.SessionName, formatter.PlanStatusPill(p.Status))
		return nil
	}
}

func newPlanShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "plan PLAN",
		Short: "Show one lesson plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolvePlanID(cmd, a, args[0])
			if err != nil {
				return err
			}
			p, err := a.Plans.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlan(p))
			return nil
		},
	}
}

func newReviewCmd(a *App) *cobra.Command {
	var reject bool
	var comment string

	cmd := &cobra.Command{
		Use:   "review PLAN",
		Short: "Approve a planned lesson, or reject it with --reject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verb := "Approved"
			if reject {
				verb = "Rejected"
			}
			return planAction(a, verb, func(ctx context.Context, id string) (*domain.LessonPlan, error) {
				return a.Plans.Review(ctx, id, !reject, comment)
			})(cmd, args)
		},
	}
	cmd.Flags().BoolVar(&reject, "reject", false, "Reject the plan and free the session")
	cmd.Flags().StringVar(&comment, "comment", "", "Review comment")
	return cmd
}

func newReportCmd(a *App) *cobra.Command {
	var complete bool

	cmd := &cobra.Command{
		Use:   "report PLAN",
		Short: "Mark a lesson as taught",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return planAction(a, "Reported", func(ctx context.Context, id string) (*domain.LessonPlan, error) {
				return a.Plans.Report(ctx, id, complete)
			})(cmd, args)
		},
	}
	cmd.Flags().BoolVar(&complete, "complete", false, "Also mark the chapter complete (last or extended session only)")
	return cmd
}

func newCancelCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel PLAN",
		Short: "Cancel a planned lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return planAction(a, "Cancelled", a.Plans.Cancel)(cmd, args)
		},
	}
}

func newRescheduleCmd(a *App) *cobra.Command {
	var date, period string

	cmd := &cobra.Command{
		Use:   "reschedule PLAN",
		Short: "Move a planned lesson to another period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOptionalDate(date); err != nil {
				return err
			}
			return planAction(a, "Rescheduled", func(ctx context.Context, id string) (*domain.LessonPlan, error) {
				return a.Plans.Reschedule(ctx, id, date, period)
			})(cmd, args)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "New date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&period, "period", "", "New period")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}
