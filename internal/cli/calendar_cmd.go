package cli

import (
	"fmt"

	"github.com/alexanderramin/syllabus/internal/cli/formatter"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/spf13/cobra"
)

func newExamCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exam",
		Short: "Manage the exam calendar",
	}
	cmd.AddCommand(newExamAddCmd(a), newExamListCmd(a), newExamRemoveCmd(a))
	return cmd
}

func newExamAddCmd(a *App) *cobra.Command {
	var sf scopeFlags
	var date, period, examType, name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an exam; without --period it blocks nothing but flags the whole day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := sf.scope()
			if err != nil {
				return err
			}
			e := &domain.ExamRecord{
				Date:     date,
				ExamType: examType,
				Name:     name,
				Class:    scope.Class,
				Subject:  scope.Subject,
			}
			if period != "" {
				e.Period = &period
			}
			if err := a.Exams.Add(cmd.Context(), e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s on %s (%s)\n", e.Label(), formatter.SlotDate(e.Date), e.ID)
			return nil
		},
	}
	cmd.Flags().AddFlagSet(sf.flagSet(false))
	cmd.Flags().StringVar(&date, "date", "", "Exam date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&period, "period", "", "Exam period; blank for the whole day")
	cmd.Flags().StringVar(&examType, "type", "", "Exam type, e.g. CAT or Midterm")
	cmd.Flags().StringVar(&name, "name", "", "Exam name")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newExamListCmd(a *App) *cobra.Command {
	var sf scopeFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List exams, optionally for one class and subject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := sf.optionalScope()
			if err != nil {
				return err
			}
			exams, err := a.Exams.List(cmd.Context(), scope)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatExams(exams))
			return nil
		},
	}
	cmd.Flags().AddFlagSet(sf.flagSet(false))
	return cmd
}

func newExamRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove an exam",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Exams.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed exam %s\n", args[0])
			return nil
		},
	}
}

func newTimetableCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timetable",
		Short: "Manage the weekly teaching timetable",
	}
	cmd.AddCommand(newTimetableAddCmd(a), newTimetableListCmd(a), newTimetableRemoveCmd(a))
	return cmd
}

func newTimetableAddCmd(a *App) *cobra.Command {
	var sf scopeFlags
	var day, period, start, end string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a weekly teaching period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := sf.scope()
			if err != nil {
				return err
			}
			weekday, err := domain.ParseWeekday(day)
			if err != nil {
				return err
			}
			slot := &domain.TimetableSlot{
				TeacherID: a.TeacherID,
				Weekday:   weekday,
				Period:    period,
				StartTime: start,
				EndTime:   end,
				Class:     scope.Class,
				Subject:   scope.Subject,
			}
			if err := a.Timetable.Add(cmd.Context(), slot); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s P%s for %s (%s)\n",
				weekday, domain.NormalizePeriod(slot.Period), scope, slot.ID)
			return nil
		},
	}
	cmd.Flags().AddFlagSet(sf.flagSet(false))
	cmd.Flags().StringVar(&day, "day", "", "Weekday, e.g. Monday, mon or 1")
	cmd.Flags().StringVar(&period, "period", "", "Period label")
	cmd.Flags().StringVar(&start, "start", "", "Start time, e.g. 08:00")
	cmd.Flags().StringVar(&end, "end", "", "End time, e.g. 08:40")
	_ = cmd.MarkFlagRequired("day")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}

func newTimetableListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the weekly teaching periods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			slots, err := a.Timetable.List(cmd.Context(), a.TeacherID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTimetable(slots))
			return nil
		},
	}
}

func newTimetableRemoveCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a weekly teaching period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Timetable.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed timetable period %s\n", args[0])
			return nil
		},
	}
}
