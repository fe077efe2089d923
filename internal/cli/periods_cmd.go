package cli

import (
	"fmt"

	"github.com/alexanderramin/syllabus/internal/app"
	"github.com/alexanderramin/syllabus/internal/cli/formatter"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/engine"
	"github.com/spf13/cobra"
)

func newPeriodsCmd(a *App) *cobra.Command {
	var sf scopeFlags
	var free bool

	cmd := &cobra.Command{
		Use:   "periods",
		Short: "List teaching periods for a class and subject with exam conflicts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scope, err := sf.scope()
			if err != nil {
				return err
			}
			settings, err := a.Settings.Get(ctx)
			if err != nil {
				return err
			}
			from, to, err := sf.dateRange(settings.Window(a.now()))
			if err != nil {
				return err
			}

			slots, err := a.Periods.Periods(ctx, app.PeriodQuery{
				TeacherID:       a.TeacherID,
				Scope:           scope,
				From:            from,
				To:              to,
				ExcludeOccupied: free,
			})
			if err != nil {
				return err
			}
			stored, err := a.Exams.List(ctx, &scope)
			if err != nil {
				return err
			}
			exams := make([]domain.ExamRecord, 0, len(stored))
			for _, e := range stored {
				exams = append(exams, *e)
			}

			annotated := engine.NewExamIndex(scope, exams).Annotate(slots)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSlots(scope, annotated))
			return nil
		},
	}

	cmd.Flags().AddFlagSet(sf.flagSet(true))
	cmd.Flags().BoolVar(&free, "free", false, "Hide periods already holding a lesson plan")
	return cmd
}
