package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/syllabus/internal/app"
	"github.com/alexanderramin/syllabus/internal/cli/formatter"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/service"
	"github.com/spf13/cobra"
)

// fieldFlags are the plan fields as given on the command line.
type fieldFlags struct {
	objectives, methods, resources, assessment []string
}

func (f *fieldFlags) register(cmd *cobra.Command, repeatable bool) {
	help := func(name string) string {
		if repeatable {
			return fmt.Sprintf("%s, once per session in order or once for all", name)
		}
		return name
	}
	cmd.Flags().StringArrayVar(&f.objectives, "objectives", nil, help("Lesson objectives"))
	cmd.Flags().StringArrayVar(&f.methods, "methods", nil, help("Teaching methods"))
	cmd.Flags().StringArrayVar(&f.resources, "resources", nil, help("Resources"))
	cmd.Flags().StringArrayVar(&f.assessment, "assessment", nil, help("Assessment"))
}

// at returns the fields for entry i of n. A single value applies to all.
func (f *fieldFlags) at(i, n int) (domain.PlanFields, error) {
	pick := func(name string, vals []string) (string, error) {
		switch len(vals) {
		case 0:
			return "", nil
		case 1:
			return vals[0], nil
		case n:
			return vals[i], nil
		default:
			return "", fmt.Errorf("--%s given %d times for %d sessions", name, len(vals), n)
		}
	}
	var out domain.PlanFields
	var err error
	if out.Objectives, err = pick("objectives", f.objectives); err != nil {
		return out, err
	}
	if out.Methods, err = pick("methods", f.methods); err != nil {
		return out, err
	}
	if out.Resources, err = pick("resources", f.resources); err != nil {
		return out, err
	}
	out.Assessment, err = pick("assessment", f.assessment)
	return out, err
}

// overlay copies the non-empty fields of src onto dst.
func overlay(dst *domain.PlanFields, src domain.PlanFields) {
	if src.Objectives != "" {
		dst.Objectives = src.Objectives
	}
	if src.Methods != "" {
		dst.Methods = src.Methods
	}
	if src.Resources != "" {
		dst.Resources = src.Resources
	}
	if src.Assessment != "" {
		dst.Assessment = src.Assessment
	}
}

func newPrepareCmd(a *App) *cobra.Command {
	var ff fieldFlags
	var slot int
	var date, period string
	var suggest bool

	cmd := &cobra.Command{
		Use:   "prepare SCHEME CHAPTER SESSION",
		Short: "Prepare the lesson plan for one session",
		Long: `Prepare the lesson plan for one session.

Pick the period with --slot (its number in "syllabus periods") or --date and
--period. Without them, and with a terminal attached, a picker lists every
candidate period with its exam conflicts. A session that already has a plan
shows that plan instead.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			tree, err := loadTree(cmd, a)
			if err != nil {
				return err
			}
			ref, err := parseRef(tree, args)
			if err != nil {
				return err
			}
			click, err := a.Planner.Click(ref)
			if err != nil {
				return err
			}
			switch click.Action {
			case domain.ActionViewDetail:
				return showSessionPlan(cmd, a, click)
			case domain.ActionNone:
				fmt.Fprintln(out, formatter.Dim(click.Message))
				return nil
			}

			d, err := a.Planner.BeginSingle(ctx, ref)
			if err != nil {
				return err
			}

			switch {
			case slot > 0:
				if err := d.Select(slot - 1); err != nil {
					return err
				}
			case date != "":
				if err := selectByDate(d, date, period); err != nil {
					return err
				}
			case a.interactive():
				var picked int
				if err := runForm(slotPickerForm(d, &picked), cmd.ErrOrStderr()); err != nil {
					return err
				}
			}

			if suggest {
				fields, warning := a.Planner.Suggest(ctx, ref)
				if warning != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleYellow.Render(warning))
				}
				overlay(&d.Fields, fields)
			}
			given, err := ff.at(0, 1)
			if err != nil {
				return err
			}
			overlay(&d.Fields, given)

			if a.interactive() && (d.Fields.Objectives == "" || d.Fields.Methods == "") {
				if err := runForm(singleFieldsForm(d), cmd.ErrOrStderr()); err != nil {
					return err
				}
			}

			res, err := a.Planner.SubmitSingle(ctx, d)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatPlanResult(res))
			if s, ok := d.Selected(); ok {
				fmt.Fprintf(out, "%s %s\n", formatter.Dim("Scheduled"), formatter.SlotLabel(s.Date, s.Period))
			}
			return nil
		},
	}

	ff.register(cmd, false)
	cmd.Flags().IntVar(&slot, "slot", 0, "Candidate period number, 1-based")
	cmd.Flags().StringVar(&date, "date", "", "Period date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&period, "period", "", "Period on --date; the first usable one when empty")
	cmd.Flags().BoolVar(&suggest, "suggest", false, "Draft the fields with AI before applying flags")
	cmd.MarkFlagsMutuallyExclusive("slot", "date")
	return cmd
}

// selectByDate picks the candidate at date and period, or the first usable
// period that day when period is empty.
func selectByDate(d *service.SingleDraft, date, period string) error {
	if err := validateOptionalDate(date); err != nil {
		return err
	}
	want := domain.NormalizePeriod(period)
	var firstErr error
	for i, s := range d.Slots {
		if s.Date != date || (want != "" && domain.NormalizePeriod(s.Period) != want) {
			continue
		}
		err := d.Select(i)
		if err == nil {
			return nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return firstErr
	}
	label := date
	if want != "" {
		label += " period " + want
	}
	return app.ValidationError(app.ErrCodeSlotUnavailable,
		fmt.Sprintf("%s is not a teaching period for %s in the planning window", label, d.Scope))
}

func showSessionPlan(cmd *cobra.Command, a *App, click app.ClickResult) error {
	out := cmd.OutOrStdout()
	if click.Session.LessonPlanID == "" {
		fmt.Fprintf(out, "%s %s\n", formatter.StatePill(click.Session.Status), click.Session.Name)
		return nil
	}
	p, err := a.Plans.GetByID(cmd.Context(), click.Session.LessonPlanID)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, formatter.FormatPlan(p))
	return nil
}

func newPrepareBulkCmd(a *App) *cobra.Command {
	var ff fieldFlags
	var extended bool

	cmd := &cobra.Command{
		Use:   "prepare-bulk SCHEME CHAPTER",
		Short: "Prepare every session of a chapter, or one extended session",
		Long: `Prepare every session of a chapter with no plans yet. Each session gets
the next free period in the planning window that has no exam in it.

With --extended, add one session past the chapter's total once every session
is reported.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tree, err := loadTree(cmd, a)
			if err != nil {
				return err
			}
			ref, err := parseRef(tree, args)
			if err != nil {
				return err
			}
			d, err := a.Planner.BeginBulk(ctx, ref.SchemeID, ref.ChapterNumber, extended)
			if err != nil {
				return err
			}

			for i := range d.Entries {
				given, err := ff.at(i, d.Len())
				if err != nil {
					return err
				}
				overlay(&d.Entries[i].Fields, given)
			}

			if a.interactive() && !bulkComplete(d) {
				printBulkPlan(cmd.ErrOrStderr(), d)
				if err := walkBulk(d, cmd.ErrOrStderr()); err != nil {
					return err
				}
			}

			res, err := a.Planner.SubmitBulk(ctx, d)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatPlanResult(res))
			printBulkPlan(out, d)
			return nil
		},
	}

	ff.register(cmd, true)
	cmd.Flags().BoolVar(&extended, "extended", false, "Add one extended session to a fully reported chapter")
	return cmd
}

func bulkComplete(d *service.BulkDraft) bool {
	for _, e := range d.Entries {
		if strings.TrimSpace(e.Fields.Objectives) == "" || strings.TrimSpace(e.Fields.Methods) == "" {
			return false
		}
	}
	return true
}

func printBulkPlan(w io.Writer, d *service.BulkDraft) {
	rows := make([][]string, 0, d.Len())
	for _, e := range d.Entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.SessionNumber),
			e.SessionName,
			formatter.SlotLabel(e.Slot.Date, e.Slot.Period),
			formatter.ConflictTag(e.Slot.Conflict),
		})
	}
	fmt.Fprint(w, formatter.RenderTable([]string{"#", "SESSION", "PERIOD", "EXAMS"}, rows))
}
