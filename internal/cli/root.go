package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/syllabus/internal/app"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/service"
	"github.com/spf13/cobra"
)

// Planner is the preparation surface the commands drive.
type Planner interface {
	Load(ctx context.Context) (app.LoadOutcome, error)
	Tree() *app.SchemeTree
	BulkOnly() bool
	Click(ref domain.SessionRef) (app.ClickResult, error)
	BeginSingle(ctx context.Context, ref domain.SessionRef) (*service.SingleDraft, error)
	SubmitSingle(ctx context.Context, d *service.SingleDraft) (*app.PlanResult, error)
	BeginBulk(ctx context.Context, schemeID string, chapter int, extended bool) (*service.BulkDraft, error)
	SubmitBulk(ctx context.Context, d *service.BulkDraft) (*app.PlanResult, error)
	Suggest(ctx context.Context, ref domain.SessionRef) (domain.PlanFields, string)
}

// LoadState exposes the background side of a load released after its soft
// timeout.
type LoadState interface {
	Advisory() string
	LastError() error
}

// App holds references to all services used by CLI commands.
type App struct {
	Planner   Planner
	LoadState LoadState
	Plans     service.LessonPlanService
	Settings  service.SettingsService
	Exams     service.ExamService
	Timetable service.TimetableService
	Import    service.ImportService
	Periods   app.PeriodSource
	TeacherID string

	// IsInteractive reports whether forms may prompt. Nil means never.
	IsInteractive func() bool
	// Now is the clock for window defaults; nil means time.Now.
	Now func() time.Time
	// PollInterval paces the wait for a load released after its soft timeout.
	PollInterval time.Duration
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

// NewRootCmd creates the top-level "syllabus" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "syllabus",
		Short:         "Lesson-plan scheduling and progress for schemes of work",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newImportCmd(a),
		newSchemeCmd(a),
		newPlansCmd(a),
		newPeriodsCmd(a),
		newPrepareCmd(a),
		newPrepareBulkCmd(a),
		newSuggestCmd(a),
		newReviewCmd(a),
		newReportCmd(a),
		newCancelCmd(a),
		newRescheduleCmd(a),
		newPlanShowCmd(a),
		newExamCmd(a),
		newTimetableCmd(a),
		newSettingsCmd(a),
	)

	return root
}
