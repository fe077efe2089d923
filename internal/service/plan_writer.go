package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/syllabus/internal/app"
	"github.com/alexanderramin/syllabus/internal/db"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/repository"
	"github.com/google/uuid"
)

// cascadeHorizonDays is how far ahead a displaced plan looks for a free period.
const cascadeHorizonDays = 56

// ErrNoCascadeSlot is returned when a displaced plan has nowhere to go.
var ErrNoCascadeSlot = errors.New("no free period to move the displaced plan to")

// refusal is a business-rule rejection reported as an unsuccessful result
// rather than an error.
type refusal struct{ msg string }

func (r *refusal) Error() string { return r.msg }

func refuse(format string, args ...any) error {
	return &refusal{msg: fmt.Sprintf(format, args...)}
}

// LocalPlanWriter stores lesson plans. Every request runs in one unit of
// work, so a bulk request either creates all of its plans or none.
type LocalPlanWriter struct {
	uow      db.UnitOfWork
	now      func() time.Time
	observer UseCaseObserver
}

func NewLocalPlanWriter(uow db.UnitOfWork, observers ...UseCaseObserver) *LocalPlanWriter {
	return &LocalPlanWriter{
		uow:      uow,
		now:      func() time.Time { return time.Now().UTC() },
		observer: useCaseObserverOrNoop(observers),
	}
}

func (w *LocalPlanWriter) CreateSingle(ctx context.Context, req app.SinglePlanRequest) (*app.PlanResult, error) {
	return w.create(ctx, "write-single", req.TeacherID, req.SchemeID, req.Scope, req.ChapterNumber, false, []app.PlanDraft{req.Draft})
}

func (w *LocalPlanWriter) CreateBulk(ctx context.Context, req app.BulkPlanRequest) (*app.PlanResult, error) {
	return w.create(ctx, "write-bulk", req.TeacherID, req.SchemeID, req.Scope, req.ChapterNumber, req.Extended, req.Drafts)
}

func (w *LocalPlanWriter) create(
	ctx context.Context,
	name, teacherID, schemeID string,
	scope domain.Scope,
	chapter int,
	extended bool,
	drafts []app.PlanDraft,
) (res *app.PlanResult, err error) {
	sp := startSpan(w.observer, name)
	sp.set("scheme_id", schemeID)
	sp.set("chapter", chapter)
	defer func() { sp.done(ctx, err) }()

	if len(drafts) == 0 {
		return &app.PlanResult{Success: false, Message: "no sessions to plan"}, nil
	}
	for _, d := range drafts {
		if msg := draftProblem(d); msg != "" {
			return &app.PlanResult{Success: false, Message: msg}, nil
		}
	}

	now := w.now()
	ids := make([]string, 0, len(drafts))
	err = w.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		chapters := repository.NewSQLiteChapterRepo(tx)
		plans := repository.NewSQLiteLessonPlanRepo(tx)
		timetable := repository.NewSQLiteTimetableRepo(tx)

		if err := checkChapterOpen(ctx, chapters, plans, schemeID, chapter); err != nil {
			return err
		}
		for _, d := range drafts {
			plan := &domain.LessonPlan{
				ID:            uuid.New().String(),
				SchemeID:      schemeID,
				ChapterNumber: chapter,
				SessionNumber: d.SessionNumber,
				SessionName:   domain.CoalesceStr(d.SessionName, domain.DefaultSessionName(d.SessionNumber)),
				TeacherID:     teacherID,
				Class:         scope.Class,
				Subject:       scope.Subject,
				Status:        domain.PlanPendingReview,
				IsExtended:    d.IsExtended || extended,
				DurationMin:   d.DurationMin,
				Fields:        d.Fields,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			date, period := domain.NormalizeDate(d.Date), strings.TrimSpace(d.Period)
			plan.PlannedDate, plan.PlannedPeriod = &date, &period

			if err := displace(ctx, plans, timetable, teacherID, date, period, plan.ID, now); err != nil {
				return err
			}
			if err := plans.Create(ctx, plan); err != nil {
				if errors.Is(err, repository.ErrSessionPlanned) {
					return refuse("session %d of chapter %d already has a plan", d.SessionNumber, chapter)
				}
				return err
			}
			ids = append(ids, plan.ID)
		}
		return nil
	})

	var r *refusal
	if errors.As(err, &r) {
		return &app.PlanResult{Success: false, Message: r.msg}, nil
	}
	if err != nil {
		return nil, err
	}
	n := len(ids)
	sp.set("created_count", n)
	return &app.PlanResult{Success: true, CreatedCount: &n, PlanIDs: ids, Message: fmt.Sprintf("%d lesson plan(s) created", n)}, nil
}

func draftProblem(d app.PlanDraft) string {
	if d.SessionNumber < 1 {
		return "session number must be positive"
	}
	if _, err := time.Parse(domain.DateLayout, domain.NormalizeDate(d.Date)); err != nil {
		return fmt.Sprintf("session %d: invalid date %q", d.SessionNumber, d.Date)
	}
	if strings.TrimSpace(d.Period) == "" {
		return fmt.Sprintf("session %d: period is required", d.SessionNumber)
	}
	if fe := validatePlanFields(d.Fields); len(fe) > 0 {
		return fmt.Sprintf("session %d: %s %s", d.SessionNumber, fe[0].Field, fe[0].Message)
	}
	return ""
}

// checkChapterOpen applies the same gate the scheme source publishes. The
// predecessor is the previous chapter in number order, so gaps in the
// numbering do not open a chapter.
func checkChapterOpen(ctx context.Context, chapters repository.ChapterRepo, plans repository.LessonPlanRepo, schemeID string, number int) error {
	all, err := chapters.ListByScheme(ctx, schemeID)
	if err != nil {
		return err
	}
	var prev *domain.ChapterDef
	found := false
	for i, ch := range all {
		if ch.Number == number {
			if i > 0 {
				prev = all[i-1]
			}
			found = true
			break
		}
	}
	if !found {
		return refuse("chapter %d does not exist", number)
	}
	if prev == nil {
		return nil
	}
	stored, err := plans.ListByScheme(ctx, schemeID)
	if err != nil {
		return err
	}
	if ok, reason := chapterGate(prev, livePlansByChapter(stored)); !ok {
		return refuse("%s", reason)
	}
	return nil
}

// displace moves whatever live plan holds the teacher's (date, period) to the
// next free period of its own class and subject. Reported plans are never
// moved. incoming is excluded from the search so a plan never displaces itself.
func displace(
	ctx context.Context,
	plans repository.LessonPlanRepo,
	timetable repository.TimetableRepo,
	teacherID, date, period, incoming string,
	now time.Time,
) error {
	holder, err := plans.LiveAtSlot(ctx, teacherID, date, period)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if holder.ID == incoming {
		return nil
	}
	if holder.Status == domain.PlanReported {
		return refuse("period %s on %s holds a reported lesson", period, date)
	}

	slots, err := timetable.ListForScope(ctx, teacherID, domain.Scope{Class: holder.Class, Subject: holder.Subject})
	if err != nil {
		return err
	}
	from, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", date, err)
	}
	to := from.AddDate(0, 0, cascadeHorizonDays)
	busy, err := occupied(ctx, plans, teacherID, from, to)
	if err != nil {
		return err
	}
	busy[slotID(date, period)] = true

	for _, c := range expandTimetable(slots, from, to) {
		if c.Date == date && !periodLess(period, c.Period) {
			continue
		}
		if busy[slotID(c.Date, c.Period)] {
			continue
		}
		holder.MoveTo(c.Date, c.Period, fmt.Sprintf("Cascaded from %s period %s", date, period), now)
		return plans.Update(ctx, holder)
	}
	return fmt.Errorf("moving plan %s off %s period %s: %w", holder.ID, date, period, ErrNoCascadeSlot)
}
