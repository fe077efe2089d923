package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/syllabus/internal/db"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/repository"
)

var (
	// ErrInvalidTransition is returned when a plan's status does not allow
	// the requested operation.
	ErrInvalidTransition = errors.New("invalid lesson plan transition")
	// ErrNotLastSession is returned when chapter completion is requested on a
	// session other than the chapter's last.
	ErrNotLastSession = errors.New("only the last session can complete a chapter")
	// ErrChapterNotReported is returned when chapter completion is requested
	// while another session of the chapter is still unreported.
	ErrChapterNotReported = errors.New("every session must be reported before the chapter is complete")
)

type lessonPlanService struct {
	plans    repository.LessonPlanRepo
	uow      db.UnitOfWork
	now      func() time.Time
	observer UseCaseObserver
}

func NewLessonPlanService(plans repository.LessonPlanRepo, uow db.UnitOfWork, observers ...UseCaseObserver) LessonPlanService {
	return &lessonPlanService{
		plans:    plans,
		uow:      uow,
		now:      func() time.Time { return time.Now().UTC() },
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *lessonPlanService) GetByID(ctx context.Context, id string) (*domain.LessonPlan, error) {
	return s.plans.GetByID(ctx, id)
}

func (s *lessonPlanService) ListByScheme(ctx context.Context, schemeID string) ([]*domain.LessonPlan, error) {
	return s.plans.ListByScheme(ctx, schemeID)
}

// mutate loads the plan inside a transaction, applies fn and saves it.
func (s *lessonPlanService) mutate(ctx context.Context, name, id string, fn func(ctx context.Context, tx db.DBTX, p *domain.LessonPlan) error) (plan *domain.LessonPlan, err error) {
	sp := startSpan(s.observer, name)
	sp.set("plan_id", id)
	defer func() { sp.done(ctx, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		plans := repository.NewSQLiteLessonPlanRepo(tx)
		p, err := plans.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(ctx, tx, p); err != nil {
			return err
		}
		p.UpdatedAt = s.now()
		if err := plans.Update(ctx, p); err != nil {
			return err
		}
		plan = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func transitionError(p *domain.LessonPlan, op string) error {
	return fmt.Errorf("%w: cannot %s a plan that is %s", ErrInvalidTransition, op, p.Status)
}

// Review approves a pending or cascaded plan, or rejects it. A rejected plan
// frees its session for preparation again.
func (s *lessonPlanService) Review(ctx context.Context, id string, approve bool, comment string) (*domain.LessonPlan, error) {
	return s.mutate(ctx, "review-plan", id, func(_ context.Context, _ db.DBTX, p *domain.LessonPlan) error {
		if p.Status != domain.PlanPendingReview && p.Status != domain.PlanCascaded {
			return transitionError(p, "review")
		}
		p.ReviewComment = strings.TrimSpace(comment)
		if approve {
			p.Status = domain.PlanReady
		} else {
			p.Status = domain.PlanRejected
		}
		return nil
	})
}

// Report records delivery. markChapterComplete closes the chapter and is only
// accepted on its last regular session or on an extended one, once every
// other session of the chapter is reported.
func (s *lessonPlanService) Report(ctx context.Context, id string, markChapterComplete bool) (*domain.LessonPlan, error) {
	return s.mutate(ctx, "report-session", id, func(ctx context.Context, tx db.DBTX, p *domain.LessonPlan) error {
		if !p.Status.Active() || p.Status == domain.PlanReported {
			return transitionError(p, "report")
		}
		now := s.now()
		p.Status = domain.PlanReported
		p.ReportedAt = &now
		if !markChapterComplete {
			return nil
		}
		chapters := repository.NewSQLiteChapterRepo(tx)
		ch, err := chapters.Get(ctx, p.SchemeID, p.ChapterNumber)
		if err != nil {
			return err
		}
		if p.SessionNumber < ch.TotalSessions && !p.IsExtended {
			return fmt.Errorf("%w: session %d of %d", ErrNotLastSession, p.SessionNumber, ch.TotalSessions)
		}
		all, err := repository.NewSQLiteLessonPlanRepo(tx).ListByScheme(ctx, p.SchemeID)
		if err != nil {
			return err
		}
		live := livePlansByChapter(all)[p.ChapterNumber]
		if live == nil {
			live = make(map[int]*domain.LessonPlan)
		}
		live[p.SessionNumber] = p
		if n, ok := firstUnreported(ch, live); !ok {
			return fmt.Errorf("%w: session %d of chapter %d", ErrChapterNotReported, n, ch.Number)
		}
		return chapters.MarkCompleted(ctx, p.SchemeID, p.ChapterNumber, now)
	})
}

// Cancel releases the plan's period. The session keeps its cancelled plan.
func (s *lessonPlanService) Cancel(ctx context.Context, id string) (*domain.LessonPlan, error) {
	return s.mutate(ctx, "cancel-session", id, func(_ context.Context, _ db.DBTX, p *domain.LessonPlan) error {
		if !p.Status.Active() || p.Status == domain.PlanReported {
			return transitionError(p, "cancel")
		}
		p.Status = domain.PlanCancelled
		return nil
	})
}

// Reschedule moves the plan to another period, remembering where it was
// first planned. A plan already in the target period is cascaded onward.
func (s *lessonPlanService) Reschedule(ctx context.Context, id, date, period string) (*domain.LessonPlan, error) {
	date, period = domain.NormalizeDate(date), strings.TrimSpace(period)
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	if period == "" {
		return nil, errors.New("period is required")
	}
	return s.mutate(ctx, "reschedule-session", id, func(ctx context.Context, tx db.DBTX, p *domain.LessonPlan) error {
		if !p.Status.Active() || p.Status == domain.PlanReported {
			return transitionError(p, "reschedule")
		}
		plans := repository.NewSQLiteLessonPlanRepo(tx)
		timetable := repository.NewSQLiteTimetableRepo(tx)
		now := s.now()
		if err := displace(ctx, plans, timetable, p.TeacherID, date, period, p.ID, now); err != nil {
			var r *refusal
			if errors.As(err, &r) {
				return fmt.Errorf("%w: %s", ErrInvalidTransition, r.msg)
			}
			return err
		}
		p.MoveTo(date, period, fmt.Sprintf("Rescheduled to %s period %s", date, period), now)
		return nil
	})
}
