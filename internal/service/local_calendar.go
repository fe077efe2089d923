package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/alexanderramin/syllabus/internal/app"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/repository"
)

// maxPeriodRangeDays bounds one period lookup.
const maxPeriodRangeDays = 366

// LocalPeriodSource expands the weekly timetable into dated candidate
// periods and marks those already holding a live plan.
type LocalPeriodSource struct {
	timetable repository.TimetableRepo
	plans     repository.LessonPlanRepo
	now       func() time.Time
	observer  UseCaseObserver
}

func NewLocalPeriodSource(timetable repository.TimetableRepo, plans repository.LessonPlanRepo, observers ...UseCaseObserver) *LocalPeriodSource {
	return &LocalPeriodSource{
		timetable: timetable,
		plans:     plans,
		now:       func() time.Time { return time.Now().UTC() },
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *LocalPeriodSource) Periods(ctx context.Context, q app.PeriodQuery) (out []domain.CandidateSlot, err error) {
	sp := startSpan(s.observer, "source-periods")
	sp.set("scope", q.Scope.String())
	defer func() { sp.done(ctx, err) }()

	from, to := dayOf(q.From), dayOf(q.To)
	if to.Sub(from) > maxPeriodRangeDays*24*time.Hour {
		return nil, fmt.Errorf("period range %s..%s exceeds %d days",
			from.Format(domain.DateLayout), to.Format(domain.DateLayout), maxPeriodRangeDays)
	}
	slots, err := s.timetable.ListForScope(ctx, q.TeacherID, q.Scope)
	if err != nil {
		return nil, err
	}
	busy, err := occupied(ctx, s.plans, q.TeacherID, from, to)
	if err != nil {
		return nil, err
	}

	today := dayOf(s.now())
	for _, c := range expandTimetable(slots, from, to) {
		c.IsOccupied = busy[slotID(c.Date, c.Period)]
		d, _ := time.Parse(domain.DateLayout, c.Date)
		c.IsAvailable = !d.Before(today)
		if q.ExcludeOccupied && c.IsOccupied {
			continue
		}
		out = append(out, c)
	}
	sp.set("slots", len(out))
	return out, nil
}

// expandTimetable lists every dated period of slots between from and to
// inclusive, ordered by date then period.
func expandTimetable(slots []*domain.TimetableSlot, from, to time.Time) []domain.CandidateSlot {
	byDay := make(map[time.Weekday][]*domain.TimetableSlot)
	for _, s := range slots {
		byDay[s.Weekday] = append(byDay[s.Weekday], s)
	}
	for _, day := range byDay {
		sort.SliceStable(day, func(i, j int) bool { return periodLess(day[i].Period, day[j].Period) })
	}

	var out []domain.CandidateSlot
	for d := dayOf(from); !d.After(dayOf(to)); d = d.AddDate(0, 0, 1) {
		for _, s := range byDay[d.Weekday()] {
			out = append(out, domain.CandidateSlot{
				Date:        d.Format(domain.DateLayout),
				Period:      s.Period,
				StartTime:   s.StartTime,
				EndTime:     s.EndTime,
				IsAvailable: true,
				Class:       s.Class,
				Subject:     s.Subject,
			})
		}
	}
	return out
}

func occupied(ctx context.Context, plans repository.LessonPlanRepo, teacherID string, from, to time.Time) (map[string]bool, error) {
	held, err := plans.ListOccupying(ctx, teacherID, from.Format(domain.DateLayout), to.Format(domain.DateLayout))
	if err != nil {
		return nil, err
	}
	busy := make(map[string]bool, len(held))
	for _, p := range held {
		busy[slotID(domain.StrFromPtr(p.PlannedDate), domain.StrFromPtr(p.PlannedPeriod))] = true
	}
	return busy, nil
}

func slotID(date, period string) string {
	return domain.NormalizeDate(date) + "#" + domain.NormalizePeriod(period)
}

// periodLess orders numeric periods numerically and everything else as text.
func periodLess(a, b string) bool {
	na, errA := strconv.Atoi(domain.NormalizePeriod(a))
	nb, errB := strconv.Atoi(domain.NormalizePeriod(b))
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LocalExamSource serves the stored exam calendar.
type LocalExamSource struct {
	exams repository.ExamRepo
}

func NewLocalExamSource(exams repository.ExamRepo) *LocalExamSource {
	return &LocalExamSource{exams: exams}
}

func (s *LocalExamSource) Exams(ctx context.Context, scope domain.Scope) ([]domain.ExamRecord, error) {
	list, err := s.exams.ListByScope(ctx, scope)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ExamRecord, 0, len(list))
	for _, e := range list {
		out = append(out, *e)
	}
	return out, nil
}
