package engine

import (
	"github.com/alexanderramin/syllabus/internal/domain"
)

type slotKey struct {
	date   string
	period string
}

// ExamIndex answers conflict queries for one class+subject. Build a new index
// whenever the scope changes; an index never serves another scope.
type ExamIndex struct {
	scope        domain.Scope
	byDate       map[string][]domain.ExamRecord
	byDatePeriod map[slotKey][]domain.ExamRecord
}

// NewExamIndex keeps the exams that belong to scope and indexes them by date
// and by date+period. Exams without a period only block the day softly.
func NewExamIndex(scope domain.Scope, exams []domain.ExamRecord) *ExamIndex {
	idx := &ExamIndex{
		scope:        scope,
		byDate:       make(map[string][]domain.ExamRecord),
		byDatePeriod: make(map[slotKey][]domain.ExamRecord),
	}
	for _, e := range exams {
		if !domain.SameScope(scope, domain.Scope{Class: e.Class, Subject: e.Subject}) {
			continue
		}
		date := domain.NormalizeDate(e.Date)
		if date == "" {
			continue
		}
		idx.byDate[date] = append(idx.byDate[date], e)
		if period := domain.NormalizePeriod(domain.StrFromPtr(e.Period)); period != "" {
			k := slotKey{date: date, period: period}
			idx.byDatePeriod[k] = append(idx.byDatePeriod[k], e)
		}
	}
	return idx
}

// Scope returns the class+subject the index was built for.
func (x *ExamIndex) Scope() domain.Scope { return x.scope }

// Len is the number of distinct exam days.
func (x *ExamIndex) Len() int { return len(x.byDate) }

// Check classifies one slot. Hard takes precedence over soft.
func (x *ExamIndex) Check(date, period string) domain.Conflict {
	d := domain.NormalizeDate(date)
	if exams, ok := x.byDatePeriod[slotKey{date: d, period: domain.NormalizePeriod(period)}]; ok {
		return domain.Conflict{Level: domain.ConflictHard, Exams: exams}
	}
	if exams, ok := x.byDate[d]; ok {
		return domain.Conflict{Level: domain.ConflictSoft, Exams: exams}
	}
	return domain.Conflict{Level: domain.ConflictNone}
}

// Annotate attaches a conflict verdict to every slot, preserving order.
func (x *ExamIndex) Annotate(slots []domain.CandidateSlot) []domain.AnnotatedSlot {
	out := make([]domain.AnnotatedSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, domain.AnnotatedSlot{CandidateSlot: s, Conflict: x.Check(s.Date, s.Period)})
	}
	return out
}
