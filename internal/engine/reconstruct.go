package engine

import (
	"sort"

	"github.com/alexanderramin/syllabus/internal/domain"
)

// MaxChapterSessions bounds the dense session block of one chapter. Larger
// totals are clamped so a malformed payload cannot size the expansion.
const MaxChapterSessions = 500

// ReconstructScheme turns a scheme payload into a fully reconstructed,
// classified, and gated scheme. The returned value shares no memory with p.
func ReconstructScheme(p domain.SchemePayload) domain.Scheme {
	s := domain.Scheme{
		ID:              p.SchemeID,
		Class:           p.Class,
		Subject:         p.Subject,
		AcademicYear:    p.AcademicYear,
		Term:            p.Term,
		TotalSessions:   max(0, p.TotalSessions.Int()),
		PlannedSessions: max(0, p.PlannedSessions.Int()),
		OverallProgress: domain.ClampPercent(float64(p.OverallProgress)),
		DetailLoaded:    p.Chapters != nil,
	}

	chapters := make([]domain.Chapter, 0, len(p.Chapters))
	for _, cp := range p.Chapters {
		chapters = append(chapters, ReconstructChapter(cp))
	}
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Number < chapters[j].Number
	})
	s.Chapters = ApplyGates(chapters)
	return s
}

// ReconstructChapter expands the chapter's session list and classifies every
// session. CanPrepare is left as supplied upstream; ApplyGates fills it in.
func ReconstructChapter(p domain.ChapterPayload) domain.Chapter {
	total := clampSessions(p.TotalSessions.Int())
	numberOfSessions := total
	if p.NumberOfSessions != nil {
		numberOfSessions = clampSessions(p.NumberOfSessions.Int())
	}

	ch := domain.Chapter{
		Number:           p.ChapterNumber.Int(),
		Name:             p.ChapterName,
		TotalSessions:    total,
		NumberOfSessions: numberOfSessions,
		LockReason:       p.LockReason,
		Completed:        p.ChapterCompleted,
	}
	if p.CanPrepare != nil {
		ch.CanPrepare = *p.CanPrepare
		ch.GateSource = domain.GateUpstream
	}

	raw := ReconstructSessions(p.Sessions, p.SessionsSparse, total)
	ch.Sessions = make([]domain.Session, 0, len(raw))
	for _, sp := range raw {
		ch.Sessions = append(ch.Sessions, toSession(sp, numberOfSessions))
	}
	ch.PlannedSessions = CountPlanned(ch.Sessions)
	return ch
}

// ReconstructSessions rebuilds a dense 1..total session list from a sparse
// payload. Entries are looked up by sessionNumber, so out-of-order and missing
// input is tolerated. Entries above total follow the dense block in ascending
// order. Non-sparse input is passed through in its original order.
func ReconstructSessions(sessions []domain.SessionPayload, sparse bool, total int) []domain.SessionPayload {
	total = clampSessions(total)
	if !sparse || total == 0 {
		out := make([]domain.SessionPayload, len(sessions))
		copy(out, sessions)
		return out
	}

	byNumber := make(map[int]domain.SessionPayload, len(sessions))
	var extended []domain.SessionPayload
	for _, sp := range sessions {
		n := sp.SessionNumber.Int()
		switch {
		case n > total:
			extended = append(extended, sp)
		case n >= 1:
			if _, dup := byNumber[n]; !dup {
				byNumber[n] = sp
			}
		}
	}

	out := make([]domain.SessionPayload, 0, total+len(extended))
	for n := 1; n <= total; n++ {
		sp, ok := byNumber[n]
		if !ok {
			out = append(out, placeholder(n))
			continue
		}
		sp.SessionNumber = domain.Number(n)
		sp.SessionName = domain.CoalesceStr(sp.SessionName, domain.DefaultSessionName(n))
		out = append(out, sp)
	}

	sort.SliceStable(extended, func(i, j int) bool {
		return extended[i].SessionNumber < extended[j].SessionNumber
	})
	return append(out, extended...)
}

func clampSessions(n int) int {
	return min(max(0, n), MaxChapterSessions)
}

func placeholder(n int) domain.SessionPayload {
	return domain.SessionPayload{
		SessionNumber: domain.Number(n),
		SessionName:   domain.DefaultSessionName(n),
		Status:        string(domain.StateNotPlanned),
		CascadeMarked: false,
	}
}

func toSession(sp domain.SessionPayload, numberOfSessions int) domain.Session {
	n := sp.SessionNumber.Int()
	return domain.Session{
		Number:            n,
		Name:              domain.CoalesceStr(sp.SessionName, domain.DefaultSessionName(n)),
		Status:            Classify(sp),
		PlannedDate:       nonBlank(sp.PlannedDate),
		PlannedPeriod:     nonBlank(sp.PlannedPeriod),
		OriginalDate:      nonBlank(sp.OriginalDate),
		OriginalPeriod:    nonBlank(sp.OriginalPeriod),
		LessonPlanID:      sp.LessonPlanID,
		EstimatedDuration: max(0, sp.EstimatedDuration.Int()),
		IsExtended:        sp.IsExtended || n > numberOfSessions,
		Fields: domain.PlanFields{
			Objectives: sp.Objectives,
			Methods:    sp.Methods,
			Resources:  sp.Resources,
			Assessment: sp.Assessment,
		},
	}
}

func nonBlank(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	v := *p
	return &v
}
