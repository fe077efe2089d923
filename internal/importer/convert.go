package importer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/google/uuid"
)

// GeneratedScheme is a scheme with its chapters, ready for persistence.
type GeneratedScheme struct {
	Scheme   *domain.SchemeDef
	Chapters []*domain.ChapterDef
}

type Generated struct {
	Schemes   []GeneratedScheme
	Timetable []*domain.TimetableSlot
	Exams     []*domain.ExamRecord
}

// Convert turns a validated file into domain objects owned by teacherID.
// Call Validate first; Convert assumes the file is valid.
func Convert(f *CurriculumFile, teacherID string, now time.Time) (*Generated, error) {
	out := &Generated{}

	for _, s := range f.Schemes {
		def := &domain.SchemeDef{
			ID:           uuid.New().String(),
			TeacherID:    teacherID,
			Class:        strings.TrimSpace(s.Class),
			Subject:      strings.TrimSpace(s.Subject),
			AcademicYear: strings.TrimSpace(s.AcademicYear),
			Term:         strings.TrimSpace(s.Term),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		gs := GeneratedScheme{Scheme: def}
		numbers := chapterNumbers(s.Chapters)
		for i, ch := range s.Chapters {
			gs.Chapters = append(gs.Chapters, &domain.ChapterDef{
				SchemeID:      def.ID,
				Number:        numbers[i],
				Name:          strings.TrimSpace(ch.Name),
				TotalSessions: ch.Sessions,
			})
		}
		sort.Slice(gs.Chapters, func(i, j int) bool { return gs.Chapters[i].Number < gs.Chapters[j].Number })
		out.Schemes = append(out.Schemes, gs)
	}

	for i, s := range f.Timetable {
		day, err := domain.ParseWeekday(s.Weekday)
		if err != nil {
			return nil, fmt.Errorf("timetable[%d]: %w", i, err)
		}
		out.Timetable = append(out.Timetable, &domain.TimetableSlot{
			ID:        uuid.New().String(),
			TeacherID: teacherID,
			Weekday:   day,
			Period:    strings.TrimSpace(s.Period),
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Class:     strings.TrimSpace(s.Class),
			Subject:   strings.TrimSpace(s.Subject),
		})
	}

	for _, e := range f.Exams {
		rec := &domain.ExamRecord{
			ID:       uuid.New().String(),
			Date:     domain.NormalizeDate(e.Date),
			ExamType: e.Type,
			Name:     e.Name,
			Class:    strings.TrimSpace(e.Class),
			Subject:  strings.TrimSpace(e.Subject),
		}
		if e.Period != nil && strings.TrimSpace(*e.Period) != "" {
			p := strings.TrimSpace(*e.Period)
			rec.Period = &p
		}
		out.Exams = append(out.Exams, rec)
	}
	return out, nil
}
