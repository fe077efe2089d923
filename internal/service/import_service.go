package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/syllabus/internal/db"
	"github.com/alexanderramin/syllabus/internal/importer"
	"github.com/alexanderramin/syllabus/internal/repository"
)

type importService struct {
	uow       db.UnitOfWork
	teacherID string
	observer  UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, teacherID string, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, teacherID: teacherID, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := importer.LoadCurriculumFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.Import(ctx, f)
}

// Import validates the file, then stores it in one transaction. Schemes that
// already exist for the teacher are reused and their chapters updated.
func (s *importService) Import(ctx context.Context, f *importer.CurriculumFile) (res *ImportResult, err error) {
	sp := startSpan(s.observer, "import-curriculum")
	defer func() { sp.done(ctx, err) }()

	if errs := importer.Validate(f); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	generated, err := importer.Convert(f, s.teacherID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("converting import file: %w", err)
	}

	res = &ImportResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		schemes := repository.NewSQLiteSchemeRepo(tx)
		chapters := repository.NewSQLiteChapterRepo(tx)
		timetable := repository.NewSQLiteTimetableRepo(tx)
		exams := repository.NewSQLiteExamRepo(tx)

		for _, gs := range generated.Schemes {
			def := gs.Scheme
			existing, err := schemes.FindByKey(ctx, def.TeacherID, def.Class, def.Subject, def.AcademicYear, def.Term)
			switch {
			case err == nil:
				def = existing
			case errors.Is(err, repository.ErrNotFound):
				if err := schemes.Create(ctx, def); err != nil {
					return fmt.Errorf("creating scheme %s: %w", def.DisplayName(), err)
				}
			default:
				return err
			}
			for _, ch := range gs.Chapters {
				ch.SchemeID = def.ID
				if err := chapters.Upsert(ctx, ch); err != nil {
					return fmt.Errorf("storing chapter %d of %s: %w", ch.Number, def.DisplayName(), err)
				}
				res.ChapterCount++
			}
			res.Schemes = append(res.Schemes, def)
		}
		for _, slot := range generated.Timetable {
			if err := timetable.Create(ctx, slot); err != nil {
				return fmt.Errorf("storing %s period %s: %w", slot.Weekday, slot.Period, err)
			}
			res.TimetableCount++
		}
		for _, e := range generated.Exams {
			if err := exams.Create(ctx, e); err != nil {
				return fmt.Errorf("storing exam on %s: %w", e.Date, err)
			}
			res.ExamCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sp.set("schemes", len(res.Schemes))
	sp.set("chapters", res.ChapterCount)
	return res, nil
}

func formatValidationErrors(errs []error) error {
	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		lines = append(lines, "  - "+e.Error())
	}
	return fmt.Errorf("import file has %d problem(s):\n%s", len(errs), strings.Join(lines, "\n"))
}
