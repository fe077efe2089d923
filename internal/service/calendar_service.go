package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/repository"
	"github.com/google/uuid"
)

type examService struct {
	repo repository.ExamRepo
}

func NewExamService(repo repository.ExamRepo) ExamService {
	return &examService{repo: repo}
}

func (s *examService) Add(ctx context.Context, e *domain.ExamRecord) error {
	e.Date = domain.NormalizeDate(e.Date)
	if _, err := time.Parse(domain.DateLayout, e.Date); err != nil {
		return fmt.Errorf("exam date %q: %w", e.Date, err)
	}
	if strings.TrimSpace(e.Class) == "" || strings.TrimSpace(e.Subject) == "" {
		return fmt.Errorf("exam needs a class and a subject")
	}
	if e.Period != nil && strings.TrimSpace(*e.Period) == "" {
		e.Period = nil
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return s.repo.Create(ctx, e)
}

func (s *examService) List(ctx context.Context, scope *domain.Scope) ([]*domain.ExamRecord, error) {
	if scope != nil {
		return s.repo.ListByScope(ctx, *scope)
	}
	return s.repo.List(ctx)
}

func (s *examService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

type timetableService struct {
	repo repository.TimetableRepo
}

func NewTimetableService(repo repository.TimetableRepo) TimetableService {
	return &timetableService{repo: repo}
}

func (s *timetableService) Add(ctx context.Context, slot *domain.TimetableSlot) error {
	slot.Period = strings.TrimSpace(slot.Period)
	if slot.Period == "" {
		return fmt.Errorf("timetable slot needs a period")
	}
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	return s.repo.Create(ctx, slot)
}

func (s *timetableService) List(ctx context.Context, teacherID string) ([]*domain.TimetableSlot, error) {
	return s.repo.ListByTeacher(ctx, teacherID)
}

func (s *timetableService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
