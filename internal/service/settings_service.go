package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/repository"
)

var ErrInvalidWindow = errors.New("planning window ends before it starts")

type settingsService struct {
	repo repository.SettingsRepo
}

func NewSettingsService(repo repository.SettingsRepo) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Get(ctx context.Context) (*domain.Settings, error) {
	return s.repo.Get(ctx)
}

func (s *settingsService) update(ctx context.Context, fn func(*domain.Settings) error) (*domain.Settings, error) {
	cur, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(cur); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, cur); err != nil {
		return nil, err
	}
	return cur, nil
}

func (s *settingsService) SetBulkOnly(ctx context.Context, on bool) (*domain.Settings, error) {
	return s.update(ctx, func(st *domain.Settings) error {
		st.BulkOnly = on
		return nil
	})
}

func (s *settingsService) SetWindow(ctx context.Context, start, end *time.Time) (*domain.Settings, error) {
	if start != nil && end != nil && end.Before(*start) {
		return nil, ErrInvalidWindow
	}
	return s.update(ctx, func(st *domain.Settings) error {
		st.WindowStart, st.WindowEnd = start, end
		return nil
	})
}

func (s *settingsService) SetSubmissionDay(ctx context.Context, day *time.Weekday) (*domain.Settings, error) {
	return s.update(ctx, func(st *domain.Settings) error {
		st.SubmissionDay = day
		return nil
	})
}
