package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/syllabus/internal/db"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/repository"
	"github.com/alexanderramin/syllabus/internal/testutil"
	"github.com/stretchr/testify/require"
)

// storeEnv is a migrated database holding one Form 2 Mathematics scheme with
// two chapters (3 and 2 sessions) and a Mon P1, Tue P3, Wed P2 timetable.
type storeEnv struct {
	db        *sql.DB
	uow       db.UnitOfWork
	schemes   *repository.SQLiteSchemeRepo
	chapters  *repository.SQLiteChapterRepo
	plans     *repository.SQLiteLessonPlanRepo
	timetable *repository.SQLiteTimetableRepo
	exams     *repository.SQLiteExamRepo
	settings  *repository.SQLiteSettingsRepo
	scheme    *domain.SchemeDef
}

func newStoreEnv(t *testing.T) *storeEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	env := &storeEnv{
		db:        database,
		uow:       testutil.NewTestUoW(database),
		schemes:   repository.NewSQLiteSchemeRepo(database),
		chapters:  repository.NewSQLiteChapterRepo(database),
		plans:     repository.NewSQLiteLessonPlanRepo(database),
		timetable: repository.NewSQLiteTimetableRepo(database),
		exams:     repository.NewSQLiteExamRepo(database),
		settings:  repository.NewSQLiteSettingsRepo(database),
		scheme:    testutil.NewTestScheme("Form 2", "Mathematics"),
	}
	ctx := context.Background()
	require.NoError(t, env.schemes.Create(ctx, env.scheme))
	require.NoError(t, env.chapters.Upsert(ctx, testutil.NewTestChapter(env.scheme.ID, 1, 3)))
	require.NoError(t, env.chapters.Upsert(ctx, testutil.NewTestChapter(env.scheme.ID, 2, 2)))
	for _, s := range []*domain.TimetableSlot{
		testutil.NewTestSlot(time.Monday, "1", "Form 2", "Mathematics"),
		testutil.NewTestSlot(time.Tuesday, "3", "Form 2", "Mathematics"),
		testutil.NewTestSlot(time.Wednesday, "2", "Form 2", "Mathematics"),
		testutil.NewTestSlot(time.Monday, "2", "Form 3", "English"),
	} {
		require.NoError(t, env.timetable.Create(ctx, s))
	}
	return env
}

// plan stores a plan for a session of the env's scheme.
func (e *storeEnv) plan(t *testing.T, chapter, session int, opts ...testutil.PlanOption) *domain.LessonPlan {
	t.Helper()
	p := testutil.NewTestPlan(e.scheme, chapter, session, opts...)
	require.NoError(t, e.plans.Create(context.Background(), p))
	return p
}

func (e *storeEnv) reload(t *testing.T, id string) *domain.LessonPlan {
	t.Helper()
	p, err := e.plans.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (e *storeEnv) scope() domain.Scope {
	return domain.Scope{Class: e.scheme.Class, Subject: e.scheme.Subject}
}
