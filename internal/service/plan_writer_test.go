package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/syllabus/internal/app"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/repository"
	"github.com/alexanderramin/syllabus/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleRequest(env *storeEnv, chapter, session int, date, period string) app.SinglePlanRequest {
	return app.SinglePlanRequest{
		TeacherID:     testutil.TestTeacherID,
		SchemeID:      env.scheme.ID,
		Scope:         env.scope(),
		ChapterNumber: chapter,
		Draft: app.PlanDraft{
			SessionNumber: session,
			Date:          date,
			Period:        period,
			DurationMin:   40,
			Fields:        validFields(),
		},
	}
}

func TestLocalPlanWriter_CreateSingle(t *testing.T) {
	env := newStoreEnv(t)
	w := NewLocalPlanWriter(env.uow)

	res, err := w.CreateSingle(context.Background(), singleRequest(env, 1, 1, "2025-11-10T00:00:00Z", " 1 "))
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	require.NotNil(t, res.CreatedCount)
	assert.Equal(t, 1, *res.CreatedCount)
	require.Len(t, res.PlanIDs, 1)

	p := env.reload(t, res.PlanIDs[0])
	assert.Equal(t, domain.PlanPendingReview, p.Status)
	assert.Equal(t, "2025-11-10", *p.PlannedDate)
	assert.Equal(t, "1", *p.PlannedPeriod)
	assert.Equal(t, "Session 1", p.SessionName)
	assert.Equal(t, "Form 2", p.Class)
	assert.Equal(t, validFields(), p.Fields)
	assert.False(t, p.Displaced())
}

func TestLocalPlanWriter_Refusals(t *testing.T) {
	env := newStoreEnv(t)
	w := NewLocalPlanWriter(env.uow)
	ctx := context.Background()

	tests := []struct {
		name string
		req  app.SinglePlanRequest
		want string
	}{
		{"missing period", singleRequest(env, 1, 1, "2025-11-10", ""), "period is required"},
		{"bad date", singleRequest(env, 1, 1, "next week", "1"), "invalid date"},
		{"locked chapter", singleRequest(env, 2, 1, "2025-11-10", "1"), "Complete Chapter 1 first"},
		{"unknown chapter", singleRequest(env, 7, 1, "2025-11-10", "1"), "does not exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := w.CreateSingle(ctx, tt.req)
			require.NoError(t, err)
			assert.False(t, res.Success)
			assert.Contains(t, res.Message, tt.want)
		})
	}

	missing := singleRequest(env, 1, 1, "2025-11-10", "1")
	missing.Draft.Fields.Methods = ""
	res, err := w.CreateSingle(ctx, missing)
	require.NoError(t, err)
	assert.Equal(t, "session 1: methods is required", res.Message)

	plans, err := env.plans.ListByScheme(ctx, env.scheme.ID)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestLocalPlanWriter_GateFollowsChapterOrder(t *testing.T) {
	env := newStoreEnv(t)
	w := NewLocalPlanWriter(env.uow)
	ctx := context.Background()
	require.NoError(t, env.chapters.Upsert(ctx, testutil.NewTestChapter(env.scheme.ID, 4, 2)))
	for n := 1; n <= 3; n++ {
		env.plan(t, 1, n, testutil.WithPlanStatus(domain.PlanReported))
	}

	res, err := w.CreateSingle(ctx, singleRequest(env, 4, 1, "2025-11-10", "1"))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Complete Chapter 2 first", "chapter 2 precedes chapter 4")

	ext := env.plan(t, 1, 4, testutil.WithExtended())
	res, err = w.CreateSingle(ctx, singleRequest(env, 2, 1, "2025-11-10", "1"))
	require.NoError(t, err)
	assert.False(t, res.Success, "an unreported extended session keeps the next chapter locked")
	assert.Contains(t, res.Message, "Complete Chapter 1 first")

	ext.Status = domain.PlanReported
	require.NoError(t, env.plans.Update(ctx, ext))
	res, err = w.CreateSingle(ctx, singleRequest(env, 2, 1, "2025-11-10", "1"))
	require.NoError(t, err)
	assert.True(t, res.Success, res.Message)
}

func TestLocalPlanWriter_SessionPlannedTwice(t *testing.T) {
	env := newStoreEnv(t)
	w := NewLocalPlanWriter(env.uow)
	ctx := context.Background()

	res, err := w.CreateSingle(ctx, singleRequest(env, 1, 1, "2025-11-10", "1"))
	require.NoError(t, err)
	require.True(t, res.Success)

	res, err = w.CreateSingle(ctx, singleRequest(env, 1, 1, "2025-11-11", "3"))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "already has a plan")
}

func TestLocalPlanWriter_CascadesDisplacedPlan(t *testing.T) {
	env := newStoreEnv(t)
	held := env.plan(t, 1, 1, testutil.WithPlanStatus(domain.PlanReady), testutil.WithSlot("2025-11-10", "1"))
	env.plan(t, 1, 3, testutil.WithSlot("2025-11-11", "3"))

	res, err := NewLocalPlanWriter(env.uow).CreateSingle(context.Background(), singleRequest(env, 1, 2, "2025-11-10", "1"))
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)

	moved := env.reload(t, held.ID)
	assert.Equal(t, domain.PlanCascaded, moved.Status)
	assert.Equal(t, "2025-11-12", *moved.PlannedDate, "the next free period of the same class and subject")
	assert.Equal(t, "2", *moved.PlannedPeriod)
	assert.Equal(t, "2025-11-10", *moved.OriginalDate)
	assert.Equal(t, "1", *moved.OriginalPeriod)
	assert.Equal(t, "Cascaded from 2025-11-10 period 1", moved.PlanStatusNote)

	created := env.reload(t, res.PlanIDs[0])
	assert.Equal(t, "2025-11-10", *created.PlannedDate)
}

func TestLocalPlanWriter_ReportedPlanIsNeverDisplaced(t *testing.T) {
	env := newStoreEnv(t)
	env.plan(t, 1, 1, testutil.WithPlanStatus(domain.PlanReported), testutil.WithSlot("2025-11-10", "1"))

	res, err := NewLocalPlanWriter(env.uow).CreateSingle(context.Background(), singleRequest(env, 1, 2, "2025-11-10", "1"))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "reported lesson")
}

func bulkRequest(env *storeEnv, slots ...[2]string) app.BulkPlanRequest {
	req := app.BulkPlanRequest{
		TeacherID:     testutil.TestTeacherID,
		SchemeID:      env.scheme.ID,
		Scope:         env.scope(),
		ChapterNumber: 1,
	}
	for i, s := range slots {
		req.Drafts = append(req.Drafts, app.PlanDraft{
			SessionNumber: i + 1,
			SessionName:   domain.DefaultSessionName(i + 1),
			Date:          s[0],
			Period:        s[1],
			Fields:        validFields(),
		})
	}
	return req
}

func TestLocalPlanWriter_CreateBulk(t *testing.T) {
	env := newStoreEnv(t)
	req := bulkRequest(env, [2]string{"2025-11-10", "1"}, [2]string{"2025-11-11", "3"}, [2]string{"2025-11-12", "2"})

	res, err := NewLocalPlanWriter(env.uow).CreateBulk(context.Background(), req)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 3, *res.CreatedCount)

	plans, err := env.plans.ListByScheme(context.Background(), env.scheme.ID)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	for i, p := range plans {
		assert.Equal(t, i+1, p.SessionNumber)
		assert.False(t, p.IsExtended)
	}
}

func TestLocalPlanWriter_BulkIsAllOrNothing(t *testing.T) {
	env := newStoreEnv(t)
	uow := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 2, Err: errors.New("disk I/O error")}
	req := bulkRequest(env, [2]string{"2025-11-10", "1"}, [2]string{"2025-11-11", "3"}, [2]string{"2025-11-12", "2"})

	_, err := NewLocalPlanWriter(uow).CreateBulk(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")

	plans, err := env.plans.ListByScheme(context.Background(), env.scheme.ID)
	require.NoError(t, err)
	assert.Empty(t, plans, "the first insert was rolled back")
}

func TestLocalPlanWriter_BulkRefusalKeepsNothing(t *testing.T) {
	env := newStoreEnv(t)
	env.plan(t, 1, 3, testutil.WithSlot("2025-11-20", "1"))
	req := bulkRequest(env, [2]string{"2025-11-10", "1"}, [2]string{"2025-11-11", "3"}, [2]string{"2025-11-12", "2"})

	res, err := NewLocalPlanWriter(env.uow).CreateBulk(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Success)

	_, err = env.plans.LiveForSession(context.Background(), domain.SessionRef{SchemeID: env.scheme.ID, ChapterNumber: 1, SessionNumber: 1})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLocalPlanWriter_ExtendedBulk(t *testing.T) {
	env := newStoreEnv(t)
	req := bulkRequest(env, [2]string{"2025-11-10", "1"})
	req.Extended = true
	req.Drafts[0].SessionNumber = 4

	res, err := NewLocalPlanWriter(env.uow).CreateBulk(context.Background(), req)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	assert.True(t, env.reload(t, res.PlanIDs[0]).IsExtended)
}
