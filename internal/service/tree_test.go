package service

import (
	"testing"
	"time"

	"github.com/alexanderramin/syllabus/internal/app"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTree_FailedPayload(t *testing.T) {
	_, err := BuildTree(nil, friday)
	assert.Equal(t, app.ErrCodeLoadFailed, app.CodeOf(err))

	_, err = BuildTree(&domain.SchemeLoadPayload{Success: false, Error: "upstream down"}, friday)
	require.Error(t, err)
	assert.True(t, app.IsClass(err, app.ClassLoad))
	assert.Contains(t, err.Error(), "upstream down")
}

func TestBuildTree_ChaptersCarryProgressBadgesAndGates(t *testing.T) {
	tree, err := BuildTree(twoChapterPayload(), friday)
	require.NoError(t, err)
	require.Len(t, tree.Schemes, 1)

	s := tree.Schemes[0]
	ch1, ok := s.Chapter(1)
	require.True(t, ok)
	assert.Len(t, ch1.Chapter.Sessions, 3, "sparse sessions are expanded")
	assert.Equal(t, 1, ch1.Progress.Planned)
	assert.Equal(t, 33, ch1.Progress.PlannedPercent)
	assert.Equal(t, domain.BadgeNone, ch1.Badge)
	assert.False(t, ch1.Affordances.PrepareAll)

	ch2, ok := s.Chapter(2)
	require.True(t, ok)
	assert.False(t, ch2.Chapter.CanPrepare)
	assert.Equal(t, domain.GateLocal, ch2.Chapter.GateSource)
	assert.Equal(t, "Complete Chapter 1 first", ch2.Chapter.LockReason)
	assert.True(t, ch2.Affordances.PrepareAll)
	assert.Equal(t, 2, ch2.Affordances.PrepareAllCount)

	assert.Equal(t, 5, s.Progress.Total)
	require.NotNil(t, s.Progress.Reported)
	assert.Equal(t, 1, *s.Progress.Reported)
	assert.Empty(t, s.GateMismatches)
}

func TestBuildTree_UpstreamGateMismatchIsReported(t *testing.T) {
	p := twoChapterPayload()
	p.Schemes[0].Chapters[1].CanPrepare = boolPtr(true)

	tree, err := BuildTree(p, friday)
	require.NoError(t, err)
	ch2, _ := tree.Schemes[0].Chapter(2)
	assert.True(t, ch2.Chapter.CanPrepare, "the upstream gate wins")
	require.Len(t, tree.Schemes[0].GateMismatches, 1)
	assert.Equal(t, 2, tree.Schemes[0].GateMismatches[0].ChapterNumber)
}

func TestBuildTree_CompletedBadgeNeedsOpenNextChapter(t *testing.T) {
	p := twoChapterPayload()
	p.Schemes[0].Chapters[0].Sessions = []domain.SessionPayload{
		session(1, "Reported"), session(2, "Reported"), session(3, "Reported"),
	}
	tree, err := BuildTree(p, friday)
	require.NoError(t, err)

	ch1, _ := tree.Schemes[0].Chapter(1)
	assert.Equal(t, domain.BadgeChapterCompleted, ch1.Badge)
	assert.True(t, ch1.Affordances.AddExtended)
	assert.Equal(t, 4, ch1.Affordances.ExtendedTarget)
	ch2, _ := tree.Schemes[0].Chapter(2)
	assert.True(t, ch2.Chapter.CanPrepare)
}

func TestResolveWindow(t *testing.T) {
	today := time.Date(2025, 11, 7, 0, 0, 0, 0, time.UTC)

	w := resolveWindow(nil, friday)
	assert.Equal(t, today, w.Start)
	assert.Equal(t, today.AddDate(0, 0, domain.DefaultWindowDays), w.End)
	assert.Nil(t, w.SubmissionDay)

	w = resolveWindow(&domain.PlanningWindowPayload{
		StartDate: "2025-11-10T00:00:00Z", EndDate: "2025-11-21", SubmissionDay: "fri",
	}, friday)
	assert.Equal(t, "2025-11-10", w.Start.Format(domain.DateLayout))
	assert.Equal(t, "2025-11-21", w.End.Format(domain.DateLayout))
	require.NotNil(t, w.SubmissionDay)
	assert.Equal(t, time.Friday, *w.SubmissionDay)
	assert.True(t, w.SubmissionAllowed(friday))

	w = resolveWindow(&domain.PlanningWindowPayload{StartDate: "2025-12-01", EndDate: "2025-11-01"}, friday)
	assert.Equal(t, "2025-12-29", w.End.Format(domain.DateLayout), "an inverted range is widened from the start")

	w = resolveWindow(&domain.PlanningWindowPayload{StartDate: "soon", SubmissionDay: "someday"}, friday)
	assert.Equal(t, today, w.Start)
	assert.Nil(t, w.SubmissionDay)
}
