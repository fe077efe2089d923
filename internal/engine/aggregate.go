package engine

import (
	"math"

	"github.com/alexanderramin/syllabus/internal/domain"
)

// CountPlanned counts sessions that hold a live plan.
func CountPlanned(sessions []domain.Session) int {
	n := 0
	for _, s := range sessions {
		if s.Status.State.CountsAsPlanned() {
			n++
		}
	}
	return n
}

// CountReported counts delivered sessions.
func CountReported(sessions []domain.Session) int {
	n := 0
	for _, s := range sessions {
		if s.Status.State == domain.StateReported {
			n++
		}
	}
	return n
}

// Percent is round(part/total*100) clamped to [0, 100]; total <= 0 yields 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	p := math.Round(float64(part) / float64(total) * 100)
	return int(domain.ClampPercent(p))
}

// Band maps a percentage onto the presentation bands.
func Band(pct int) domain.ProgressBand {
	switch {
	case pct >= 80:
		return domain.BandGood
	case pct >= 50:
		return domain.BandCaution
	default:
		return domain.BandRisk
	}
}

// ChapterProgress aggregates one chapter's sessions.
func ChapterProgress(ch domain.Chapter) domain.ChapterProgress {
	total := len(ch.Sessions)
	planned := CountPlanned(ch.Sessions)
	reported := CountReported(ch.Sessions)
	plannedPct := Percent(planned, total)
	return domain.ChapterProgress{
		Total:           total,
		Planned:         planned,
		Reported:        reported,
		PlannedPercent:  plannedPct,
		ReportedPercent: min(Percent(reported, total), plannedPct),
		Band:            Band(plannedPct),
	}
}

// SchemeProgress aggregates a scheme. Without chapter detail it falls back to
// the coarse totals and leaves the reported figures unknown.
func SchemeProgress(s domain.Scheme) domain.SchemeProgress {
	if !s.DetailLoaded {
		pct := Percent(s.PlannedSessions, s.TotalSessions)
		return domain.SchemeProgress{
			Total:          s.TotalSessions,
			LPPlanned:      s.PlannedSessions,
			PlannedPercent: pct,
			Band:           Band(pct),
		}
	}

	var total, planned, reported int
	for _, ch := range s.Chapters {
		total += len(ch.Sessions)
		planned += CountPlanned(ch.Sessions)
		reported += CountReported(ch.Sessions)
	}
	plannedPct := Percent(planned, total)
	reportedPct := Percent(reported, total)
	return domain.SchemeProgress{
		Total:           total,
		LPPlanned:       planned,
		Reported:        &reported,
		PlannedPercent:  plannedPct,
		ReportedPercent: &reportedPct,
		Band:            Band(plannedPct),
	}
}
