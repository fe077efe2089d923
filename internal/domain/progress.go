package domain

// ChapterProgress is the per-chapter aggregate.
type ChapterProgress struct {
	Total          int
	Planned        int
	Reported       int
	PlannedPercent int
	// ReportedPercent is already capped at PlannedPercent for overlay use.
	ReportedPercent int
	Band            ProgressBand
}

// SchemeProgress is the per-scheme aggregate. Reported and ReportedPercent are
// nil when chapter detail has not been loaded yet, which is different from a
// known zero.
type SchemeProgress struct {
	Total           int
	LPPlanned       int
	Reported        *int
	PlannedPercent  int
	ReportedPercent *int
	Band            ProgressBand
}

// OverlayPercent is the width of the reported bar drawn over the planned bar.
func (p SchemeProgress) OverlayPercent() int {
	if p.ReportedPercent == nil {
		return 0
	}
	return min(*p.ReportedPercent, p.PlannedPercent)
}
