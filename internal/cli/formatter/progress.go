package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/syllabus/internal/domain"
)

const (
	filledBlock  = "█"
	plannedBlock = "▓"
	emptyBlock   = "░"
)

// RenderProgress renders a planned bar with the reported share drawn over it,
// like [██▓▓░░░░]  40% planned, 20% reported. reported is capped at planned.
func RenderProgress(planned, reported int, band domain.ProgressBand, width int) string {
	planned = clampPct(planned)
	reported = min(clampPct(reported), planned)
	width = max(width, 2)

	plannedCells := planned * width / 100
	reportedCells := min(reported*width/100, plannedCells)

	bar := StyleGreen.Render(strings.Repeat(filledBlock, reportedCells)) +
		BandStyle(band).Render(strings.Repeat(plannedBlock, plannedCells-reportedCells)) +
		StyleDim.Render(strings.Repeat(emptyBlock, width-plannedCells))
	return fmt.Sprintf("[%s] %3d%% planned, %d%% reported", bar, planned, reported)
}

// RenderPlannedOnly is the bar for schemes whose chapter detail is not loaded
// and whose reported share is unknown.
func RenderPlannedOnly(planned int, band domain.ProgressBand, width int) string {
	planned = clampPct(planned)
	width = max(width, 2)
	cells := planned * width / 100
	bar := BandStyle(band).Render(strings.Repeat(plannedBlock, cells)) +
		StyleDim.Render(strings.Repeat(emptyBlock, width-cells))
	return fmt.Sprintf("[%s] %3d%% planned", bar, planned)
}

func clampPct(p int) int {
	return max(0, min(100, p))
}
