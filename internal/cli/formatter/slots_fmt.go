package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/syllabus/internal/domain"
)

// SlotOption is the one-line label used in period pickers.
func SlotOption(s domain.AnnotatedSlot) string {
	label := SlotLabel(s.Date, s.Period)
	if s.StartTime != "" {
		label += Dim(fmt.Sprintf(" %s-%s", s.StartTime, s.EndTime))
	}
	switch {
	case s.IsOccupied:
		label += Dim("  occupied")
	case !s.IsAvailable:
		label += Dim("  unavailable")
	}
	if tag := ConflictTag(s.Conflict); tag != "" {
		label += "  " + tag
	}
	return label
}

// FormatSlots renders the annotated candidate periods as a numbered table.
func FormatSlots(scope domain.Scope, slots []domain.AnnotatedSlot) string {
	if len(slots) == 0 {
		return Dim(fmt.Sprintf("No teaching periods for %s in this range.", scope)) + "\n"
	}
	rows := make([][]string, 0, len(slots))
	free := 0
	for i, s := range slots {
		status := StyleGreen.Render("free")
		switch {
		case s.IsOccupied:
			status = Dim("occupied")
		case !s.IsAvailable:
			status = Dim("unavailable")
		case s.Conflict.Level == domain.ConflictHard:
			status = StyleRed.Render("blocked")
		default:
			free++
		}
		times := ""
		if s.StartTime != "" {
			times = s.StartTime + "-" + s.EndTime
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			SlotDate(s.Date),
			"P" + domain.NormalizePeriod(s.Period),
			times,
			status,
			ConflictTag(s.Conflict),
		})
	}
	var b strings.Builder
	b.WriteString(Header("Periods for " + scope.String()))
	b.WriteString("\n")
	b.WriteString(RenderTable([]string{"#", "DATE", "PERIOD", "TIME", "STATUS", "EXAMS"}, rows))
	b.WriteString("\n")
	b.WriteString(Dim(fmt.Sprintf("%d of %d periods selectable", free, len(slots))))
	b.WriteString("\n")
	return b.String()
}
