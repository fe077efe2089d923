package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/syllabus/internal/app"
	"github.com/alexanderramin/syllabus/internal/domain"
)

// FormatPlan renders one stored lesson plan.
func FormatPlan(p *domain.LessonPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Bold(fmt.Sprintf("Chapter %d · %s", p.ChapterNumber, p.SessionName)), PlanStatusPill(p.Status))
	fmt.Fprintf(&b, "%s %s\n", Dim("Class"), p.Class+" "+p.Subject)
	if p.PlannedDate != nil {
		fmt.Fprintf(&b, "%s  %s\n", Dim("When"), SlotLabel(*p.PlannedDate, domain.StrFromPtr(p.PlannedPeriod)))
	}
	if p.Displaced() {
		fmt.Fprintf(&b, "%s  %s\n", Dim("From"), StyleYellow.Render(
			SlotLabel(domain.StrFromPtr(p.OriginalDate), domain.StrFromPtr(p.OriginalPeriod))))
	}
	if p.PlanStatusNote != "" {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Note"), p.PlanStatusNote)
	}
	if p.DurationMin > 0 {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Time"), FormatMinutes(p.DurationMin))
	}
	b.WriteString("\n")
	writeField(&b, "Objectives", p.Fields.Objectives)
	writeField(&b, "Methods", p.Fields.Methods)
	writeField(&b, "Resources", p.Fields.Resources)
	writeField(&b, "Assessment", p.Fields.Assessment)
	if p.ReviewComment != "" {
		writeField(&b, "Review", p.ReviewComment)
	}
	fmt.Fprintf(&b, "%s %s", Dim("id"), p.ID)
	return RenderBox("Lesson plan", b.String())
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		value = Dim("-")
	}
	fmt.Fprintf(b, "%s\n%s\n\n", StyleBlue.Render(label), value)
}

// FormatPlanResult summarises a successful write.
func FormatPlanResult(res *app.PlanResult) string {
	n := len(res.PlanIDs)
	if res.CreatedCount != nil {
		n = *res.CreatedCount
	}
	noun := "lesson plan"
	if n != 1 {
		noun += "s"
	}
	msg := StyleGreen.Render(fmt.Sprintf("✔ Created %d %s", n, noun))
	if res.Message != "" {
		msg += Dim("  " + res.Message)
	}
	return msg + "\n"
}

// FormatPlanError renders a classified preparation error with its field
// problems.
func FormatPlanError(pe *app.PlanError) string {
	var b strings.Builder
	b.WriteString(StyleRed.Render(fmt.Sprintf("✖ %s", pe.Message)))
	b.WriteString(Dim(fmt.Sprintf("  [%s]", pe.Code)))
	b.WriteString("\n")
	for _, f := range pe.Fields {
		fmt.Fprintf(&b, "  %s %s\n", StyleYellow.Render(f.Field+":"), f.Message)
	}
	if pe.Err != nil {
		b.WriteString(Dim("  " + pe.Err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatSettings renders the stored policies and the window they resolve to.
func FormatSettings(s *domain.Settings, now time.Time) string {
	w := s.Window(now)
	day := "any day"
	if s.SubmissionDay != nil {
		day = s.SubmissionDay.String()
	}
	window := fmt.Sprintf("%s to %s", w.Start.Format(domain.DateLayout), w.End.Format(domain.DateLayout))
	if s.WindowStart == nil && s.WindowEnd == nil {
		window += Dim(fmt.Sprintf(" (default %d days)", domain.DefaultWindowDays))
	}
	bulk := "off"
	if s.BulkOnly {
		bulk = StyleYellow.Render("on")
	}
	rows := [][]string{
		{"Bulk preparation only", bulk},
		{"Planning window", window},
		{"Submission day", day},
	}
	return RenderTable([]string{"SETTING", "VALUE"}, rows)
}

// FormatExams renders the exam calendar.
func FormatExams(exams []*domain.ExamRecord) string {
	if len(exams) == 0 {
		return Dim("No exams scheduled.") + "\n"
	}
	rows := make([][]string, 0, len(exams))
	for _, e := range exams {
		period := "all day"
		if e.Period != nil && *e.Period != "" {
			period = "P" + domain.NormalizePeriod(*e.Period)
		}
		rows = append(rows, []string{
			TruncID(e.ID),
			SlotDate(e.Date),
			period,
			e.Class + " " + e.Subject,
			Truncate(domain.CoalesceStr(e.Name, e.ExamType, "Exam"), 40),
		})
	}
	return RenderTable([]string{"ID", "DATE", "PERIOD", "CLASS", "EXAM"}, rows)
}

// FormatTimetable renders the weekly teaching periods.
func FormatTimetable(slots []*domain.TimetableSlot) string {
	if len(slots) == 0 {
		return Dim("No timetable periods.") + "\n"
	}
	rows := make([][]string, 0, len(slots))
	for _, s := range slots {
		times := ""
		if s.StartTime != "" {
			times = s.StartTime + "-" + s.EndTime
		}
		rows = append(rows, []string{
			TruncID(s.ID),
			s.Weekday.String(),
			"P" + domain.NormalizePeriod(s.Period),
			times,
			s.Class + " " + s.Subject,
		})
	}
	return RenderTable([]string{"ID", "DAY", "PERIOD", "TIME", "CLASS"}, rows)
}

// FormatImportResult summarises what an import stored.
func FormatImportResult(res ImportSummary) string {
	var b strings.Builder
	b.WriteString(StyleGreen.Render("✔ Curriculum imported"))
	b.WriteString("\n")
	for _, name := range res.Schemes {
		fmt.Fprintf(&b, "  %s %s\n", StyleAqua.Render("▸"), name)
	}
	fmt.Fprintf(&b, "%s\n", Dim(fmt.Sprintf("%d chapters · %d timetable periods · %d exams",
		res.Chapters, res.Timetable, res.Exams)))
	return b.String()
}

// ImportSummary is the display form of an import result.
type ImportSummary struct {
	Schemes   []string
	Chapters  int
	Timetable int
	Exams     int
}

// FormatSuggestion renders drafted plan fields.
func FormatSuggestion(f domain.PlanFields) string {
	var b strings.Builder
	writeField(&b, "Objectives", f.Objectives)
	writeField(&b, "Methods", f.Methods)
	writeField(&b, "Resources", f.Resources)
	writeField(&b, "Assessment", f.Assessment)
	return RenderBox("Suggested plan", strings.TrimRight(b.String(), "\n"))
}

// FormatPlanList renders the stored plans of a scheme, rejected ones
// included.
func FormatPlanList(plans []*domain.LessonPlan) string {
	if len(plans) == 0 {
		return Dim("No lesson plans yet.") + "\n"
	}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		when := "-"
		if p.PlannedDate != nil {
			when = SlotLabel(*p.PlannedDate, domain.StrFromPtr(p.PlannedPeriod))
		}
		rows = append(rows, []string{
			p.ID,
			fmt.Sprintf("%d.%d", p.ChapterNumber, p.SessionNumber),
			Truncate(p.SessionName, 28),
			when,
			PlanStatusPill(p.Status),
		})
	}
	return RenderTable([]string{"ID", "SESSION", "NAME", "WHEN", "STATUS"}, rows)
}
