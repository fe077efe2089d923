package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/syllabus/internal/app"
	"github.com/alexanderramin/syllabus/internal/domain"
)

const barWidth = 20

// FormatSchemeList renders one row per scheme with its planned/reported bar.
func FormatSchemeList(tree *app.SchemeTree) string {
	if tree == nil || len(tree.Schemes) == 0 {
		return Dim("No schemes of work. Import a curriculum with `syllabus import FILE`.") + "\n"
	}

	rows := make([][]string, 0, len(tree.Schemes))
	for _, n := range tree.Schemes {
		s := n.Scheme
		rows = append(rows, []string{
			TruncID(s.ID),
			Bold(s.Class + " " + s.Subject),
			domain.CoalesceStr(strings.TrimSpace(s.Term+" "+s.AcademicYear), "-"),
			fmt.Sprintf("%d/%d", n.Progress.LPPlanned, n.Progress.Total),
			schemeBar(n.Progress, 12),
		})
	}

	var b strings.Builder
	b.WriteString(Header("Schemes of work"))
	b.WriteString("\n")
	b.WriteString(RenderTable([]string{"ID", "SCHEME", "TERM", "PLANNED", "PROGRESS"}, rows))
	b.WriteString(formatPolicyLine(tree))
	return b.String()
}

func formatPolicyLine(tree *app.SchemeTree) string {
	w := tree.Window
	line := fmt.Sprintf("Window %s to %s", w.Start.Format(domain.DateLayout), w.End.Format(domain.DateLayout))
	if w.SubmissionDay != nil {
		line += fmt.Sprintf(" · submissions on %s", w.SubmissionDay)
	}
	if tree.BulkOnly {
		line += " · bulk preparation only"
	}
	return "\n" + Dim(line) + "\n"
}

func schemeBar(p domain.SchemeProgress, width int) string {
	if p.ReportedPercent == nil {
		return RenderPlannedOnly(p.PlannedPercent, p.Band, width)
	}
	return RenderProgress(p.PlannedPercent, p.OverlayPercent(), p.Band, width)
}

// FormatSchemeTree renders a scheme with its chapters and sessions, the
// chapter badges and affordances, and any gate disagreements.
func FormatSchemeTree(n *app.SchemeNode) string {
	s := n.Scheme
	var b strings.Builder

	b.WriteString(StyleHeader.Render(fmt.Sprintf("%s %s", s.Class, s.Subject)))
	if term := strings.TrimSpace(s.Term + " " + s.AcademicYear); term != "" {
		b.WriteString(Dim("  " + term))
	}
	b.WriteString("\n")
	b.WriteString(schemeBar(n.Progress, barWidth))
	b.WriteString("\n\n")

	if !s.DetailLoaded || len(n.Chapters) == 0 {
		b.WriteString(Dim("Chapter detail is not available for this scheme."))
		b.WriteString("\n")
		return b.String()
	}

	var items []TreeItem
	for ci, cn := range n.Chapters {
		ch := cn.Chapter
		items = append(items, TreeItem{
			Title:  fmt.Sprintf("Chapter %d: %s", ch.Number, domain.CoalesceStr(ch.Name, "Untitled")),
			Level:  0,
			Marker: chapterMarker(ch),
			Detail: chapterDetail(cn),
			Muted:  !ch.CanPrepare,
		})
		for si, sess := range ch.Sessions {
			items = append(items, TreeItem{
				Title:  sessionTitle(sess),
				Level:  1,
				IsLast: si == len(ch.Sessions)-1,
				Marker: StatePill(sess.Status),
				Detail: sessionDetail(sess),
				Muted:  sess.Status.State == domain.StateNotPlanned,
			})
		}
		if ci < len(n.Chapters)-1 {
			items = append(items, TreeItem{})
		}
	}
	b.WriteString(RenderTree(items))

	if len(n.GateMismatches) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleYellowBold.Render("Gate diagnostics"))
		b.WriteString("\n")
		for _, m := range n.GateMismatches {
			b.WriteString(StyleYellow.Render("  ! " + m.String()))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func chapterMarker(ch domain.Chapter) string {
	switch {
	case ch.Completed:
		return StyleGreen.Render("★")
	case ch.CanPrepare:
		return StyleAqua.Render("▸")
	default:
		return StyleDim.Render("🔒")
	}
}

func chapterDetail(cn app.ChapterNode) string {
	p := cn.Progress
	parts := []string{RenderProgress(p.PlannedPercent, p.ReportedPercent, p.Band, 10)}
	if badge := BadgeLabel(cn.Badge); badge != "" {
		parts = append(parts, badge)
	}
	switch {
	case !cn.Chapter.CanPrepare && cn.Chapter.LockReason != "":
		parts = append(parts, Dim(cn.Chapter.LockReason))
	case cn.Affordances.PrepareAll:
		parts = append(parts, StyleAqua.Render(fmt.Sprintf("prepare all %d", cn.Affordances.PrepareAllCount)))
	case cn.Affordances.AddExtended:
		parts = append(parts, StyleAqua.Render(fmt.Sprintf("add extended session %d", cn.Affordances.ExtendedTarget)))
	}
	return strings.Join(parts, "  ")
}

func sessionTitle(s domain.Session) string {
	title := fmt.Sprintf("%d. %s", s.Number, s.Name)
	if s.IsExtended {
		title += Dim(" (extended)")
	}
	return title
}

func sessionDetail(s domain.Session) string {
	var parts []string
	if s.PlannedDate != nil {
		parts = append(parts, SlotLabel(*s.PlannedDate, domain.StrFromPtr(s.PlannedPeriod)))
	}
	if s.Status.Cascaded && s.Status.CascadeDetail != "" {
		parts = append(parts, StyleYellow.Render(s.Status.CascadeDetail))
	}
	if s.LessonPlanID != "" {
		parts = append(parts, TruncID(s.LessonPlanID))
	}
	return strings.Join(parts, "  ")
}

// FormatLoadAdvisory renders the slow-load notice.
func FormatLoadAdvisory(msg string) string {
	return StyleYellow.Render("… "+msg) + "\n"
}
