package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorAqua   = lipgloss.Color("#689d6a")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleAqua       = lipgloss.NewStyle().Foreground(ColorAqua)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// BandStyle colors a progress band.
func BandStyle(band domain.ProgressBand) lipgloss.Style {
	switch band {
	case domain.BandGood:
		return StyleGreen
	case domain.BandCaution:
		return StyleYellow
	default:
		return StyleRed
	}
}

// StatePill renders a session state such as "● Ready". Cascaded sessions get
// a trailing ↻ whatever their primary state.
func StatePill(st domain.SessionStatus) string {
	var pill string
	switch st.State {
	case domain.StateReported:
		pill = StyleGreen.Render("✔ " + st.State.Label())
	case domain.StateReady:
		pill = StyleAqua.Render("● " + st.State.Label())
	case domain.StatePlanned:
		pill = StyleBlue.Render("◐ " + st.State.Label())
	case domain.StateCascaded:
		pill = StyleYellow.Render("↻ " + st.State.Label())
	case domain.StateCancelled:
		pill = StyleDim.Render("✖ " + st.State.Label())
	default:
		pill = StyleDim.Render("○ " + st.State.Label())
	}
	if st.Cascaded && st.State != domain.StateCascaded {
		pill += StyleYellow.Render(" ↻")
	}
	return pill
}

// PlanStatusPill renders a stored lesson-plan status.
func PlanStatusPill(s domain.PlanStatus) string {
	switch s {
	case domain.PlanReported:
		return StyleGreen.Render("✔ " + string(s))
	case domain.PlanReady:
		return StyleAqua.Render("● " + string(s))
	case domain.PlanPendingReview:
		return StyleBlue.Render("◐ " + string(s))
	case domain.PlanCascaded:
		return StyleYellow.Render("↻ " + string(s))
	case domain.PlanRejected:
		return StyleRed.Render("✖ " + string(s))
	default:
		return StyleDim.Render("✖ " + string(s))
	}
}

// BadgeLabel renders a chapter badge; empty for BadgeNone.
func BadgeLabel(b domain.ChapterBadge) string {
	switch b {
	case domain.BadgeChapterComplete:
		return StyleGreen.Render("★ Chapter complete")
	case domain.BadgeChapterCompleted:
		return StyleGreen.Render("✔ Chapter completed")
	case domain.BadgeAllReported:
		return StyleAqua.Render("✔ All sessions reported")
	default:
		return ""
	}
}

// ConflictTag renders a slot's exam conflict; empty when there is none.
func ConflictTag(c domain.Conflict) string {
	switch c.Level {
	case domain.ConflictHard:
		return StyleRed.Render("✖ " + c.Message())
	case domain.ConflictSoft:
		return StyleYellow.Render("! " + c.Message())
	default:
		return ""
	}
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
