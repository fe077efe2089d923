package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/syllabus/internal/cli/formatter"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/alexanderramin/syllabus/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var errFormAborted = errors.New("preparation cancelled")

// syllabusHuhTheme returns a huh theme using the formatter palette.
func syllabusHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// runForm runs form with its UI on w so stdout stays clean for results.
func runForm(form *huh.Form, w io.Writer) error {
	err := form.
		WithTheme(syllabusHuhTheme()).
		WithShowHelp(false).
		WithProgramOptions(tea.WithOutput(w)).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return errFormAborted
	}
	return err
}

func requiredText(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

// planFieldGroup edits the four plan fields in place. Without required the
// caller validates, so stepping back never blocks on an empty field.
func planFieldGroup(title string, f *domain.PlanFields, required bool) *huh.Group {
	objectives := huh.NewText().Title("Objectives").Value(&f.Objectives)
	methods := huh.NewText().Title("Methods").Value(&f.Methods)
	if required {
		objectives.Validate(requiredText("objectives"))
		methods.Validate(requiredText("methods"))
	}
	return huh.NewGroup(
		objectives,
		methods,
		huh.NewText().Title("Resources").Value(&f.Resources),
		huh.NewText().Title("Assessment").Value(&f.Assessment),
	).Title(title)
}

// slotPickerForm lists every candidate period. Picking one that cannot be
// used fails validation with the reason.
func slotPickerForm(d *service.SingleDraft, result *int) *huh.Form {
	options := make([]huh.Option[int], 0, len(d.Slots))
	first := -1
	for i, s := range d.Slots {
		options = append(options, huh.NewOption(formatter.SlotOption(s), i))
		if first < 0 && s.Selectable() {
			first = i
		}
	}
	if first >= 0 {
		*result = first
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(fmt.Sprintf("Period for %s", d.SessionName)).
				Description(d.Scope.String()).
				Options(options...).
				Height(12).
				Value(result).
				Validate(d.Select),
		),
	)
}

func singleFieldsForm(d *service.SingleDraft) *huh.Form {
	title := fmt.Sprintf("Chapter %d: %s · %s", d.Ref.ChapterNumber, d.ChapterName, d.SessionName)
	return huh.NewForm(planFieldGroup(title, &d.Fields, true))
}

const (
	navNext   = "next"
	navBack   = "back"
	navSubmit = "submit"
)

// bulkEntryForm edits the current bulk entry and asks where to go next.
func bulkEntryForm(d *service.BulkDraft, nav *string) *huh.Form {
	e := d.Current()
	title := fmt.Sprintf("%d/%d · %s · %s", d.Index()+1, d.Len(), e.SessionName,
		formatter.SlotLabel(e.Slot.Date, e.Slot.Period))

	forward := huh.NewOption("Next session", navNext)
	if d.AtEnd() {
		forward = huh.NewOption("Create all plans", navSubmit)
	}
	options := []huh.Option[string]{forward}
	if d.Index() > 0 {
		options = append(options, huh.NewOption("Back", navBack))
	}
	*nav = options[0].Value

	fields := planFieldGroup(title, &e.Fields, false)
	return huh.NewForm(
		fields,
		huh.NewGroup(huh.NewSelect[string]().Title("Then").Options(options...).Value(nav)),
	)
}

// walkBulk steps through every entry until the teacher submits on the last
// one. An entry that fails validation is shown again.
func walkBulk(d *service.BulkDraft, w io.Writer) error {
	for {
		var nav string
		if err := runForm(bulkEntryForm(d, &nav), w); err != nil {
			return err
		}
		switch nav {
		case navBack:
			d.Prev()
		case navNext, navSubmit:
			atEnd := d.AtEnd()
			if err := d.Next(); err != nil {
				fmt.Fprint(w, FormatError(err))
				continue
			}
			if atEnd {
				return nil
			}
		}
	}
}
