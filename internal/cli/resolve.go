package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/syllabus/internal/app"
	"github.com/alexanderramin/syllabus/internal/cli/formatter"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/spf13/cobra"
)

const defaultPollInterval = 200 * time.Millisecond

// loadTree loads the scheme tree. A load released after its soft timeout is
// waited out with the advisory on stderr until it lands or ctx ends.
func loadTree(cmd *cobra.Command, a *App) (*app.SchemeTree, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out, err := a.Planner.Load(ctx)
	if err != nil {
		return nil, err
	}
	if out.Status != app.LoadPending && out.Status != app.LoadSuppressed {
		return a.Planner.Tree(), nil
	}
	if a.LoadState == nil {
		return nil, app.LoadError(app.ErrCodeLoadFailed, out.Advisory, nil)
	}
	return waitForLoad(ctx, cmd.ErrOrStderr(), a, out.Advisory)
}

func waitForLoad(ctx context.Context, w io.Writer, a *App, advisory string) (*app.SchemeTree, error) {
	stop := formatter.StartSpinner(w, advisory)
	defer stop()

	interval := a.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if a.LoadState.Advisory() == "" {
			if err := a.LoadState.LastError(); err != nil {
				return nil, err
			}
			return a.Planner.Tree(), nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// resolveScheme finds a scheme by full id or unique id prefix.
func resolveScheme(tree *app.SchemeTree, input string) (*app.SchemeNode, error) {
	if tree == nil {
		return nil, app.LoadError(app.ErrCodeNotFound, "schemes have not been loaded", nil)
	}
	if n, ok := tree.Scheme(input); ok {
		return n, nil
	}
	var match *app.SchemeNode
	for i := range tree.Schemes {
		if strings.HasPrefix(tree.Schemes[i].Scheme.ID, input) {
			if match != nil {
				return nil, fmt.Errorf("scheme prefix %q is ambiguous", input)
			}
			match = &tree.Schemes[i]
		}
	}
	if match == nil {
		return nil, app.LoadError(app.ErrCodeNotFound, fmt.Sprintf("scheme %q not found", input), nil)
	}
	return match, nil
}

// resolvePlanID expands a plan id prefix by scanning the plans of every
// loaded scheme. Full ids pass through.
func resolvePlanID(cmd *cobra.Command, a *App, input string) (string, error) {
	if len(input) >= 36 {
		return input, nil
	}
	tree, err := loadTree(cmd, a)
	if err != nil {
		return "", err
	}
	var found []string
	for _, n := range tree.Schemes {
		plans, err := a.Plans.ListByScheme(cmd.Context(), n.Scheme.ID)
		if err != nil {
			return "", err
		}
		for _, p := range plans {
			if strings.HasPrefix(p.ID, input) {
				found = append(found, p.ID)
			}
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("lesson plan %q not found", input)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("lesson plan prefix %q matches %d plans", input, len(found))
	}
}

// parseRef reads SCHEME CHAPTER SESSION arguments against the loaded tree.
func parseRef(tree *app.SchemeTree, args []string) (domain.SessionRef, error) {
	n, err := resolveScheme(tree, args[0])
	if err != nil {
		return domain.SessionRef{}, err
	}
	chapter, err := parsePositiveArg("chapter", args[1])
	if err != nil {
		return domain.SessionRef{}, err
	}
	ref := domain.SessionRef{SchemeID: n.Scheme.ID, ChapterNumber: chapter}
	if len(args) > 2 {
		if ref.SessionNumber, err = parsePositiveArg("session", args[2]); err != nil {
			return domain.SessionRef{}, err
		}
	}
	return ref, nil
}

func parsePositiveArg(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", name, s)
	}
	return v, nil
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date string.
func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(domain.DateLayout, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return &t, nil
}

// FormatError renders err for the terminal. Plan errors keep their class
// code and field list.
func FormatError(err error) string {
	var pe *app.PlanError
	if errors.As(err, &pe) {
		return formatter.FormatPlanError(pe)
	}
	return formatter.StyleRed.Render("✖ "+err.Error()) + "\n"
}
