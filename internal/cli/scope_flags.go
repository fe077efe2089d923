package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/spf13/pflag"
)

// scopeFlags is the shared --class/--subject pair with an optional date range.
type scopeFlags struct {
	class, subject string
	from, to       string
	withRange      bool
}

func (f *scopeFlags) flagSet(withRange bool) *pflag.FlagSet {
	f.withRange = withRange
	fs := pflag.NewFlagSet("scope", pflag.ContinueOnError)
	fs.StringVar(&f.class, "class", "", "Class, e.g. \"Form 2\"")
	fs.StringVar(&f.subject, "subject", "", "Subject, e.g. Mathematics")
	if withRange {
		fs.StringVar(&f.from, "from", "", "First date (YYYY-MM-DD), default the planning window start")
		fs.StringVar(&f.to, "to", "", "Last date (YYYY-MM-DD), default the planning window end")
	}
	return fs
}

func (f *scopeFlags) scope() (domain.Scope, error) {
	s := domain.Scope{Class: strings.TrimSpace(f.class), Subject: strings.TrimSpace(f.subject)}
	if s.Class == "" || s.Subject == "" {
		return s, fmt.Errorf("--class and --subject are required")
	}
	return s, nil
}

// optionalScope is nil when neither flag is set.
func (f *scopeFlags) optionalScope() (*domain.Scope, error) {
	if f.class == "" && f.subject == "" {
		return nil, nil
	}
	s, err := f.scope()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// dateRange falls back to the window bounds for unset ends.
func (f *scopeFlags) dateRange(w domain.PlanningWindow) (time.Time, time.Time, error) {
	from, to := w.Start, w.End
	if d, err := parseOptionalDate(f.from); err != nil {
		return from, to, err
	} else if d != nil {
		from = *d
	}
	if d, err := parseOptionalDate(f.to); err != nil {
		return from, to, err
	} else if d != nil {
		to = *d
	}
	if to.Before(from) {
		return from, to, fmt.Errorf("--to is before --from")
	}
	return from, to, nil
}
