package importer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/go-playground/validator/v10"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the whole file and returns every problem found, each
// prefixed with its JSON path.
func Validate(f *CurriculumFile) []error {
	var errs []error

	if err := structValidator.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []error{err}
		}
		for _, fe := range verrs {
			errs = append(errs, fmt.Errorf("%s: %s", fieldPath(fe), describe(fe)))
		}
	}

	errs = append(errs, validateSchemeKeys(f.Schemes)...)
	errs = append(errs, validateTimetable(f.Timetable)...)
	return errs
}

// fieldPath drops the root type name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("needs at least %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("invalid value %q (expected %s)", fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}

func validateSchemeKeys(schemes []SchemeImport) []error {
	var errs []error
	seen := make(map[string]int)
	for i, s := range schemes {
		key := strings.ToLower(strings.Join([]string{s.Class, s.Subject, s.AcademicYear, s.Term}, "|"))
		if j, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("schemes[%d]: duplicates schemes[%d] (%s %s)", i, j, s.Class, s.Subject))
		} else {
			seen[key] = i
		}

		numbers := make(map[int]int)
		for k, n := range chapterNumbers(s.Chapters) {
			if j, dup := numbers[n]; dup {
				errs = append(errs, fmt.Errorf("schemes[%d].chapters[%d]: chapter number %d already used by chapters[%d]", i, k, n, j))
				continue
			}
			numbers[n] = k
		}
	}
	return errs
}

func validateTimetable(slots []SlotImport) []error {
	var errs []error
	seen := make(map[string]int)
	for i, s := range slots {
		if s.Weekday == "" {
			continue
		}
		day, err := domain.ParseWeekday(s.Weekday)
		if err != nil {
			errs = append(errs, fmt.Errorf("timetable[%d].weekday: %v", i, err))
			continue
		}
		key := fmt.Sprintf("%d|%s", day, domain.NormalizePeriod(s.Period))
		if j, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("timetable[%d]: %s period %s already used by timetable[%d]", i, day, s.Period, j))
			continue
		}
		seen[key] = i
	}
	return errs
}

// chapterNumbers numbers a scheme's chapters. Explicit numbers are kept and
// unnumbered chapters take the lowest numbers left free, in list order.
func chapterNumbers(chapters []ChapterImport) []int {
	taken := make(map[int]bool, len(chapters))
	for _, ch := range chapters {
		if ch.Number > 0 {
			taken[ch.Number] = true
		}
	}
	out := make([]int, len(chapters))
	next := 1
	for i, ch := range chapters {
		if ch.Number > 0 {
			out[i] = ch.Number
			continue
		}
		for taken[next] {
			next++
		}
		out[i] = next
		taken[next] = true
	}
	return out
}
