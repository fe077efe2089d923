package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// CurriculumFile is the top-level JSON structure of a curriculum import.
type CurriculumFile struct {
	Schemes   []SchemeImport `json:"schemes" validate:"required,min=1,dive"`
	Timetable []SlotImport   `json:"timetable,omitempty" validate:"dive"`
	Exams     []ExamImport   `json:"exams,omitempty" validate:"dive"`
}

// SchemeImport is one class+subject+term curriculum.
type SchemeImport struct {
	Class        string          `json:"class" validate:"required"`
	Subject      string          `json:"subject" validate:"required"`
	AcademicYear string          `json:"academic_year"`
	Term         string          `json:"term"`
	Chapters     []ChapterImport `json:"chapters" validate:"required,min=1,dive"`
}

// ChapterImport numbers default to the lowest number no other chapter of the
// scheme claims.
type ChapterImport struct {
	Number   int    `json:"number,omitempty" validate:"omitempty,min=1"`
	Name     string `json:"name" validate:"required"`
	Sessions int    `json:"sessions" validate:"min=1,max=500"`
}

// SlotImport is one weekly timetable period. Weekday accepts "Monday",
// "mon" or "1".
type SlotImport struct {
	Weekday   string `json:"weekday" validate:"required"`
	Period    string `json:"period" validate:"required"`
	StartTime string `json:"start_time,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime   string `json:"end_time,omitempty" validate:"omitempty,datetime=15:04"`
	Class     string `json:"class" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
}

type ExamImport struct {
	Date    string  `json:"date" validate:"required,datetime=2006-01-02"`
	Period  *string `json:"period,omitempty"`
	Type    string  `json:"type,omitempty"`
	Name    string  `json:"name,omitempty"`
	Class   string  `json:"class" validate:"required"`
	Subject string  `json:"subject" validate:"required"`
}

// LoadCurriculumFile reads and parses an import file.
func LoadCurriculumFile(path string) (*CurriculumFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f CurriculumFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &f, nil
}
