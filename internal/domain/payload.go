package domain

// The payload types mirror the scheme source's wire format. Numeric fields use
// Number so malformed values decode to 0 instead of failing the whole load.

type SchemeLoadPayload struct {
	Success           bool                   `json:"success"`
	Error             string                 `json:"error,omitempty"`
	Schemes           []SchemePayload        `json:"schemes"`
	PlanningDateRange *PlanningWindowPayload `json:"planningDateRange,omitempty"`
	Settings          SettingsPayload        `json:"settings"`
}

type SettingsPayload struct {
	BulkOnly bool `json:"bulkOnly"`
}

type PlanningWindowPayload struct {
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	SubmissionDay string `json:"submissionDay,omitempty"`
}

type SchemePayload struct {
	SchemeID        string           `json:"schemeId"`
	Class           string           `json:"class"`
	Subject         string           `json:"subject"`
	AcademicYear    string           `json:"academicYear"`
	Term            string           `json:"term"`
	TotalSessions   Number           `json:"totalSessions"`
	PlannedSessions Number           `json:"plannedSessions"`
	OverallProgress Number           `json:"overallProgress"`
	Chapters        []ChapterPayload `json:"chapters,omitempty"`
}

type ChapterPayload struct {
	ChapterNumber    Number           `json:"chapterNumber"`
	ChapterName      string           `json:"chapterName"`
	TotalSessions    Number           `json:"totalSessions"`
	PlannedSessions  Number           `json:"plannedSessions"`
	NumberOfSessions *Number          `json:"numberOfSessions,omitempty"`
	SessionsSparse   bool             `json:"sessionsSparse"`
	CanPrepare       *bool            `json:"canPrepare,omitempty"`
	LockReason       string           `json:"lockReason,omitempty"`
	ChapterCompleted bool             `json:"chapterCompleted"`
	Sessions         []SessionPayload `json:"sessions"`
}

type SessionPayload struct {
	SessionNumber     Number  `json:"sessionNumber"`
	SessionName       string  `json:"sessionName"`
	Status            string  `json:"status"`
	PlanStatus        string  `json:"planStatus,omitempty"`
	PlannedDate       *string `json:"plannedDate"`
	PlannedPeriod     *string `json:"plannedPeriod"`
	OriginalDate      *string `json:"originalDate"`
	OriginalPeriod    *string `json:"originalPeriod"`
	LessonPlanID      string  `json:"lessonPlanId,omitempty"`
	EstimatedDuration Number  `json:"estimatedDuration"`
	IsExtended        bool    `json:"isExtended,omitempty"`
	CascadeMarked     bool    `json:"cascadeMarked"`
	Objectives        string  `json:"objectives,omitempty"`
	Methods           string  `json:"methods,omitempty"`
	Resources         string  `json:"resources,omitempty"`
	Assessment        string  `json:"assessment,omitempty"`
}
