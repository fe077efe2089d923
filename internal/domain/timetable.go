package domain

import "time"

// TimetableSlot is one recurring weekly teaching period.
type TimetableSlot struct {
	ID        string
	TeacherID string
	Weekday   time.Weekday
	Period    string
	StartTime string
	EndTime   string
	Class     string
	Subject   string
}
