package Models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusCompleted = "Completed"
	StatusPending   = "Pending"

	ChecklistOpening = "opening"
	ChecklistClosing = "closing"
)

// Checklists holds the fixed task templates per checklist type.
var Checklists = map[string][]string{
	ChecklistOpening: {
		"Light On",
		"Camera On",
		"Internet On",
		"System On",
		"Printers On",
		"Floor cleaned (YES/NO)",
		"Water Bottles (Filled/Not)",
		"Water RO - On",
		"Workstation Cleaned",
		"Bathroom checked (1. water taps 2. handwash 3. freshner)",
	},
	ChecklistClosing: {
		"Light OFF",
		"Camera OFF",
		"Internet OFF",
		"System OFF",
		"Printers OFF",
		"Water RO - OFF",
		"Files cleared from Workstation",
		"Almirah closed",
		"Balcony door closed",
		"Office locked",
	},
}

type ChecklistTask struct {
	TaskName          string `json:"taskName"`
	Status            string `json:"status"`
	Remarks           string `json:"remarks"`
	SupervisorRemarks string `json:"supervisorRemarks"`
}

// ChecklistSubmission is the canonical grouped record. The sheet stores one row
// per task; this is the shape the rest of the system works with.
type ChecklistSubmission struct {
	ID                   string          `json:"id"`
	Date                 string          `json:"date"`
	Time                 string          `json:"time"`
	ChecklistType        string          `json:"checklistType"`
	Name                 string          `json:"name"`
	Role                 string          `json:"role"`
	Tasks                []ChecklistTask `json:"tasks"`
	CompletedTasks       int             `json:"completedTasks"`
	TotalTasks           int             `json:"totalTasks"`
	CompletionPercentage int             `json:"completionPercentage"`
	SupervisorName       string          `json:"supervisorName"`
	VerifiedAt           string          `json:"verifiedAt"`
}

// TaskRow is one flat spreadsheet row: a single task of a single submission.
type TaskRow struct {
	Date             string `json:"date"`
	Time             string `json:"time"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	ChecklistType    string `json:"checklistType"`
	TaskName         string `json:"taskName"`
	Status           string `json:"status"`
	Remarks          string `json:"remarks"`
	SupervisorRemark string `json:"supervisorRemark"`
	SupervisorName   string `json:"supervisorName"`
	VerifiedAt       string `json:"verifiedAt"`
}

// QueueEntry is one pending offline delivery. Payload carries the full
// sheet-bound submission body as it was built at submit time.
type QueueEntry struct {
	gorm.Model
	EntryID    string         `json:"entry_id" gorm:"uniqueIndex"`
	EnqueuedAt int64          `json:"enqueued_at" gorm:"index"` // unix millis
	Payload    datatypes.JSON `json:"payload"`
}

// SubmissionMarker blocks a second same-day submission for the same user and
// checklist type. Day is normalized to 2006-01-02.
type SubmissionMarker struct {
	gorm.Model
	Name          string `json:"name" gorm:"index:idx_marker,unique"`
	ChecklistType string `json:"checklist_type" gorm:"index:idx_marker,unique"`
	Day           string `json:"day" gorm:"index:idx_marker,unique"`
}

// ComputeStats derives the completion counters for a task list. A task counts
// as completed only on an exact "Completed" status. An empty task list yields
// zero percent rather than dividing by zero.
func ComputeStats(tasks []ChecklistTask) (completed, total, percentage int) {
	total = len(tasks)
	for _, t := range tasks {
		if t.Status == StatusCompleted {
			completed++
		}
	}
	if total == 0 {
		return 0, 0, 0
	}
	percentage = int(math.Round(float64(completed) / float64(total) * 100))
	return completed, total, percentage
}

// SubmissionID builds the natural key for a submission. The sheet has no real
// ids, so the key is (calendar date, checklist type, submitter name), e.g.
// "2025-11-03_opening_mike-johnson".
func SubmissionID(date, checklistType, name string) string {
	day := date
	if t, err := ParseCalendarDay(date); err == nil {
		day = t.Format("2006-01-02")
	}
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
	return fmt.Sprintf("%s_%s_%s", day, checklistType, slug)
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"01/02/2006 15:04:05",
	"01/02/2006, 15:04:05",
	"1/2/2006",
	time.RFC3339,
}

// ParseCalendarDay parses the date formats seen in sheet rows and locally
// generated timestamps. Only the calendar day is meaningful to callers.
func ParseCalendarDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		t, err = time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q: %w", s, err)
}

// SameCalendarDay reports whether two date strings fall on the same calendar
// day. Remote date formats vary, so equality is by parsed day, not by string.
// Unparseable dates never match.
func SameCalendarDay(a, b string) bool {
	ta, err := ParseCalendarDay(a)
	if err != nil {
		return false
	}
	tb, err := ParseCalendarDay(b)
	if err != nil {
		return false
	}
	return ta.Year() == tb.Year() && ta.YearDay() == tb.YearDay()
}
