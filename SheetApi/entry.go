package SheetApi

import (
	"encoding/json"
	"strconv"
	"strings"

	"Checkpoint/Models"
)

// FlexString tolerates the sheet returning numbers where strings are expected
// (row-number ids, numeric counters serialized bare).
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(strings.TrimSpace(string(data)))
	return nil
}

// FlexInt tolerates counters arriving as numbers, numeric strings or "".
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Tolerate float-formatted counters ("90.0")
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return err
		}
		n = int(fl)
	}
	*f = FlexInt(n)
	return nil
}

// RawEntry is the shape-tolerant decoding target for history responses. The
// deployed Apps Script versions disagree on field names (user vs name,
// supervisor vs supervisorName) and on whether rows arrive flat (one task per
// entry) or pre-grouped (tasks array). All variants decode into this one
// struct; History normalizes from here.
type RawEntry struct {
	ID                   FlexString             `json:"id"`
	Date                 string                 `json:"date"`
	Time                 string                 `json:"time"`
	Name                 string                 `json:"name"`
	User                 string                 `json:"user"`
	UserType             string                 `json:"userType"`
	Role                 string                 `json:"role"`
	ChecklistType        string                 `json:"checklistType"`
	TaskName             string                 `json:"taskName"`
	Status               string                 `json:"status"`
	Remarks              string                 `json:"remarks"`
	SupervisorRemark     string                 `json:"supervisorRemark"`
	SupervisorRemarksAlt string                 `json:"supervisorRemarks"`
	Tasks                []Models.ChecklistTask `json:"tasks"`
	CompletedTasks       FlexInt                `json:"completedTasks"`
	TotalTasks           FlexInt                `json:"totalTasks"`
	CompletionPercentage FlexInt                `json:"completionPercentage"`
	Supervisor           string                 `json:"supervisor"`
	SupervisorName       string                 `json:"supervisorName"`
	VerifiedAt           string                 `json:"verifiedAt"`
	SupervisorTimestamp  string                 `json:"supervisorTimestamp"`
	Timestamp            string                 `json:"timestamp"`
	LoginTime            string                 `json:"loginTime"`
}

// Grouped reports whether the entry is already a full submission rather than a
// single flat task row.
func (e *RawEntry) Grouped() bool {
	return len(e.Tasks) > 0 || e.TaskName == ""
}

// SubmitterName resolves the submitter across the field-name variants.
func (e *RawEntry) SubmitterName() string {
	for _, candidate := range []string{e.Name, e.User, e.UserType} {
		if strings.TrimSpace(candidate) != "" {
			return strings.TrimSpace(candidate)
		}
	}
	return ""
}

// ReviewerName resolves the supervisor field variants.
func (e *RawEntry) ReviewerName() string {
	if strings.TrimSpace(e.SupervisorName) != "" {
		return strings.TrimSpace(e.SupervisorName)
	}
	return strings.TrimSpace(e.Supervisor)
}

// ReviewRemark resolves the per-task supervisor remark variants.
func (e *RawEntry) ReviewRemark() string {
	if e.SupervisorRemark != "" {
		return e.SupervisorRemark
	}
	return e.SupervisorRemarksAlt
}

// ReviewedAt resolves the verification timestamp variants.
func (e *RawEntry) ReviewedAt() string {
	if strings.TrimSpace(e.VerifiedAt) != "" {
		return strings.TrimSpace(e.VerifiedAt)
	}
	return strings.TrimSpace(e.SupervisorTimestamp)
}
