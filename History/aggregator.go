package History

import (
	"Checkpoint/Models"
)

// GroupRows reconstructs grouped submissions from flat task rows (one row per
// task, the way the sheet stores them). Rows sharing (date, name,
// checklistType) become one submission; output order follows each group's
// first appearance in the input. Pure function: no I/O, no shared state.
func GroupRows(rows []Models.TaskRow) []Models.ChecklistSubmission {
	grouped := make(map[string]*Models.ChecklistSubmission)
	var order []string

	for _, row := range rows {
		key := Models.SubmissionID(row.Date, row.ChecklistType, row.Name)

		sub, ok := grouped[key]
		if !ok {
			sub = &Models.ChecklistSubmission{
				ID:             key,
				Date:           row.Date,
				Time:           row.Time,
				ChecklistType:  row.ChecklistType,
				Name:           row.Name,
				Role:           row.Role,
				Tasks:          []Models.ChecklistTask{},
				SupervisorName: row.SupervisorName,
				VerifiedAt:     row.VerifiedAt,
			}
			grouped[key] = sub
			order = append(order, key)
		}

		sub.Tasks = append(sub.Tasks, Models.ChecklistTask{
			TaskName:          row.TaskName,
			Status:            row.Status,
			Remarks:           row.Remarks,
			SupervisorRemarks: row.SupervisorRemark,
		})

		// Supervisor fields live on whichever row the script wrote them to.
		if sub.SupervisorName == "" {
			sub.SupervisorName = row.SupervisorName
		}
		if sub.VerifiedAt == "" {
			sub.VerifiedAt = row.VerifiedAt
		}
	}

	result := make([]Models.ChecklistSubmission, 0, len(order))
	for _, key := range order {
		sub := grouped[key]
		sub.CompletedTasks, sub.TotalTasks, sub.CompletionPercentage = Models.ComputeStats(sub.Tasks)
		result = append(result, *sub)
	}
	return result
}

// Summary is the dashboard roll-up over a history window.
type Summary struct {
	TotalSubmissions  int            `json:"totalSubmissions"`
	FullyCompleted    int            `json:"fullyCompleted"`
	PendingTasks      int            `json:"pendingTasks"`
	AverageCompletion int            `json:"averageCompletion"`
	ByChecklistType   map[string]int `json:"byChecklistType"`
}

// Summarize computes the dashboard counters for a set of submissions.
func Summarize(subs []Models.ChecklistSubmission) Summary {
	summary := Summary{ByChecklistType: map[string]int{}}
	summary.TotalSubmissions = len(subs)

	totalPct := 0
	for _, sub := range subs {
		summary.ByChecklistType[sub.ChecklistType]++
		summary.PendingTasks += sub.TotalTasks - sub.CompletedTasks
		if sub.TotalTasks > 0 && sub.CompletedTasks == sub.TotalTasks {
			summary.FullyCompleted++
		}
		totalPct += sub.CompletionPercentage
	}
	if len(subs) > 0 {
		summary.AverageCompletion = totalPct / len(subs)
	}
	return summary
}
