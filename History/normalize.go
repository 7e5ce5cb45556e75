package History

import (
	"context"

	"Checkpoint/Models"
	"Checkpoint/SheetApi"
)

// Normalize converts raw sheet entries into canonical submissions. Pre-grouped
// entries pass through with their stats recomputed (script versions disagree
// on the counters); flat task rows are grouped. A mixed response works too:
// grouped entries keep their position, flat rows are grouped and appended.
func Normalize(entries []SheetApi.RawEntry) []Models.ChecklistSubmission {
	var subs []Models.ChecklistSubmission
	var rows []Models.TaskRow

	for _, e := range entries {
		if e.Grouped() {
			subs = append(subs, fromGrouped(&e))
			continue
		}
		rows = append(rows, Models.TaskRow{
			Date:             e.Date,
			Time:             e.Time,
			Name:             e.SubmitterName(),
			Role:             e.Role,
			ChecklistType:    e.ChecklistType,
			TaskName:         e.TaskName,
			Status:           e.Status,
			Remarks:          e.Remarks,
			SupervisorRemark: e.ReviewRemark(),
			SupervisorName:   e.ReviewerName(),
			VerifiedAt:       e.ReviewedAt(),
		})
	}

	subs = append(subs, GroupRows(rows)...)
	return subs
}

func fromGrouped(e *SheetApi.RawEntry) Models.ChecklistSubmission {
	sub := Models.ChecklistSubmission{
		ID:             string(e.ID),
		Date:           e.Date,
		Time:           e.Time,
		ChecklistType:  e.ChecklistType,
		Name:           e.SubmitterName(),
		Role:           e.Role,
		Tasks:          e.Tasks,
		SupervisorName: e.ReviewerName(),
		VerifiedAt:     e.ReviewedAt(),
	}
	if sub.Tasks == nil {
		sub.Tasks = []Models.ChecklistTask{}
	}
	if sub.ID == "" {
		sub.ID = Models.SubmissionID(sub.Date, sub.ChecklistType, sub.Name)
	}
	sub.CompletedTasks, sub.TotalTasks, sub.CompletionPercentage = Models.ComputeStats(sub.Tasks)
	return sub
}

// RemoteSource adapts the sheet client into the normalized history view the
// guard and the handlers consume.
type RemoteSource struct {
	Client *SheetApi.Client
}

func NewRemoteSource(client *SheetApi.Client) *RemoteSource {
	return &RemoteSource{Client: client}
}

func (s *RemoteSource) History(ctx context.Context) ([]Models.ChecklistSubmission, error) {
	entries, err := s.Client.FetchHistory(ctx)
	if err != nil {
		return nil, err
	}
	return Normalize(entries), nil
}
