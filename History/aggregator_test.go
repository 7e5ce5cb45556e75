package History

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Checkpoint/Models"
)

func mikeRows() []Models.TaskRow {
	taskNames := Models.Checklists[Models.ChecklistOpening]
	rows := make([]Models.TaskRow, 0, len(taskNames))
	for _, name := range taskNames {
		row := Models.TaskRow{
			Date:          "11/02/2025",
			Time:          "09:15:45",
			Name:          "Mike Johnson",
			Role:          Models.RoleOfficeboy,
			ChecklistType: Models.ChecklistOpening,
			TaskName:      name,
			Status:        Models.StatusCompleted,
		}
		if name == "Camera On" {
			row.Status = Models.StatusPending
			row.Remarks = "Camera not working"
		}
		rows = append(rows, row)
	}
	return rows
}

func TestGroupRowsSingleSubmission(t *testing.T) {
	subs := GroupRows(mikeRows())
	require.Len(t, subs, 1)

	sub := subs[0]
	assert.Equal(t, "Mike Johnson", sub.Name)
	assert.Equal(t, 10, sub.TotalTasks)
	assert.Equal(t, 9, sub.CompletedTasks)
	assert.Equal(t, 90, sub.CompletionPercentage)
	assert.Equal(t, "2025-11-02_opening_mike-johnson", sub.ID)

	var pending []Models.ChecklistTask
	for _, task := range sub.Tasks {
		if task.Status != Models.StatusCompleted {
			pending = append(pending, task)
		}
	}
	require.Len(t, pending, 1)
	assert.Equal(t, "Camera On", pending[0].TaskName)
	assert.Equal(t, "Camera not working", pending[0].Remarks)
}

func TestGroupRowsDistinctTriples(t *testing.T) {
	rows := []Models.TaskRow{
		{Date: "11/03/2025", Name: "John", ChecklistType: "opening", TaskName: "Light On", Status: "Completed"},
		{Date: "11/03/2025", Name: "John", ChecklistType: "opening", TaskName: "Camera On", Status: "Completed"},
		{Date: "11/03/2025", Name: "Jane", ChecklistType: "opening", TaskName: "Light On", Status: "Pending"},
		{Date: "11/03/2025", Name: "John", ChecklistType: "closing", TaskName: "Light OFF", Status: "Completed"},
		{Date: "11/04/2025", Name: "John", ChecklistType: "opening", TaskName: "Light On", Status: "Completed"},
	}

	subs := GroupRows(rows)
	assert.Len(t, subs, 4)

	totalTasks := 0
	for _, sub := range subs {
		totalTasks += sub.TotalTasks
	}
	assert.Equal(t, len(rows), totalTasks)
}

func TestGroupRowsStableFirstAppearanceOrder(t *testing.T) {
	rows := []Models.TaskRow{
		{Date: "11/03/2025", Name: "Jane", ChecklistType: "closing", TaskName: "a", Status: "Completed"},
		{Date: "11/03/2025", Name: "John", ChecklistType: "opening", TaskName: "a", Status: "Completed"},
		{Date: "11/03/2025", Name: "Jane", ChecklistType: "closing", TaskName: "b", Status: "Completed"},
	}

	subs := GroupRows(rows)
	require.Len(t, subs, 2)
	assert.Equal(t, "Jane", subs[0].Name)
	assert.Equal(t, "John", subs[1].Name)
	assert.Equal(t, []Models.ChecklistTask{
		{TaskName: "a", Status: "Completed"},
		{TaskName: "b", Status: "Completed"},
	}, subs[0].Tasks)
}

func TestGroupRowsPure(t *testing.T) {
	rows := mikeRows()
	first := GroupRows(rows)
	second := GroupRows(rows)
	assert.Equal(t, first, second)
}

func TestGroupRowsEmpty(t *testing.T) {
	assert.Empty(t, GroupRows(nil))
}

func TestGroupRowsSupervisorFieldsFromLaterRow(t *testing.T) {
	rows := []Models.TaskRow{
		{Date: "11/03/2025", Name: "John", ChecklistType: "opening", TaskName: "a", Status: "Completed"},
		{Date: "11/03/2025", Name: "John", ChecklistType: "opening", TaskName: "b", Status: "Completed",
			SupervisorName: "Supervisor Bob", VerifiedAt: "11/03/2025, 10:30:15"},
	}

	subs := GroupRows(rows)
	require.Len(t, subs, 1)
	assert.Equal(t, "Supervisor Bob", subs[0].SupervisorName)
	assert.Equal(t, "11/03/2025, 10:30:15", subs[0].VerifiedAt)
}

func TestSummarize(t *testing.T) {
	subs := []Models.ChecklistSubmission{
		{ChecklistType: "opening", TotalTasks: 10, CompletedTasks: 10, CompletionPercentage: 100},
		{ChecklistType: "opening", TotalTasks: 10, CompletedTasks: 9, CompletionPercentage: 90},
		{ChecklistType: "closing", TotalTasks: 10, CompletedTasks: 10, CompletionPercentage: 100},
	}

	summary := Summarize(subs)
	assert.Equal(t, 3, summary.TotalSubmissions)
	assert.Equal(t, 2, summary.FullyCompleted)
	assert.Equal(t, 1, summary.PendingTasks)
	assert.Equal(t, 96, summary.AverageCompletion)
	assert.Equal(t, map[string]int{"opening": 2, "closing": 1}, summary.ByChecklistType)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.TotalSubmissions)
	assert.Equal(t, 0, summary.AverageCompletion)
}
