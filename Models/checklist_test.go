package Models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats(t *testing.T) {
	tasks := []ChecklistTask{
		{TaskName: "Light On", Status: StatusCompleted},
		{TaskName: "Camera On", Status: StatusPending},
		{TaskName: "Internet On", Status: StatusCompleted},
	}

	completed, total, percentage := ComputeStats(tasks)
	assert.Equal(t, 2, completed)
	assert.Equal(t, 3, total)
	assert.Equal(t, 67, percentage)
}

func TestComputeStatsAllCompleted(t *testing.T) {
	var tasks []ChecklistTask
	for _, name := range Checklists[ChecklistOpening] {
		tasks = append(tasks, ChecklistTask{TaskName: name, Status: StatusCompleted})
	}

	completed, total, percentage := ComputeStats(tasks)
	assert.Equal(t, 10, completed)
	assert.Equal(t, 10, total)
	assert.Equal(t, 100, percentage)
}

func TestComputeStatsEmpty(t *testing.T) {
	completed, total, percentage := ComputeStats(nil)
	assert.Equal(t, 0, completed)
	assert.Equal(t, 0, total)
	assert.Equal(t, 0, percentage)
}

func TestComputeStatsCaseSensitive(t *testing.T) {
	// Only the exact "Completed" string counts.
	tasks := []ChecklistTask{
		{TaskName: "a", Status: "completed"},
		{TaskName: "b", Status: "COMPLETED"},
		{TaskName: "c", Status: ""},
		{TaskName: "d", Status: StatusCompleted},
	}

	completed, _, percentage := ComputeStats(tasks)
	assert.Equal(t, 1, completed)
	assert.Equal(t, 25, percentage)
}

func TestComputeStatsBounds(t *testing.T) {
	for completedCount := 0; completedCount <= 7; completedCount++ {
		var tasks []ChecklistTask
		for i := 0; i < 7; i++ {
			status := StatusPending
			if i < completedCount {
				status = StatusCompleted
			}
			tasks = append(tasks, ChecklistTask{TaskName: string(rune('a' + i)), Status: status})
		}
		_, _, percentage := ComputeStats(tasks)
		assert.GreaterOrEqual(t, percentage, 0)
		assert.LessOrEqual(t, percentage, 100)
	}
}

func TestSubmissionID(t *testing.T) {
	assert.Equal(t, "2025-11-03_opening_mike-johnson", SubmissionID("11/03/2025", "opening", "Mike Johnson"))
	assert.Equal(t, "2025-11-03_closing_jane", SubmissionID("2025-11-03", "closing", "Jane"))
}

func TestSubmissionIDDistinguishesSubmitters(t *testing.T) {
	// Two users on the same day and type must never collide.
	a := SubmissionID("11/03/2025", "opening", "John Doe")
	b := SubmissionID("11/03/2025", "opening", "Jane Smith")
	assert.NotEqual(t, a, b)
}

func TestSubmissionIDUnparseableDate(t *testing.T) {
	assert.Equal(t, "someday_opening_john", SubmissionID("someday", "opening", "John"))
}

func TestParseCalendarDay(t *testing.T) {
	for _, input := range []string{
		"2025-11-03",
		"11/03/2025",
		"11/03/2025 08:30:15",
		"11/03/2025, 19:15:20",
		"2025-11-03 18:45:30",
	} {
		parsed, err := ParseCalendarDay(input)
		require.NoError(t, err, input)
		assert.Equal(t, 2025, parsed.Year(), input)
		assert.Equal(t, 3, parsed.Day(), input)
	}
}

func TestParseCalendarDayRejectsGarbage(t *testing.T) {
	_, err := ParseCalendarDay("not a date")
	assert.Error(t, err)
}

func TestSameCalendarDay(t *testing.T) {
	assert.True(t, SameCalendarDay("11/03/2025", "2025-11-03"))
	assert.True(t, SameCalendarDay("11/03/2025 08:30:15", "2025-11-03"))
	assert.False(t, SameCalendarDay("11/03/2025", "2025-11-04"))
	assert.False(t, SameCalendarDay("garbage", "2025-11-03"))
}
