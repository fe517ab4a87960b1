package planner

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTasks(n int) []Task {
	tasks := make([]Task, n)
	for i := range tasks {
		tasks[i] = Task{ID: fmt.Sprintf("t-%02d", i), Title: fmt.Sprintf("任务 %d", i), Phase: 1, OrderIndex: i}
	}
	return tasks
}

func doneSet(tasks []Task, idx ...int) map[string]bool {
	set := make(map[string]bool, len(idx))
	for _, i := range idx {
		set[tasks[i].ID] = true
	}
	return set
}

func TestAllocateWeeks_Partition(t *testing.T) {
	tasks := makeTasks(17)
	got := AllocateWeeks(tasks, nil, 8)

	assert.Equal(t, 17, got.TotalTasks)
	assert.Equal(t, 3, got.TotalWeeks)
	assert.Len(t, got.Weeks[1], 8)
	assert.Len(t, got.Weeks[2], 8)
	assert.Len(t, got.Weeks[3], 1)
	assert.Equal(t, "t-16", got.Weeks[3][0].ID)
	assert.Equal(t, 1, got.CurrentWeek)
	assert.Equal(t, 0, got.ProgressPercent)
}

func TestAllocateWeeks_BucketSizesSumToTotal(t *testing.T) {
	for n := 1; n <= 40; n++ {
		for _, capacity := range []int{1, 3, 8, 10} {
			got := AllocateWeeks(makeTasks(n), nil, capacity)
			sum := 0
			for _, ts := range got.Weeks {
				sum += len(ts)
			}
			require.Equal(t, n, sum, "n=%d cap=%d", n, capacity)
			require.Equal(t, (n+capacity-1)/capacity, got.TotalWeeks)
			require.Len(t, got.Summaries, got.TotalWeeks)
		}
	}
}

func TestAllocateWeeks_CurrentWeekIsFirstIncomplete(t *testing.T) {
	tasks := makeTasks(12)
	// 第 1 周 8 个全部完成，第 2 周 4 个中完成 2 个
	got := AllocateWeeks(tasks, doneSet(tasks, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9), 8)

	assert.Equal(t, 2, got.TotalWeeks)
	assert.Equal(t, 2, got.CurrentWeek)
	assert.Equal(t, 10, got.CompletedTasks)
	assert.Equal(t, 83, got.ProgressPercent)
	assert.True(t, got.Summaries[0].Done)
	assert.False(t, got.Summaries[1].Done)
	assert.Equal(t, 2, got.Summaries[1].Completed)
}

func TestAllocateWeeks_AllCompleteClampsToLastWeek(t *testing.T) {
	tasks := makeTasks(10)
	all := make([]int, len(tasks))
	for i := range all {
		all[i] = i
	}
	got := AllocateWeeks(tasks, doneSet(tasks, all...), 8)
	assert.Equal(t, 2, got.CurrentWeek)
	assert.Equal(t, 100, got.ProgressPercent)
	for _, ts := range got.Weeks {
		for _, task := range ts {
			assert.True(t, task.Completed)
		}
	}
}

func TestAllocateWeeks_Empty(t *testing.T) {
	got := AllocateWeeks(nil, map[string]bool{"x": true}, 8)
	assert.Equal(t, 0, got.TotalTasks)
	assert.Equal(t, 0, got.TotalWeeks)
	assert.Equal(t, 1, got.CurrentWeek)
	assert.Equal(t, 0, got.ProgressPercent)
	assert.Empty(t, got.Weeks)
	assert.NotNil(t, got.Summaries)
}

func TestAllocateWeeks_DefaultCapacity(t *testing.T) {
	got := AllocateWeeks(makeTasks(9), nil, 0)
	assert.Equal(t, 2, got.TotalWeeks)
	assert.Len(t, got.Weeks[1], DefaultWeeklyCapacity)
}

func TestAllocateWeeks_UnknownCompletionIgnored(t *testing.T) {
	tasks := makeTasks(4)
	got := AllocateWeeks(tasks, map[string]bool{"other": true, tasks[0].ID: true}, 8)
	assert.Equal(t, 1, got.CompletedTasks)
	assert.Equal(t, 25, got.ProgressPercent)
	assert.GreaterOrEqual(t, got.ProgressPercent, 0)
	assert.LessOrEqual(t, got.ProgressPercent, 100)
}
