package planner

import "math"

// DefaultWeeklyCapacity 每周任务数
const DefaultWeeklyCapacity = 8

// Task 阶段任务快照
type Task struct {
	ID          string
	Title       string
	Description string
	Area        string
	Phase       int
	OrderIndex  int
	Completed   bool
}

// WeekSummary 单周统计
type WeekSummary struct {
	Week      int
	Total     int
	Completed int
	Done      bool
}

// PhaseWeeklyData 阶段按周分组结果（每次请求重新计算，不落库）
type PhaseWeeklyData struct {
	TotalTasks      int
	TotalWeeks      int
	CurrentWeek     int
	CompletedTasks  int
	Weeks           map[int][]Task
	Summaries       []WeekSummary
	ProgressPercent int
}

// AllocateWeeks 将已按 order_index 排好序的任务按固定容量切分为周
//
// 纯顺序切分：第 i 个任务（从 0 开始）属于第 i/capacity+1 周。
// 全部完成时 CurrentWeek 停在最后一周。
func AllocateWeeks(tasks []Task, completed map[string]bool, capacity int) PhaseWeeklyData {
	if capacity <= 0 {
		capacity = DefaultWeeklyCapacity
	}

	data := PhaseWeeklyData{
		TotalTasks:  len(tasks),
		CurrentWeek: 1,
		Weeks:       make(map[int][]Task),
		Summaries:   []WeekSummary{},
	}
	if len(tasks) == 0 {
		return data
	}

	data.TotalWeeks = (len(tasks) + capacity - 1) / capacity
	data.Summaries = make([]WeekSummary, data.TotalWeeks)
	for w := range data.Summaries {
		data.Summaries[w].Week = w + 1
	}

	for i, t := range tasks {
		t.Completed = completed[t.ID]
		week := i/capacity + 1
		data.Weeks[week] = append(data.Weeks[week], t)

		sum := &data.Summaries[week-1]
		sum.Total++
		if t.Completed {
			sum.Completed++
			data.CompletedTasks++
		}
	}

	current := 0
	for w := range data.Summaries {
		sum := &data.Summaries[w]
		sum.Done = sum.Completed == sum.Total
		if current == 0 && !sum.Done {
			current = sum.Week
		}
	}
	if current == 0 {
		current = data.TotalWeeks
	}
	data.CurrentWeek = current

	data.ProgressPercent = int(math.Round(100 * float64(data.CompletedTasks) / float64(data.TotalTasks)))
	return data
}
