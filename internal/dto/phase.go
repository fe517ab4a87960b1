package dto

// ── 阶段周计划 DTO ──

// PhaseTaskResponse 阶段任务
type PhaseTaskResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Area        string `json:"area,omitempty"`
	OrderIndex  int    `json:"order_index"`
	Completed   bool   `json:"completed"`
}

// WeekSummaryResponse 单周统计
type WeekSummaryResponse struct {
	Week      int  `json:"week"`
	Total     int  `json:"total"`
	Completed int  `json:"completed"`
	Done      bool `json:"done"`
}

// PhaseWeeklyResponse 阶段按周分组结果
type PhaseWeeklyResponse struct {
	Phase           int                         `json:"phase"`
	TotalTasks      int                         `json:"total_tasks"`
	TotalWeeks      int                         `json:"total_weeks"`
	CurrentWeek     int                         `json:"current_week"`
	CompletedTasks  int                         `json:"completed_tasks"`
	ProgressPercent int                         `json:"progress_percent"`
	Weeks           map[int][]PhaseTaskResponse `json:"weeks"`
	Summaries       []WeekSummaryResponse       `json:"summaries"`
}
