package dto

// ── 时段查找与预约 DTO ──

// FindSlotsRequest 查找候选时段
type FindSlotsRequest struct {
	WeekStart         string  `json:"week_start"          binding:"required,datetime=2006-01-02"`
	CollaboratorID    string  `json:"collaborator_id"     binding:"omitempty,uuid"`
	DurationHours     float64 `json:"duration_hours"      binding:"required,gt=0,lte=24"`
	ExcludeScheduleID string  `json:"exclude_schedule_id" binding:"omitempty,uuid"` // 重新安排时排除自身
}

// CandidateSlotResponse 候选时段
type CandidateSlotResponse struct {
	Date           string `json:"date"`
	DayName        string `json:"day_name"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Available      bool   `json:"available"`
	ConflictKind   string `json:"conflict_kind,omitempty"`
	ConflictReason string `json:"conflict_reason,omitempty"`
}

// FindSlotsResponse 候选时段列表
type FindSlotsResponse struct {
	WeekStart  string                  `json:"week_start"`
	Candidates []CandidateSlotResponse `json:"candidates"`
}

// BookSlotRequest 确认预约；reschedule_id 非空时移动已有预约
type BookSlotRequest struct {
	Date           string `json:"date"            binding:"required,datetime=2006-01-02"`
	StartTime      string `json:"start_time"      binding:"required,datetime=15:04"`
	EndTime        string `json:"end_time"        binding:"required,datetime=15:04"`
	CollaboratorID string `json:"collaborator_id" binding:"omitempty,uuid"`
	Title          string `json:"title"           binding:"omitempty,max=200"`
	RescheduleID   string `json:"reschedule_id"   binding:"omitempty,uuid"`
}

// ScheduledSlotResponse 已确认预约
type ScheduledSlotResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	CollaboratorID *string `json:"collaborator_id,omitempty"`
	Title          string  `json:"title"`
	Date           string  `json:"date"`
	DayName        string  `json:"day_name"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	Status         string  `json:"status"`
	Version        int     `json:"version"`
}
