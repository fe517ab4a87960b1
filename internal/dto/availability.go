package dto

// ── 每周空闲声明 DTO ──

// DayAvailability 单日空闲窗口，时间格式 "09:00"
type DayAvailability struct {
	Available bool   `json:"available"`
	Start     string `json:"start,omitempty" binding:"omitempty,datetime=15:04"`
	End       string `json:"end,omitempty"   binding:"omitempty,datetime=15:04"`
}

// SaveAvailabilityRequest 保存一周空闲声明
// days 按周一到周日排列
type SaveAvailabilityRequest struct {
	WeekStart string            `json:"week_start" binding:"required,datetime=2006-01-02"`
	Days      []DayAvailability `json:"days"       binding:"required,len=7,dive"`
}

// DayAvailabilityResponse 单日空闲窗口响应
type DayAvailabilityResponse struct {
	Day       int    `json:"day"` // 周一=0
	DayName   string `json:"day_name"`
	Available bool   `json:"available"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
}

// AvailabilityResponse 一周空闲声明响应
type AvailabilityResponse struct {
	UserID     string                    `json:"user_id"`
	WeekStart  string                    `json:"week_start"`
	Configured bool                      `json:"configured"` // 该周是否已声明
	Days       []DayAvailabilityResponse `json:"days"`
}
