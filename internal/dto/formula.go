package dto

// ── 任务配额公式 DTO ──

// FormulaPreviewRequest 按给定参数预览每周任务配额
type FormulaPreviewRequest struct {
	Role        string  `json:"role"         binding:"omitempty,max=40"`
	TeamSize    float64 `json:"team_size"    binding:"gte=0"`
	Methodology string  `json:"methodology"  binding:"omitempty,max=30"`
	Phase       int     `json:"phase"        binding:"gte=0"`
	WeeklyHours float64 `json:"weekly_hours" binding:"gte=0,lte=168"`
}

// FormulaFactors 各项系数
type FormulaFactors struct {
	Role     float64 `json:"role"`
	TeamSize float64 `json:"team_size"`
	Phase    float64 `json:"phase"`
	Hours    float64 `json:"hours"`
}

// FormulaResponse 配额结果
type FormulaResponse struct {
	Tasks       int            `json:"tasks"`
	Formula     string         `json:"formula"`
	Factors     FormulaFactors `json:"factors"`
	Role        string         `json:"role"`
	TeamSize    float64        `json:"team_size"`
	Methodology string         `json:"methodology"`
	Phase       int            `json:"phase"`
	WeeklyHours float64        `json:"weekly_hours"`
}
