package model

import "time"

// PhaseTask 阶段任务表 — 对应 phase_tasks
type PhaseTask struct {
	PhaseTaskID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"phase_task_id"`
	OrganizationID string `gorm:"type:uuid;not null"                             json:"organization_id"`
	UserID         string `gorm:"type:uuid;not null"                             json:"user_id"`
	Phase          int    `gorm:"type:smallint;not null"                         json:"phase"`
	Title          string `gorm:"type:varchar(200);not null"                     json:"title"`
	Description    string `gorm:"type:text"                                      json:"description,omitempty"`
	Area           string `gorm:"type:varchar(50)"                               json:"area,omitempty"`
	OrderIndex     int    `gorm:"not null;default:0"                             json:"order_index"`
	VersionedModel
}

// TableName 指定表名
func (PhaseTask) TableName() string { return "phase_tasks" }

// TaskValidation 任务完成校验表 — 对应 task_validations
//
// 仅 status=approved（由 leader 审批）视为完成。
type TaskValidation struct {
	ValidationID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"validation_id"`
	TaskID       string     `gorm:"type:uuid;not null"                             json:"task_id"`
	UserID       string     `gorm:"type:uuid;not null"                             json:"user_id"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | approved | rejected
	ValidatedBy  *string    `gorm:"type:uuid"                                      json:"validated_by,omitempty"`
	ValidatedAt  *time.Time `json:"validated_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (TaskValidation) TableName() string { return "task_validations" }

// ValidationApproved 已审批通过
const ValidationApproved = "approved"
