package model

import "gorm.io/datatypes"

// ScheduledSlot 已确认的预约 — 对应 scheduled_slots
type ScheduledSlot struct {
	ScheduledSlotID string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"scheduled_slot_id"`
	UserID          string         `gorm:"type:uuid;not null"                              json:"user_id"`
	CollaboratorID  *string        `gorm:"type:uuid"                                       json:"collaborator_id,omitempty"`
	Title           string         `gorm:"type:varchar(200);not null;default:''"           json:"title"`
	SlotDate        datatypes.Date `gorm:"type:date;not null"                              json:"slot_date"`
	StartTime       string         `gorm:"type:time;not null"                              json:"start_time"`
	EndTime         string         `gorm:"type:time;not null"                              json:"end_time"`
	Status          string         `gorm:"type:varchar(20);not null;default:'scheduled'"   json:"status"` // scheduled | cancelled
	VersionedModel
}

// TableName 指定表名
func (ScheduledSlot) TableName() string { return "scheduled_slots" }

// 预约状态
const (
	SlotStatusScheduled = "scheduled"
	SlotStatusCancelled = "cancelled"
)
