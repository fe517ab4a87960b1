package model

// Organization 组织表 — 对应 organizations
type Organization struct {
	OrganizationID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"organization_id"`
	Name           string `gorm:"type:varchar(150);not null"                      json:"name"`
	Methodology    string `gorm:"type:varchar(30);not null;default:'lean_startup'" json:"methodology"` // lean_startup | traditional
	TeamSize       int    `gorm:"not null;default:1"                              json:"team_size"`
	CurrentPhase   int    `gorm:"type:smallint;not null;default:1"                json:"current_phase"`
	VersionedModel
}

// TableName 指定表名
func (Organization) TableName() string { return "organizations" }
