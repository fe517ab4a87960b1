package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"optimus-k/backend/internal/model"
	pkgerrors "optimus-k/backend/pkg/errors"
)

// ScheduledSlotRepository 预约数据访问接口
type ScheduledSlotRepository interface {
	Create(ctx context.Context, slot *model.ScheduledSlot) error
	GetByID(ctx context.Context, id string) (*model.ScheduledSlot, error)
	// ListActiveByUsers 列出 [from, to) 内 users 作为发起人或协作者的有效预约
	ListActiveByUsers(ctx context.Context, userIDs []string, from, to time.Time) ([]model.ScheduledSlot, error)
	Update(ctx context.Context, slot *model.ScheduledSlot) error
}

type scheduledSlotRepo struct {
	db *gorm.DB
}

// NewScheduledSlotRepo 创建 ScheduledSlotRepository 实例
func NewScheduledSlotRepo(db *gorm.DB) ScheduledSlotRepository {
	return &scheduledSlotRepo{db: db}
}

func (r *scheduledSlotRepo) Create(ctx context.Context, slot *model.ScheduledSlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *scheduledSlotRepo) GetByID(ctx context.Context, id string) (*model.ScheduledSlot, error) {
	var slot model.ScheduledSlot
	err := r.db.WithContext(ctx).Where("scheduled_slot_id = ?", id).First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *scheduledSlotRepo) ListActiveByUsers(ctx context.Context, userIDs []string, from, to time.Time) ([]model.ScheduledSlot, error) {
	var slots []model.ScheduledSlot
	if len(userIDs) == 0 {
		return slots, nil
	}
	err := r.db.WithContext(ctx).
		Where("(user_id IN ? OR collaborator_id IN ?)", userIDs, userIDs).
		Where("slot_date >= ? AND slot_date < ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Where("status = ?", model.SlotStatusScheduled).
		Order("slot_date ASC, start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *scheduledSlotRepo) Update(ctx context.Context, slot *model.ScheduledSlot) error {
	oldVersion := slot.Version
	result := r.db.WithContext(ctx).
		Model(slot).
		Where("scheduled_slot_id = ? AND version = ?", slot.ScheduledSlotID, oldVersion).
		Updates(map[string]interface{}{
			"collaborator_id": slot.CollaboratorID,
			"title":           slot.Title,
			"slot_date":       slot.SlotDate,
			"start_time":      slot.StartTime,
			"end_time":        slot.EndTime,
			"status":          slot.Status,
			"updated_by":      slot.UpdatedBy,
			"version":         oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	slot.Version = oldVersion + 1
	return nil
}
