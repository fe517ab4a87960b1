package repository

import (
	"context"

	"gorm.io/gorm"

	"optimus-k/backend/internal/model"
)

// PhaseTaskRepository 阶段任务数据访问接口
type PhaseTaskRepository interface {
	// ListByUserAndPhase 按 order_index 升序返回
	ListByUserAndPhase(ctx context.Context, organizationID, userID string, phase int) ([]model.PhaseTask, error)
}

type phaseTaskRepo struct {
	db *gorm.DB
}

// NewPhaseTaskRepo 创建 PhaseTaskRepository 实例
func NewPhaseTaskRepo(db *gorm.DB) PhaseTaskRepository {
	return &phaseTaskRepo{db: db}
}

func (r *phaseTaskRepo) ListByUserAndPhase(ctx context.Context, organizationID, userID string, phase int) ([]model.PhaseTask, error) {
	var tasks []model.PhaseTask
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ? AND phase = ?", organizationID, userID, phase).
		Order("order_index ASC, created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

// TaskValidationRepository 任务校验数据访问接口
type TaskValidationRepository interface {
	// ListApprovedTaskIDs 返回 taskIDs 中已审批通过的任务 ID
	ListApprovedTaskIDs(ctx context.Context, userID string, taskIDs []string) ([]string, error)
}

type taskValidationRepo struct {
	db *gorm.DB
}

// NewTaskValidationRepo 创建 TaskValidationRepository 实例
func NewTaskValidationRepo(db *gorm.DB) TaskValidationRepository {
	return &taskValidationRepo{db: db}
}

func (r *taskValidationRepo) ListApprovedTaskIDs(ctx context.Context, userID string, taskIDs []string) ([]string, error) {
	var ids []string
	if len(taskIDs) == 0 {
		return ids, nil
	}
	err := r.db.WithContext(ctx).
		Model(&model.TaskValidation{}).
		Where("user_id = ? AND task_id IN ? AND status = ?", userID, taskIDs, model.ValidationApproved).
		Distinct().
		Pluck("task_id", &ids).Error
	return ids, err
}
