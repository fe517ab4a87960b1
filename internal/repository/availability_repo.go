package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"optimus-k/backend/internal/model"
)

// AvailabilityRepository 每周空闲声明数据访问接口
type AvailabilityRepository interface {
	GetByUserAndWeek(ctx context.Context, userID string, weekStart time.Time) (*model.WeeklyAvailability, error)
	Upsert(ctx context.Context, a *model.WeeklyAvailability) error
}

type availabilityRepo struct {
	db *gorm.DB
}

// NewAvailabilityRepo 创建 AvailabilityRepository 实例
func NewAvailabilityRepo(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepo{db: db}
}

func (r *availabilityRepo) GetByUserAndWeek(ctx context.Context, userID string, weekStart time.Time) (*model.WeeklyAvailability, error) {
	var a model.WeeklyAvailability
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND week_start = ?", userID, weekStart.Format("2006-01-02")).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Upsert 按 (user_id, week_start) 插入或覆盖七天的列
func (r *availabilityRepo) Upsert(ctx context.Context, a *model.WeeklyAvailability) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "week_start"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"monday_available", "monday_start", "monday_end",
				"tuesday_available", "tuesday_start", "tuesday_end",
				"wednesday_available", "wednesday_start", "wednesday_end",
				"thursday_available", "thursday_start", "thursday_end",
				"friday_available", "friday_start", "friday_end",
				"saturday_available", "saturday_start", "saturday_end",
				"sunday_available", "sunday_start", "sunday_end",
				"updated_by", "updated_at",
			}),
		}).
		Create(a).Error
}
