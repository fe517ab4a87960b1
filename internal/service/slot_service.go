package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"optimus-k/backend/config"
	"optimus-k/backend/internal/dto"
	"optimus-k/backend/internal/model"
	"optimus-k/backend/internal/planner"
	"optimus-k/backend/internal/repository"
	pkgerrors "optimus-k/backend/pkg/errors"
)

// ── 时段模块业务错误 ──

var (
	ErrAvailabilityNotConfigured = errors.New("当前用户该周尚未声明空闲时间")
	ErrSelfCollaboration         = errors.New("协作者不能是本人")
	ErrCollaboratorNotFound      = errors.New("协作者不存在")
	ErrInvalidTimeRange          = errors.New("开始时间必须早于结束时间")
	ErrSlotConflict              = errors.New("所选时段与已有预约冲突")
	ErrSlotNotFound              = errors.New("预约不存在")
	ErrSlotForbidden             = errors.New("只能调整本人发起的预约")
)

// SlotService 时段查找与预约业务接口
type SlotService interface {
	// FindAlternativeSlots 为当前用户（及可选协作者）查找候选时段
	FindAlternativeSlots(ctx context.Context, req *dto.FindSlotsRequest, callerID string) (*dto.FindSlotsResponse, error)
	// BookSlot 确认所选时段；reschedule_id 非空时移动已有预约
	BookSlot(ctx context.Context, req *dto.BookSlotRequest, callerID string) (*dto.ScheduledSlotResponse, error)
	// ListWeekSlots 用户该周作为发起人或协作者的有效预约
	ListWeekSlots(ctx context.Context, userID, weekStart string) ([]dto.ScheduledSlotResponse, error)
	// ExportWeekICS 导出该周预约为 iCalendar
	ExportWeekICS(ctx context.Context, userID, weekStart string) ([]byte, string, error)
}

type slotService struct {
	repo   *repository.Repository
	opts   planner.FinderOptions
	loc    *time.Location
	logger *zap.Logger
}

// NewSlotService 创建 SlotService 实例
func NewSlotService(repo *repository.Repository, cfg config.PlannerConfig, loc *time.Location, logger *zap.Logger) SlotService {
	return &slotService{repo: repo, opts: finderOptions(cfg), loc: loc, logger: logger}
}

// ────────────────────── FindAlternativeSlots ──────────────────────

func (s *slotService) FindAlternativeSlots(ctx context.Context, req *dto.FindSlotsRequest, callerID string) (*dto.FindSlotsResponse, error) {
	weekStart, err := parseWeekStart(req.WeekStart, s.loc)
	if err != nil {
		return nil, err
	}
	if req.CollaboratorID == callerID {
		return nil, ErrSelfCollaboration
	}

	// 1. 发起人空闲声明（必须存在）
	primaryRow, err := s.repo.Availability.GetByUserAndWeek(ctx, callerID, weekStart)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrAvailabilityNotConfigured
		}
		reqLogger(ctx, s.logger).Error("查询发起人空闲声明失败", zap.String("user_id", callerID), zap.Error(err))
		return nil, err
	}

	q := planner.SlotQuery{
		Primary:        toWeekAvailability(primaryRow, weekStart, reqLogger(ctx, s.logger)),
		CollaboratorID: req.CollaboratorID,
		Duration:       time.Duration(math.Round(req.DurationHours*60)) * time.Minute,
		ExcludeID:      req.ExcludeScheduleID,
	}

	// 2. 协作者空闲声明（缺失视为整周不可用）
	userIDs := []string{callerID}
	if req.CollaboratorID != "" {
		userIDs = append(userIDs, req.CollaboratorID)
		collabRow, err := s.repo.Availability.GetByUserAndWeek(ctx, req.CollaboratorID, weekStart)
		switch {
		case err == nil:
			wa := toWeekAvailability(collabRow, weekStart, reqLogger(ctx, s.logger))
			q.Collaborator = &wa
		case pkgerrors.IsNotFound(err):
		default:
			reqLogger(ctx, s.logger).Error("查询协作者空闲声明失败", zap.String("user_id", req.CollaboratorID), zap.Error(err))
			return nil, err
		}
	}

	// 3. 双方本周已有预约
	slots, err := s.repo.ScheduledSlot.ListActiveByUsers(ctx, userIDs, weekStart, weekStart.AddDate(0, 0, planner.DaysPerWeek))
	if err != nil {
		reqLogger(ctx, s.logger).Error("查询已有预约失败", zap.Strings("user_ids", userIDs), zap.Error(err))
		return nil, err
	}
	q.Bookings = toBookings(slots, s.loc, reqLogger(ctx, s.logger))

	// 4. 求交
	candidates := planner.FindSlots(q, s.opts)

	resp := &dto.FindSlotsResponse{
		WeekStart:  weekStart.Format(dateLayout),
		Candidates: make([]dto.CandidateSlotResponse, 0, len(candidates)),
	}
	for _, c := range candidates {
		resp.Candidates = append(resp.Candidates, dto.CandidateSlotResponse{
			Date:           c.Date.Format(dateLayout),
			DayName:        c.DayName,
			StartTime:      c.Start.String(),
			EndTime:        c.End.String(),
			Available:      c.Available,
			ConflictKind:   string(c.Conflict),
			ConflictReason: c.ConflictReason,
		})
	}

	reqLogger(ctx, s.logger).Debug("候选时段计算完成",
		zap.String("user_id", callerID),
		zap.String("collaborator_id", req.CollaboratorID),
		zap.Int("candidates", len(resp.Candidates)),
	)
	return resp, nil
}

// ────────────────────── BookSlot ──────────────────────

func (s *slotService) BookSlot(ctx context.Context, req *dto.BookSlotRequest, callerID string) (*dto.ScheduledSlotResponse, error) {
	date, err := time.ParseInLocation(dateLayout, req.Date, s.loc)
	if err != nil {
		return nil, ErrInvalidWeekStart
	}
	start, err1 := planner.ParseClock(req.StartTime)
	end, err2 := planner.ParseClock(req.EndTime)
	if err1 != nil || err2 != nil || start >= end {
		return nil, ErrInvalidTimeRange
	}

	var collaboratorID *string
	if req.CollaboratorID != "" {
		if req.CollaboratorID == callerID {
			return nil, ErrSelfCollaboration
		}
		if _, err := s.repo.User.GetByID(ctx, req.CollaboratorID); err != nil {
			if pkgerrors.IsNotFound(err) {
				return nil, ErrCollaboratorNotFound
			}
			reqLogger(ctx, s.logger).Error("查询协作者失败", zap.String("user_id", req.CollaboratorID), zap.Error(err))
			return nil, err
		}
		collaboratorID = &req.CollaboratorID
	}

	var saved *model.ScheduledSlot
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 重新安排：校验归属
		var existing *model.ScheduledSlot
		if req.RescheduleID != "" {
			slot, err := tx.ScheduledSlot.GetByID(ctx, req.RescheduleID)
			if err != nil {
				if pkgerrors.IsNotFound(err) {
					return ErrSlotNotFound
				}
				return err
			}
			if slot.Status != model.SlotStatusScheduled {
				return ErrSlotNotFound
			}
			if slot.UserID != callerID {
				return ErrSlotForbidden
			}
			existing = slot
		}

		// 当天双方的占用
		userIDs := []string{callerID}
		if collaboratorID != nil {
			userIDs = append(userIDs, *collaboratorID)
		}
		slots, err := tx.ScheduledSlot.ListActiveByUsers(ctx, userIDs, date, date.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		bookings := toBookings(slots, s.loc, reqLogger(ctx, s.logger))
		for _, uid := range userIDs {
			if hits := planner.Conflicts(bookings, uid, date, start, end, req.RescheduleID); len(hits) > 0 {
				return ErrSlotConflict
			}
		}

		title := req.Title
		if title == "" {
			title = defaultSlotTitle(collaboratorID != nil)
		}

		if existing != nil {
			existing.CollaboratorID = collaboratorID
			existing.Title = title
			existing.SlotDate = dateColumn(date)
			existing.StartTime = clockColumn(start)
			existing.EndTime = clockColumn(end)
			existing.StampUpdate(callerID)
			if err := tx.ScheduledSlot.Update(ctx, existing); err != nil {
				return err
			}
			saved = existing
			return nil
		}

		slot := &model.ScheduledSlot{
			UserID:         callerID,
			CollaboratorID: collaboratorID,
			Title:          title,
			SlotDate:       dateColumn(date),
			StartTime:      clockColumn(start),
			EndTime:        clockColumn(end),
			Status:         model.SlotStatusScheduled,
		}
		slot.StampCreate(callerID)
		if err := tx.ScheduledSlot.Create(ctx, slot); err != nil {
			return err
		}
		saved = slot
		return nil
	})
	if err != nil {
		if !isSlotBusinessError(err) {
			reqLogger(ctx, s.logger).Error("保存预约失败", zap.String("user_id", callerID), zap.Error(err))
		}
		return nil, err
	}

	reqLogger(ctx, s.logger).Info("预约已确认",
		zap.String("scheduled_slot_id", saved.ScheduledSlotID),
		zap.String("user_id", callerID),
		zap.Bool("rescheduled", req.RescheduleID != ""),
	)
	return toScheduledSlotResponse(saved, s.loc), nil
}

// ────────────────────── ListWeekSlots ──────────────────────

func (s *slotService) ListWeekSlots(ctx context.Context, userID, weekStart string) ([]dto.ScheduledSlotResponse, error) {
	start, err := parseWeekStart(weekStart, s.loc)
	if err != nil {
		return nil, err
	}
	slots, err := s.repo.ScheduledSlot.ListActiveByUsers(ctx, []string{userID}, start, start.AddDate(0, 0, planner.DaysPerWeek))
	if err != nil {
		reqLogger(ctx, s.logger).Error("查询本周预约失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.ScheduledSlotResponse, 0, len(slots))
	for i := range slots {
		result = append(result, *toScheduledSlotResponse(&slots[i], s.loc))
	}
	return result, nil
}

// ── 辅助 ──

func defaultSlotTitle(withCollaborator bool) string {
	if withCollaborator {
		return "协作会议"
	}
	return "专注时段"
}

func isSlotBusinessError(err error) bool {
	for _, target := range []error{ErrSlotConflict, ErrSlotNotFound, ErrSlotForbidden} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func toScheduledSlotResponse(slot *model.ScheduledSlot, loc *time.Location) *dto.ScheduledSlotResponse {
	date := toDate(slot.SlotDate, loc)
	return &dto.ScheduledSlotResponse{
		ID:             slot.ScheduledSlotID,
		UserID:         slot.UserID,
		CollaboratorID: slot.CollaboratorID,
		Title:          slot.Title,
		Date:           date.Format(dateLayout),
		DayName:        planner.DayName(date),
		StartTime:      displayClock(slot.StartTime),
		EndTime:        displayClock(slot.EndTime),
		Status:         slot.Status,
		Version:        slot.Version,
	}
}

// slotTimes 预约在业务时区下的起止时间
func slotTimes(slot *model.ScheduledSlot, loc *time.Location) (time.Time, time.Time, error) {
	start, end, err := slotWindow(slot)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("预约 %s 时间无效: %w", slot.ScheduledSlotID, err)
	}
	date := toDate(slot.SlotDate, loc)
	return date.Add(time.Duration(start) * time.Minute), date.Add(time.Duration(end) * time.Minute), nil
}
