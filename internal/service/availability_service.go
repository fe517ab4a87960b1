package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"optimus-k/backend/internal/dto"
	"optimus-k/backend/internal/model"
	"optimus-k/backend/internal/planner"
	"optimus-k/backend/internal/repository"
	pkgerrors "optimus-k/backend/pkg/errors"
)

// ── 空闲声明模块业务错误 ──

var (
	ErrInvalidAvailability = errors.New("空闲时间无效：可用日期必须填写开始与结束时间，且开始早于结束")
)

// AvailabilityService 每周空闲声明业务接口
type AvailabilityService interface {
	GetWeek(ctx context.Context, userID, weekStart string) (*dto.AvailabilityResponse, error)
	SaveWeek(ctx context.Context, userID string, req *dto.SaveAvailabilityRequest) (*dto.AvailabilityResponse, error)
}

type availabilityService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) AvailabilityService {
	return &availabilityService{repo: repo, loc: loc, logger: logger}
}

// ────────────────────── GetWeek ──────────────────────

// GetWeek 未声明的周返回 configured=false、七天均不可用
func (s *availabilityService) GetWeek(ctx context.Context, userID, weekStart string) (*dto.AvailabilityResponse, error) {
	start, err := parseWeekStart(weekStart, s.loc)
	if err != nil {
		return nil, err
	}

	row, err := s.repo.Availability.GetByUserAndWeek(ctx, userID, start)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return toAvailabilityResponse(userID, start, nil), nil
		}
		reqLogger(ctx, s.logger).Error("查询空闲声明失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	wa := toWeekAvailability(row, start, reqLogger(ctx, s.logger))
	return toAvailabilityResponse(userID, start, &wa), nil
}

// ────────────────────── SaveWeek ──────────────────────

func (s *availabilityService) SaveWeek(ctx context.Context, userID string, req *dto.SaveAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	start, err := parseWeekStart(req.WeekStart, s.loc)
	if err != nil {
		return nil, err
	}
	if len(req.Days) != planner.DaysPerWeek {
		return nil, ErrInvalidAvailability
	}

	wa := planner.WeekAvailability{UserID: userID, WeekStart: start}
	var cols [planner.DaysPerWeek]model.DayColumns
	for i, d := range req.Days {
		if !d.Available {
			continue
		}
		from, err1 := planner.ParseClock(d.Start)
		to, err2 := planner.ParseClock(d.End)
		if err1 != nil || err2 != nil || from >= to {
			return nil, fmt.Errorf("%w (%s)", ErrInvalidAvailability, planner.DayName(start.AddDate(0, 0, i)))
		}
		wa.Days[i] = planner.DayWindow{Available: true, Start: from, End: to}
		fromCol, toCol := clockColumn(from), clockColumn(to)
		cols[i] = model.DayColumns{Available: true, Start: &fromCol, End: &toCol}
	}

	row := &model.WeeklyAvailability{
		UserID:    userID,
		WeekStart: dateColumn(start),
	}
	row.SetDays(cols)
	row.StampCreate(userID)

	if err := s.repo.Availability.Upsert(ctx, row); err != nil {
		reqLogger(ctx, s.logger).Error("保存空闲声明失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	reqLogger(ctx, s.logger).Info("空闲声明已保存", zap.String("user_id", userID), zap.String("week_start", start.Format(dateLayout)))
	return toAvailabilityResponse(userID, start, &wa), nil
}

// ── 辅助 ──

func toAvailabilityResponse(userID string, weekStart time.Time, wa *planner.WeekAvailability) *dto.AvailabilityResponse {
	resp := &dto.AvailabilityResponse{
		UserID:     userID,
		WeekStart:  weekStart.Format(dateLayout),
		Configured: wa != nil,
		Days:       make([]dto.DayAvailabilityResponse, planner.DaysPerWeek),
	}
	for i := range resp.Days {
		d := dto.DayAvailabilityResponse{Day: i, DayName: planner.DayName(weekStart.AddDate(0, 0, i))}
		if wa != nil && wa.Days[i].Available {
			d.Available = true
			d.Start = wa.Days[i].Start.String()
			d.End = wa.Days[i].End.String()
		}
		resp.Days[i] = d
	}
	return resp
}
