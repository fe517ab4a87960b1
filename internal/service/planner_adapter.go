package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"optimus-k/backend/config"
	"optimus-k/backend/internal/model"
	"optimus-k/backend/internal/planner"
)

// ── model ⇄ planner 转换 ──

const dateLayout = "2006-01-02"

// ErrInvalidWeekStart week_start 无法解析
var ErrInvalidWeekStart = errors.New("week_start 格式无效，应为 YYYY-MM-DD")

// parseWeekStart 解析 week_start 并归一到所在周的周一
func parseWeekStart(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidWeekStart
	}
	return t.AddDate(0, 0, -planner.WeekdayIndex(t)), nil
}

// parseDBClock 解析 Postgres time 列（"09:00:00" 或带微秒）
func parseDBClock(s string) (planner.Clock, error) {
	s, _, _ = strings.Cut(s, ".")
	return planner.ParseClock(s)
}

// toDate datatypes.Date 转为指定时区的当天零点
func toDate(d datatypes.Date, loc *time.Location) time.Time {
	y, m, day := time.Time(d).Date()
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}

func toDayWindow(c model.DayColumns) (planner.DayWindow, error) {
	if !c.Available || c.Start == nil || c.End == nil {
		return planner.DayWindow{}, nil
	}
	start, err := parseDBClock(*c.Start)
	if err != nil {
		return planner.DayWindow{}, err
	}
	end, err := parseDBClock(*c.End)
	if err != nil {
		return planner.DayWindow{}, err
	}
	return planner.DayWindow{Available: true, Start: start, End: end}, nil
}

// toWeekAvailability 行记录转为求交输入；无法解析的日期按不可用处理
func toWeekAvailability(row *model.WeeklyAvailability, weekStart time.Time, logger *zap.Logger) planner.WeekAvailability {
	wa := planner.WeekAvailability{UserID: row.UserID, WeekStart: weekStart}
	for i, c := range row.Days() {
		w, err := toDayWindow(c)
		if err != nil {
			logger.Warn("空闲时间解析失败，按不可用处理",
				zap.String("user_id", row.UserID), zap.Int("day", i), zap.Error(err))
			continue
		}
		wa.Days[i] = w
	}
	return wa
}

// toBookings 预约展开为按人计的占用；带协作者的预约同时占用双方
func toBookings(slots []model.ScheduledSlot, loc *time.Location, logger *zap.Logger) []planner.Booking {
	out := make([]planner.Booking, 0, len(slots))
	for i := range slots {
		s := &slots[i]
		start, end, err := slotWindow(s)
		if err != nil {
			logger.Warn("预约时间解析失败，已忽略", zap.String("scheduled_slot_id", s.ScheduledSlotID), zap.Error(err))
			continue
		}
		b := planner.Booking{ID: s.ScheduledSlotID, UserID: s.UserID, Date: toDate(s.SlotDate, loc), Start: start, End: end}
		out = append(out, b)
		if s.CollaboratorID != nil && *s.CollaboratorID != "" {
			b.UserID = *s.CollaboratorID
			out = append(out, b)
		}
	}
	return out
}

func slotWindow(s *model.ScheduledSlot) (planner.Clock, planner.Clock, error) {
	start, err := parseDBClock(s.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err := parseDBClock(s.EndTime)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// finderOptions 配置映射为求交参数
func finderOptions(p config.PlannerConfig) planner.FinderOptions {
	return planner.FinderOptions{
		Step:             time.Duration(p.SlotStepMinutes) * time.Minute,
		MaxPerDay:        p.MaxSlotsPerDay,
		AvailableLimit:   p.AvailableLimit,
		UnavailableLimit: p.UnavailableLimit,
	}
}

// clockColumn Clock 转为 time 列写入值
func clockColumn(c planner.Clock) string {
	return fmt.Sprintf("%s:00", c)
}

// displayClock 数据库 time 值转为 "HH:MM"，无法解析时原样返回
func displayClock(s string) string {
	c, err := parseDBClock(s)
	if err != nil {
		return s
	}
	return c.String()
}

// dateColumn 以 UTC 零点写入 date 列，避免会话时区导致日期偏移
func dateColumn(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
