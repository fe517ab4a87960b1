package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"optimus-k/backend/internal/planner"
)

const icsProductID = "-//OPTIMUS-K//Planner//ZH"

// ExportWeekICS 将用户该周的有效预约导出为 iCalendar
//
// 返回值：ics 内容、建议文件名
func (s *slotService) ExportWeekICS(ctx context.Context, userID, weekStart string) ([]byte, string, error) {
	start, err := parseWeekStart(weekStart, s.loc)
	if err != nil {
		return nil, "", err
	}
	slots, err := s.repo.ScheduledSlot.ListActiveByUsers(ctx, []string{userID}, start, start.AddDate(0, 0, planner.DaysPerWeek))
	if err != nil {
		reqLogger(ctx, s.logger).Error("查询本周预约失败", zap.String("user_id", userID), zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName(fmt.Sprintf("OPTIMUS-K %s 周", start.Format(dateLayout)))
	cal.SetXWRTimezone(s.loc.String())

	now := time.Now().UTC()
	for i := range slots {
		slot := &slots[i]
		from, to, err := slotTimes(slot, s.loc)
		if err != nil {
			reqLogger(ctx, s.logger).Warn("跳过无效预约", zap.Error(err))
			continue
		}

		ev := cal.AddEvent(slot.ScheduledSlotID + "@optimus-k")
		ev.SetDtStampTime(now)
		ev.SetCreatedTime(slot.CreatedAt)
		ev.SetModifiedAt(slot.UpdatedAt)
		ev.SetStartAt(from)
		ev.SetEndAt(to)
		ev.SetSummary(slot.Title)
		ev.SetStatus(ics.ObjectStatusConfirmed)
		if slot.CollaboratorID != nil {
			ev.SetDescription(fmt.Sprintf("发起人: %s / 协作者: %s", slot.UserID, *slot.CollaboratorID))
		}
	}

	filename := fmt.Sprintf("optimus-k_%s.ics", start.Format(dateLayout))
	return []byte(cal.Serialize()), filename, nil
}
