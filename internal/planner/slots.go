package planner

import (
	"sort"
	"time"
)

// ── 可用时段求交 ─────────────────────────────────────────────
//
// 职责：在目标周内为发起人（及可选协作者）寻找满足双方声明空闲、
// 且不与已有预约冲突的时间窗口，排序后截断为 Top-N。
//
// 输入均为调用方已加载的快照，本文件不做任何 I/O。
// ─────────────────────────────────────────────────────────────

// DaysPerWeek 一周天数
const DaysPerWeek = 7

// ConflictKind 冲突归属
type ConflictKind string

const (
	ConflictNone         ConflictKind = ""
	ConflictPrimary      ConflictKind = "primary_busy"
	ConflictCollaborator ConflictKind = "collaborator_busy"
	ConflictBoth         ConflictKind = "both_busy"
)

// Reason 冲突的可读描述
func (k ConflictKind) Reason() string {
	switch k {
	case ConflictPrimary:
		return "primary user busy"
	case ConflictCollaborator:
		return "collaborator busy"
	case ConflictBoth:
		return "both busy"
	}
	return ""
}

var dayNames = [DaysPerWeek]string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

// DayWindow 某一天的空闲窗口
type DayWindow struct {
	Available bool
	Start     Clock
	End       Clock
}

// usable 可用且 start < end
func (d DayWindow) usable() bool {
	return d.Available && d.Start < d.End
}

// WeekAvailability 用户一周的空闲声明，Days 以周一为 0
type WeekAvailability struct {
	UserID    string
	WeekStart time.Time
	Days      [DaysPerWeek]DayWindow
}

// Window 返回某日期对应星期的窗口
func (w *WeekAvailability) Window(date time.Time) DayWindow {
	return w.Days[WeekdayIndex(date)]
}

// WeekdayIndex 周一=0 … 周日=6
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// DayName 中文星期名
func DayName(t time.Time) string {
	return dayNames[WeekdayIndex(t)]
}

// DateOnly 截断为当天零点（保留时区）
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Booking 已确认的预约
type Booking struct {
	ID     string
	UserID string
	Date   time.Time
	Start  Clock
	End    Clock
}

// Candidate 计算出的候选时段（不持久化）
type Candidate struct {
	Date           time.Time
	Start          Clock
	End            Clock
	Available      bool
	Conflict       ConflictKind
	ConflictReason string
	DayName        string
}

// SlotQuery 求交输入
//
// CollaboratorID 非空而 Collaborator 为 nil 时，协作者视为整周不可用。
type SlotQuery struct {
	Primary        WeekAvailability
	CollaboratorID string
	Collaborator   *WeekAvailability
	Duration       time.Duration
	Bookings       []Booking
	ExcludeID      string
}

func (q *SlotQuery) collaboratorID() string {
	if q.CollaboratorID != "" {
		return q.CollaboratorID
	}
	if q.Collaborator != nil {
		return q.Collaborator.UserID
	}
	return ""
}

// FinderOptions 求交参数
type FinderOptions struct {
	Step             time.Duration // 滑动步长
	MaxPerDay        int           // 每天最多生成的候选数
	AvailableLimit   int           // 返回的可用候选上限
	UnavailableLimit int           // 返回的冲突候选上限（供界面说明原因）
}

// DefaultFinderOptions 默认参数：30 分钟步长，每天 10 个，5 可用 + 2 冲突
func DefaultFinderOptions() FinderOptions {
	return FinderOptions{
		Step:             30 * time.Minute,
		MaxPerDay:        10,
		AvailableLimit:   5,
		UnavailableLimit: 2,
	}
}

func (o FinderOptions) normalized() FinderOptions {
	def := DefaultFinderOptions()
	if o.Step < time.Minute {
		o.Step = def.Step
	}
	if o.MaxPerDay <= 0 {
		o.MaxPerDay = def.MaxPerDay
	}
	if o.AvailableLimit < 0 {
		o.AvailableLimit = def.AvailableLimit
	}
	if o.UnavailableLimit < 0 {
		o.UnavailableLimit = def.UnavailableLimit
	}
	return o
}

// FindSlots 计算候选时段
//
// 时长 ≤ 0 属于退化输入，返回空结果而非错误。
func FindSlots(q SlotQuery, opts FinderOptions) []Candidate {
	opts = opts.normalized()
	length := Clock(q.Duration / time.Minute)
	if length <= 0 {
		return []Candidate{}
	}
	step := Clock(opts.Step / time.Minute)

	primaryID := q.Primary.UserID
	collabID := q.collaboratorID()
	withCollaborator := collabID != ""

	var all []Candidate
	weekStart := DateOnly(q.Primary.WeekStart)

	for i := 0; i < DaysPerWeek; i++ {
		date := weekStart.AddDate(0, 0, i)

		// 1. 发起人当天空闲窗口
		win := q.Primary.Window(date)
		if !win.usable() {
			continue
		}
		start, end := win.Start, win.End

		// 2. 与协作者窗口求交
		if withCollaborator {
			if q.Collaborator == nil {
				continue
			}
			cw := q.Collaborator.Window(date)
			if !cw.usable() {
				continue
			}
			start = max(start, cw.Start)
			end = min(end, cw.End)
		}

		// 3. 交集不足所需时长
		if end-start < length {
			continue
		}

		// 4. 按步长滑动生成候选
		generated := 0
		for s := start; s+length <= end && generated < opts.MaxPerDay; s += step {
			e := s + length
			kind := classify(q.Bookings, primaryID, collabID, date, s, e, q.ExcludeID)
			all = append(all, Candidate{
				Date:           date,
				Start:          s,
				End:            e,
				Available:      kind == ConflictNone,
				Conflict:       kind,
				ConflictReason: kind.Reason(),
				DayName:        DayName(date),
			})
			generated++
		}
	}

	// 5. 可用优先 → 日期升序 → 开始时间升序
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Available != all[j].Available {
			return all[i].Available
		}
		if !sameDate(all[i].Date, all[j].Date) {
			return all[i].Date.Before(all[j].Date)
		}
		return all[i].Start < all[j].Start
	})

	// 6. 截断
	result := make([]Candidate, 0, opts.AvailableLimit+opts.UnavailableLimit)
	var available, unavailable int
	for _, c := range all {
		if c.Available {
			if available < opts.AvailableLimit {
				result = append(result, c)
				available++
			}
			continue
		}
		if unavailable < opts.UnavailableLimit {
			result = append(result, c)
			unavailable++
		}
	}
	return result
}

// classify 判断候选时段与双方已有预约的冲突归属
func classify(bookings []Booking, primaryID, collabID string, date time.Time, start, end Clock, excludeID string) ConflictKind {
	primaryBusy := len(Conflicts(bookings, primaryID, date, start, end, excludeID)) > 0
	collabBusy := collabID != "" && len(Conflicts(bookings, collabID, date, start, end, excludeID)) > 0

	switch {
	case primaryBusy && collabBusy:
		return ConflictBoth
	case primaryBusy:
		return ConflictPrimary
	case collabBusy:
		return ConflictCollaborator
	}
	return ConflictNone
}

// Conflicts 返回 userID 在 date 当天与 [start,end) 重叠的预约，跳过 excludeID
func Conflicts(bookings []Booking, userID string, date time.Time, start, end Clock, excludeID string) []Booking {
	if userID == "" {
		return nil
	}
	var hits []Booking
	for _, b := range bookings {
		if b.UserID != userID {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if !sameDate(b.Date, date) {
			continue
		}
		if Overlaps(start, end, b.Start, b.End) {
			hits = append(hits, b)
		}
	}
	return hits
}
